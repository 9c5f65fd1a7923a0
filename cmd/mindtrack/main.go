package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mindtrack/internal/client"
	"github.com/AnshRaj112/mindtrack/internal/config"
	"github.com/AnshRaj112/mindtrack/internal/localstore"
	"github.com/AnshRaj112/mindtrack/internal/logger"
)

const discoverPort = 3000

var (
	serverFlag   string
	timeoutFlag  time.Duration
	dataFlag     string
	subnetFlag   string
	logLevelFlag string

	cfg *config.ClientConfig
)

var rootCmd = &cobra.Command{
	Use:   "mindtrack",
	Short: "Journal entries and support contacts, online or offline.",
	Long: `mindtrack talks to the MindTrack server and keeps working when it cannot
be reached: writes land in a local store and every record is printed with the
store it came from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg = config.LoadClient()

		if cmd.Flags().Changed("server") {
			cfg.ServerURLs = splitList(serverFlag)
		}
		if cmd.Flags().Changed("timeout") {
			if timeoutFlag <= 0 {
				return fmt.Errorf("timeout must be positive")
			}
			cfg.Timeout = timeoutFlag
		}
		if cmd.Flags().Changed("data") {
			cfg.DataPath = dataFlag
		}
		if cmd.Flags().Changed("discover-subnet") {
			cfg.DiscoverSubnet = subnetFlag
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevelFlag
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// buildResolver uses a fixed endpoint for a single URL and probes otherwise.
func buildResolver(c *config.ClientConfig) client.EndpointResolver {
	candidates := append([]string{}, c.ServerURLs...)
	if c.DiscoverSubnet != "" {
		hosts := make([]int, 0, 254)
		for h := 1; h <= 254; h++ {
			hosts = append(hosts, h)
		}
		candidates = append(candidates, client.SubnetCandidates(c.DiscoverSubnet, hosts, discoverPort)...)
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return client.FixedResolver(candidates[0])
	default:
		return client.NewProbeResolver(candidates, 0)
	}
}

// openClient opens the local store and builds a client around it. The caller
// closes the returned store.
func openClient() (*client.Client, *localstore.Store, error) {
	store, err := localstore.Open(cfg.DataPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(false, cfg.LogLevel)
	if err != nil {
		log = zap.NewNop()
	}

	c := client.New(store, client.Options{
		Resolver:      buildResolver(cfg),
		Timeout:       cfg.Timeout,
		DefaultUserID: cfg.DefaultUserID,
		Logger:        log,
	})
	return c, store, nil
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Server base URL(s), comma separated (default from MINDTRACK_SERVER_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", client.DefaultTimeout, "Timeout for each server request")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "Path to the local store (uses a system-specific default if not provided)")
	rootCmd.PersistentFlags().StringVar(&subnetFlag, "discover-subnet", "", "Also probe <subnet>.1-254 for a server, e.g. 192.168.1")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level (debug, info, warn, error)")

	initEntriesCmd()
	initContactsCmd()
	rootCmd.AddCommand(entriesCmd, contactsCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
