package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindtrack/internal/client"
	"github.com/AnshRaj112/mindtrack/internal/models"
)

var moodFlag int

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage journal entries",
	Long:  `Create, list, and delete mood-rated journal entries.`,
}

var listEntriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openClient()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := c.ListEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		out := cmd.OutOrStdout()
		printSource(out, res.Source, res.RemoteErr)
		if len(res.Value) == 0 {
			fmt.Fprintln(out, "No entries yet.")
			return nil
		}
		for _, e := range res.Value {
			printEntry(out, e)
		}
		return nil
	},
}

var addEntryCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a journal entry",
	Long:  `Add a journal entry with a mood rating between 1 and 5.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openClient()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := c.CreateEntry(cmd.Context(), strings.Join(args, " "), moodFlag)
		if err != nil {
			return fmt.Errorf("failed to add entry: %w", err)
		}
		out := cmd.OutOrStdout()
		printSource(out, res.Source, res.RemoteErr)
		printEntry(out, res.Value)
		return nil
	},
}

var deleteEntryCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a journal entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openClient()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := c.DeleteEntry(cmd.Context(), models.RecordID(args[0]))
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		out := cmd.OutOrStdout()
		printSource(out, res.Source, res.RemoteErr)
		fmt.Fprintf(out, "Deleted entry %s\n", args[0])
		return nil
	},
}

func initEntriesCmd() {
	addEntryCmd.Flags().IntVarP(&moodFlag, "mood", "m", 0, "Mood rating (1-5)")
	addEntryCmd.MarkFlagRequired("mood")

	entriesCmd.AddCommand(listEntriesCmd, addEntryCmd, deleteEntryCmd)
}

func printSource(out io.Writer, source client.Source, remoteErr error) {
	if remoteErr != nil {
		fmt.Fprintf(out, "[%s] server unavailable: %v\n", source, remoteErr)
		return
	}
	fmt.Fprintf(out, "[%s]\n", source)
}

func printEntry(out io.Writer, e client.Entry) {
	fmt.Fprintf(out, "%s  %s  mood %d/%d  %s\n",
		e.ID, e.Timestamp.Local().Format(time.RFC3339), e.MoodRating, models.MaxMoodRating, e.EntryText)
}
