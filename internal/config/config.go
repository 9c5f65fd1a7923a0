package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	PostgresURI    string
	RedisURI       string // empty disables the list cache and Redis rate limiter
	Port           string
	Environment    string   // ENV: production, development, etc.
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	SeedSampleData bool
	CacheTTL       time.Duration
	Version        string
	LogLevel       string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseList(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:8081"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", getEnv("DATABASE_URL", "postgres://localhost:5432/mindtrack?sslmode=disable")),
		RedisURI:       strings.TrimSpace(os.Getenv("REDIS_URI")),
		Port:           getEnv("PORT", "3000"),
		Environment:    env,
		AllowedOrigins: allowedOrigins,
		SeedSampleData: getBool("SEED_SAMPLE_DATA", false),
		CacheTTL:       getDuration("CACHE_TTL", 5*time.Minute),
		Version:        getEnv("APP_VERSION", "1.0.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// ClientConfig configures the mindtrack data access layer.
type ClientConfig struct {
	ServerURLs     []string // tried in order by the endpoint resolver
	Timeout        time.Duration
	DataPath       string // local fallback store; empty means the platform default
	DefaultUserID  int
	DiscoverSubnet string // e.g. "192.168.1"; opt-in heuristic probing
	LogLevel       string
}

func LoadClient() *ClientConfig {
	urls := parseList(getEnv("MINDTRACK_SERVER_URL", "http://localhost:3000"))
	userID, err := strconv.Atoi(getEnv("MINDTRACK_DEFAULT_USER_ID", "1"))
	if err != nil || userID <= 0 {
		userID = 1
	}
	return &ClientConfig{
		ServerURLs:     urls,
		Timeout:        getDuration("MINDTRACK_TIMEOUT", 10*time.Second),
		DataPath:       os.Getenv("MINDTRACK_DATA_PATH"),
		DefaultUserID:  userID,
		DiscoverSubnet: os.Getenv("MINDTRACK_DISCOVER_SUBNET"),
		LogLevel:       getEnv("MINDTRACK_LOG_LEVEL", "warn"),
	}
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

// getDuration accepts Go durations ("10s") or plain seconds ("10").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
