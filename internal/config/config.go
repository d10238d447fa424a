package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Journal backends.
const (
	JournalRedis  = "redis"
	JournalSQLite = "sqlite"
	JournalJSONL  = "jsonl"
	JournalNone   = "none"
)

// Journal selects and tunes the event journal backend.
type Journal struct {
	Backend    string
	SQLitePath string
	JSONLDir   string
	Retention  int // newest events kept by capped backends
}

// Config controls the daemon, journal, and stream surfaces. Values
// come from defaults, then the optional MCHOOK_CONFIG YAML file, then
// environment variables, strongest last.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	RedisURL    string

	PollPeriodTicks int
	TickRate        int
	Seed            int64
	WebhookURL      string

	Journal Journal
}

// fileConfig mirrors Config for the YAML overlay. Numeric fields are
// pointers so an explicit zero is distinguishable from an absent key.
type fileConfig struct {
	Port            string `yaml:"port"`
	Environment     string `yaml:"environment"`
	LogLevel        string `yaml:"log_level"`
	RedisURL        string `yaml:"redis_url"`
	PollPeriodTicks *int   `yaml:"poll_period_ticks"`
	TickRate        *int   `yaml:"tick_rate"`
	Seed            *int64 `yaml:"seed"`
	WebhookURL      string `yaml:"webhook_url"`
	Journal         struct {
		Backend    string `yaml:"backend"`
		SQLitePath string `yaml:"sqlite_path"`
		JSONLDir   string `yaml:"jsonl_dir"`
		Retention  *int   `yaml:"retention"`
	} `yaml:"journal"`
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("MCHOOK_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		Environment:     "development",
		LogLevel:        slog.LevelInfo,
		RedisURL:        "localhost:6379",
		PollPeriodTicks: 10,
		TickRate:        20,
		Seed:            1,
		Journal: Journal{
			Backend:    JournalRedis,
			SQLitePath: "mchook.db",
			JSONLDir:   "journal",
			Retention:  1000,
		},
	}
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.Environment != "" {
		c.Environment = fc.Environment
	}
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}
	if fc.RedisURL != "" {
		c.RedisURL = fc.RedisURL
	}
	if fc.PollPeriodTicks != nil {
		c.PollPeriodTicks = *fc.PollPeriodTicks
	}
	if fc.TickRate != nil {
		c.TickRate = *fc.TickRate
	}
	if fc.Seed != nil {
		c.Seed = *fc.Seed
	}
	if fc.WebhookURL != "" {
		c.WebhookURL = fc.WebhookURL
	}
	if fc.Journal.Backend != "" {
		c.Journal.Backend = fc.Journal.Backend
	}
	if fc.Journal.SQLitePath != "" {
		c.Journal.SQLitePath = fc.Journal.SQLitePath
	}
	if fc.Journal.JSONLDir != "" {
		c.Journal.JSONLDir = fc.Journal.JSONLDir
	}
	if fc.Journal.Retention != nil {
		c.Journal.Retention = *fc.Journal.Retention
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = parseLogLevel(v)
	}
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.WebhookURL = getEnv("WEBHOOK_URL", c.WebhookURL)
	c.Journal.Backend = getEnv("JOURNAL_BACKEND", c.Journal.Backend)
	c.Journal.SQLitePath = getEnv("JOURNAL_SQLITE_PATH", c.Journal.SQLitePath)
	c.Journal.JSONLDir = getEnv("JOURNAL_JSONL_DIR", c.Journal.JSONLDir)

	var err error
	if c.PollPeriodTicks, err = getEnvInt("POLL_PERIOD_TICKS", c.PollPeriodTicks); err != nil {
		return err
	}
	if c.TickRate, err = getEnvInt("TICK_RATE", c.TickRate); err != nil {
		return err
	}
	if c.Journal.Retention, err = getEnvInt("JOURNAL_RETENTION", c.Journal.Retention); err != nil {
		return err
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SIM_SEED: %w", err)
		}
		c.Seed = seed
	}
	return nil
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.PollPeriodTicks < 1 {
		return fmt.Errorf("poll period must be at least 1 tick, got %d", c.PollPeriodTicks)
	}
	if c.TickRate < 1 {
		return fmt.Errorf("tick rate must be at least 1, got %d", c.TickRate)
	}
	if c.Journal.Retention < 0 {
		return fmt.Errorf("journal retention must not be negative, got %d", c.Journal.Retention)
	}
	switch c.Journal.Backend {
	case JournalRedis, JournalSQLite, JournalJSONL, JournalNone:
	default:
		return fmt.Errorf("unknown journal backend %q", c.Journal.Backend)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
