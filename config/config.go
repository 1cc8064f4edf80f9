package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"fiveinarow/meta"
	"fiveinarow/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr         string        // Game server listen address
	AgentAddr    string        // Agent server listen address
	AgentURL     string        // Remote agent to play against, empty for the built-in one
	AgentTimeout time.Duration // Per-move timeout of a remote agent
	Rows         int
	Cols         int
	Bias         int
	DBPath       string // Empty disables the game archive
	LogLevel     string
	AIFirst      bool
}

// Load reads the configuration from the environment, with defaults for unset keys.
func Load() *Config {
	return &Config{
		Addr:         getEnv("FIVE_ADDR", ":8080"),
		AgentAddr:    getEnv("FIVE_AGENT_ADDR", ":8081"),
		AgentURL:     getEnv("FIVE_AGENT_URL", ""),
		AgentTimeout: getEnvDuration("FIVE_AGENT_TIMEOUT", 5*time.Second),
		Rows:         getEnvInt("FIVE_ROWS", meta.DefaultRows),
		Cols:         getEnvInt("FIVE_COLS", meta.DefaultCols),
		Bias:         getEnvInt("FIVE_BIAS", searcher.Bias),
		DBPath:       getEnv("FIVE_DB_PATH", "data/games.db"),
		LogLevel:     getEnv("FIVE_LOG_LEVEL", "info"),
		AIFirst:      getEnvBool("FIVE_AI_FIRST", false),
	}
}

// BindFlags lets command line flags override the loaded values.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "game server listen address")
	fs.StringVar(&c.AgentAddr, "agent-addr", c.AgentAddr, "agent server listen address")
	fs.StringVar(&c.AgentURL, "agent-url", c.AgentURL, "remote agent server URL (empty plays the built-in agent)")
	fs.DurationVar(&c.AgentTimeout, "agent-timeout", c.AgentTimeout, "per-move timeout of a remote agent")
	fs.IntVar(&c.Rows, "rows", c.Rows, "board rows")
	fs.IntVar(&c.Cols, "cols", c.Cols, "board columns")
	fs.IntVar(&c.Bias, "bias", c.Bias, "constant added to every candidate score")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite game archive path (empty disables it)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.AIFirst, "ai-first", c.AIFirst, "let the AI open every game")
}

func (c *Config) Validate() error {
	var errs []error
	if c.Rows <= 0 || c.Cols <= 0 || c.Rows > meta.MaxSize || c.Cols > meta.MaxSize {
		errs = append(errs, fmt.Errorf("board sides must be within 1..%d, got %dx%d", meta.MaxSize, c.Rows, c.Cols))
	}
	if c.AgentTimeout <= 0 {
		errs = append(errs, fmt.Errorf("agent timeout must be positive, got %s", c.AgentTimeout))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("bad log level %q: %w", c.LogLevel, err))
	}
	return errors.Join(errs...)
}

// SetupLogging points the global logger at a console writer with the configured level.
func (c *Config) SetupLogging() {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
