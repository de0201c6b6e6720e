// Package config handles scout-bee runtime configuration via environment
// variables.
//
// Only the CLI and other outer layers consume this package; the analysis
// core takes everything it needs as arguments. Configuration is loaded from
// environment variables with LoadFromEnv() and checked with Validate()
// before use.
//
// Example Usage:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//
//	fmt.Printf("data dir: %s\n", cfg.Store.DataDir)
//
// Environment Variables:
//   - SCOUTBEE_DATA_DIR="./data" (empty runs the store in memory)
//   - SCOUTBEE_APPROACHES_FILE="./approaches.yaml"
//   - SCOUTBEE_JOURNAL=true
//   - SCOUTBEE_JOURNAL_LIMIT=20
//   - SCOUTBEE_LOG_LEVEL="info" (debug|info|warn|error)
//   - SCOUTBEE_LOG_FORMAT="text" (text|json)
//   - SCOUTBEE_OUTPUT="text" (text|json)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/SolidLabResearch/hive-scout-bee/pkg/logging"
)

// Config holds all scout-bee configuration loaded from environment
// variables.
//
// Use LoadFromEnv() to create a Config, then Validate() before handing it
// to the CLI layers.
type Config struct {
	// Store settings (approach catalog and analysis journal)
	Store StoreConfig

	// Approaches settings (rule file loading)
	Approaches ApproachesConfig

	// Logging settings
	Logging LoggingConfig

	// Output is the CLI print format: "text" or "json"
	Output string
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// DataDir is the BadgerDB directory. Empty means in-memory: nothing
	// survives the process.
	DataDir string
	// JournalEnabled records every analyze run in the journal.
	JournalEnabled bool
	// JournalLimit is the default number of journal entries returned.
	JournalLimit int
}

// ApproachesConfig holds rule-file settings.
type ApproachesConfig struct {
	// File is an optional YAML/JSON approach file loaded on top of the
	// stored catalog.
	File string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string
	// Format is the handler format: text or json.
	Format string
}

// DefaultConfig returns the configuration used when no environment
// variables are set: in-memory store, journaling on, text everything.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			DataDir:        "",
			JournalEnabled: true,
			JournalLimit:   20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: "text",
	}
}

// LoadFromEnv builds a Config from SCOUTBEE_* environment variables,
// falling back to DefaultConfig values for anything unset.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.Store.DataDir = getEnv("SCOUTBEE_DATA_DIR", cfg.Store.DataDir)
	cfg.Store.JournalEnabled = getEnvBool("SCOUTBEE_JOURNAL", cfg.Store.JournalEnabled)
	cfg.Store.JournalLimit = getEnvInt("SCOUTBEE_JOURNAL_LIMIT", cfg.Store.JournalLimit)

	cfg.Approaches.File = getEnv("SCOUTBEE_APPROACHES_FILE", cfg.Approaches.File)

	cfg.Logging.Level = getEnv("SCOUTBEE_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("SCOUTBEE_LOG_FORMAT", cfg.Logging.Format)

	cfg.Output = getEnv("SCOUTBEE_OUTPUT", cfg.Output)

	return cfg
}

// Validate checks the configuration for values the CLI cannot work with.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format %q (want text or json)", c.Logging.Format)
	}

	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid output format %q (want text or json)", c.Output)
	}

	if c.Store.JournalLimit <= 0 {
		return fmt.Errorf("invalid journal limit %d", c.Store.JournalLimit)
	}

	return nil
}

// String returns a string representation of the Config, suitable for
// startup logging.
func (c *Config) String() string {
	dataDir := c.Store.DataDir
	if dataDir == "" {
		dataDir = "(in-memory)"
	}
	return fmt.Sprintf(
		"Config{DataDir: %s, Journal: %v, ApproachesFile: %s, Log: %s/%s, Output: %s}",
		dataDir,
		c.Store.JournalEnabled,
		c.Approaches.File,
		c.Logging.Level, c.Logging.Format,
		c.Output,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}
