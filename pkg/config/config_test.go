package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Store.DataDir, "default store is in-memory")
	assert.True(t, cfg.Store.JournalEnabled)
	assert.Equal(t, 20, cfg.Store.JournalLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "text", cfg.Output)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCOUTBEE_DATA_DIR", "/var/lib/scoutbee")
	t.Setenv("SCOUTBEE_APPROACHES_FILE", "./approaches.yaml")
	t.Setenv("SCOUTBEE_JOURNAL", "false")
	t.Setenv("SCOUTBEE_JOURNAL_LIMIT", "50")
	t.Setenv("SCOUTBEE_LOG_LEVEL", "debug")
	t.Setenv("SCOUTBEE_LOG_FORMAT", "json")
	t.Setenv("SCOUTBEE_OUTPUT", "json")

	cfg := LoadFromEnv()

	assert.Equal(t, "/var/lib/scoutbee", cfg.Store.DataDir)
	assert.Equal(t, "./approaches.yaml", cfg.Approaches.File)
	assert.False(t, cfg.Store.JournalEnabled)
	assert.Equal(t, 50, cfg.Store.JournalLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "json", cfg.Output)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvBoolForms(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true", "true", true},
		{"one", "1", true},
		{"yes", "yes", true},
		{"on", "on", true},
		{"false", "false", false},
		{"zero", "0", false},
		{"garbage is false", "maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCOUTBEE_JOURNAL", tt.value)
			assert.Equal(t, tt.expected, LoadFromEnv().Store.JournalEnabled)
		})
	}
}

func TestLoadFromEnvBadIntFallsBack(t *testing.T) {
	t.Setenv("SCOUTBEE_JOURNAL_LIMIT", "lots")

	assert.Equal(t, 20, LoadFromEnv().Store.JournalLimit)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad output", func(c *Config) { c.Output = "yaml" }},
		{"zero journal limit", func(c *Config) { c.Store.JournalLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestStringMasksNothingButReadsWell(t *testing.T) {
	cfg := DefaultConfig()

	s := cfg.String()
	assert.Contains(t, s, "(in-memory)")
	assert.Contains(t, s, "Journal: true")
}
