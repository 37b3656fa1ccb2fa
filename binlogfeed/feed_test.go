package binlogfeed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	var validConfig = Config{
		Address:     "localhost:3306",
		User:        "repl",
		Password:    "secret",
		StartCursor: "binlog.000003:4",
	}
	require.NoError(t, validConfig.Validate())

	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"MissingAddress", func(c *Config) { c.Address = "" }},
		{"MissingUser", func(c *Config) { c.User = "" }},
		{"MissingCursor", func(c *Config) { c.StartCursor = "" }},
		{"BareHostname", func(c *Config) { c.Address = "localhost" }},
		{"BadPort", func(c *Config) { c.Address = "localhost:threethousand" }},
		{"BadCursor", func(c *Config) { c.StartCursor = "binlog.000003" }},
		{"BadCursorPosition", func(c *Config) { c.StartCursor = "binlog.000003:four" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var cfg = validConfig
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg = Config{}
	cfg.SetDefaults()
	require.NotZero(t, cfg.ServerID)

	cfg = Config{ServerID: 12345}
	cfg.SetDefaults()
	require.Equal(t, uint32(12345), cfg.ServerID)
}

func TestSplitCursor(t *testing.T) {
	var name, pos, err = splitCursor("binlog.000123:45678")
	require.NoError(t, err)
	require.Equal(t, "binlog.000123", name)
	require.Equal(t, int64(45678), pos)

	_, _, err = splitCursor("binlog.000123")
	require.Error(t, err)
	_, _, err = splitCursor("binlog.000123:45678:9")
	require.Error(t, err)
}
