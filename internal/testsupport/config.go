package testsupport

import (
	"path/filepath"
	"testing"

	"keepsake/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Gateway.Bind = "127.0.0.1:0"
	cfg.Gateway.APIKey = "test-key"
	cfg.Gateway.RetryMax = 0
	cfg.Generation.PollInterval = 1
	cfg.Generation.PollDeadline = 30

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithAPIKey sets the gateway credential on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(c *config.Config) {
		c.Gateway.APIKey = key
	}
}

// WithUpstreamURL points the gateway at a test upstream server.
func WithUpstreamURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Gateway.UpstreamURL = url
	}
}
