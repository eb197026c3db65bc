package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGateway()
	c.normalizeGeneration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGateway() {
	if env := strings.TrimSpace(os.Getenv(apiKeyEnvVar)); env != "" {
		c.Gateway.APIKey = env
	}
	c.Gateway.APIKey = strings.TrimSpace(c.Gateway.APIKey)
	c.Gateway.UpstreamURL = strings.TrimRight(strings.TrimSpace(c.Gateway.UpstreamURL), "/")
	if c.Gateway.UpstreamURL == "" {
		c.Gateway.UpstreamURL = defaultUpstreamURL
	}
	if strings.TrimSpace(c.Gateway.Bind) == "" {
		c.Gateway.Bind = defaultGatewayBind
	}
	if c.Gateway.RequestTimeout <= 0 {
		c.Gateway.RequestTimeout = defaultGatewayTimeout
	}
	if c.Gateway.RetryMax < 0 {
		c.Gateway.RetryMax = 0
	}
}

func (c *Config) normalizeGeneration() {
	c.Generation.GatewayURL = strings.TrimRight(strings.TrimSpace(c.Generation.GatewayURL), "/")
	if c.Generation.GatewayURL == "" {
		c.Generation.GatewayURL = defaultGatewayURL
	}
	if c.Generation.PollInterval <= 0 {
		c.Generation.PollInterval = defaultPollInterval
	}
	if c.Generation.PollDeadline <= 0 {
		c.Generation.PollDeadline = defaultPollDeadline
	}
	if c.Generation.DownloadTimeout <= 0 {
		c.Generation.DownloadTimeout = defaultDownloadTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
