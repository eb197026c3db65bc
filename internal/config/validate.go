package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGateway() error {
	if c.Gateway.Bind == "" {
		return errors.New("gateway.bind must be set")
	}
	if err := validateURL("gateway.upstream_url", c.Gateway.UpstreamURL); err != nil {
		return err
	}
	// The API key is deliberately not required here: the CLI and store work
	// without it, and the gateway reports the missing credential per request.
	return nil
}

func (c *Config) validateGeneration() error {
	if err := validateURL("generation.gateway_url", c.Generation.GatewayURL); err != nil {
		return err
	}
	if c.Generation.PollInterval <= 0 {
		return errors.New("generation.poll_interval must be positive")
	}
	if c.Generation.PollDeadline < c.Generation.PollInterval {
		return errors.New("generation.poll_deadline must be at least generation.poll_interval")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func validateURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", field)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	return nil
}
