package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.PayloadsDir == "" {
		return errors.New("paths.payloads_dir must be set")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.DedupWindowSeconds < 1 || c.Capture.DedupWindowSeconds > 3600 {
		return fmt.Errorf("capture.dedup_window_seconds must be between 1 and 3600, got %d", c.Capture.DedupWindowSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
