package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"vidsweep/internal/settings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path must be set when store.driver is sqlite")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn must be set when store.driver is postgres (or set %s)", defaultPostgresDSNEnv)
		}
	default:
		return fmt.Errorf("store.driver: unsupported value %q (want %s or %s)", c.Store.Driver, DriverSQLite, DriverPostgres)
	}
	return nil
}

// validateScan checks values set explicitly in [scan]. Persisted overrides
// are clamped at merge time instead, but a config file typo should be loud.
func (c *Config) validateScan() error {
	if c.Scan.BatchSize != nil {
		if v := *c.Scan.BatchSize; v < settings.MinBatchSize || v > settings.MaxBatchSize {
			return fmt.Errorf("scan.batch_size must be between %d and %d", settings.MinBatchSize, settings.MaxBatchSize)
		}
	}
	if c.Scan.HTTPTimeoutSeconds != nil {
		if v := *c.Scan.HTTPTimeoutSeconds; v < settings.MinHTTPTimeout || v > settings.MaxHTTPTimeout {
			return fmt.Errorf("scan.http_timeout must be between %d and %d", settings.MinHTTPTimeout, settings.MaxHTTPTimeout)
		}
	}
	if c.Scan.BrokenStatusCodes != nil && len(c.Scan.BrokenStatusCodes) == 0 {
		return errors.New("scan.error_codes must include at least one status code")
	}
	if c.Scan.Frequency != nil {
		if _, err := settings.ParseFrequency(*c.Scan.Frequency); err != nil {
			return fmt.Errorf("scan.%w", err)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
