package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMediaInfo(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMediaInfo() error {
	if c.MediaInfo.Workers < 1 || c.MediaInfo.Workers > 64 {
		return fmt.Errorf("mediainfo.workers must be between 1 and 64, got %d", c.MediaInfo.Workers)
	}
	if c.MediaInfo.TimeoutSeconds < 1 {
		return errors.New("mediainfo.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.MinConfidence < 0 || c.Matcher.MinConfidence > 1 {
		return errors.New("matcher.min_confidence must be between 0 and 1")
	}
	if c.Matcher.SimilarityThreshold < 0 || c.Matcher.SimilarityThreshold > 1 {
		return errors.New("matcher.similarity_threshold must be between 0 and 1")
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
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
