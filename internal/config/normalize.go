package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScanner()
	c.normalizeMediaInfo()
	c.normalizeMatcher()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ArchiveRoot != "" {
		if c.Paths.ArchiveRoot, err = ExpandPath(c.Paths.ArchiveRoot); err != nil {
			return fmt.Errorf("paths.archive_root: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = defaultDatabasePath
	}
	if c.Paths.DatabasePath, err = ExpandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = ExpandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScanner() {
	c.Scanner.SourceOrigin = strings.TrimSpace(c.Scanner.SourceOrigin)
	if c.Scanner.SourceOrigin == "" {
		c.Scanner.SourceOrigin = defaultSourceOrigin
	}
}

func (c *Config) normalizeMediaInfo() {
	c.MediaInfo.FFprobeBinary = strings.TrimSpace(c.MediaInfo.FFprobeBinary)
	if c.MediaInfo.FFprobeBinary == "" {
		c.MediaInfo.FFprobeBinary = defaultFFprobeBinary
	}
	if c.MediaInfo.Workers <= 0 {
		c.MediaInfo.Workers = defaultProbeWorkers
	}
	if c.MediaInfo.TimeoutSeconds <= 0 {
		c.MediaInfo.TimeoutSeconds = defaultProbeTimeout
	}
}

func (c *Config) normalizeMatcher() {
	if c.Matcher.MinConfidence == 0 {
		c.Matcher.MinConfidence = defaultMinConfidence
	}
	if c.Matcher.SimilarityThreshold == 0 {
		c.Matcher.SimilarityThreshold = defaultSimilarityMinimum
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
