package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database location configuration.
type Paths struct {
	ArchiveRoot  string `toml:"archive_root"`
	DatabasePath string `toml:"database_path"`
	LogDir       string `toml:"log_dir"`
	ExportDir    string `toml:"export_dir"`
}

// Scanner contains defaults for filesystem scan passes.
type Scanner struct {
	IncludeHidden bool   `toml:"include_hidden"`
	ComputeHash   bool   `toml:"compute_hash"`
	VideoOnly     bool   `toml:"video_only"`
	MaxFiles      int    `toml:"max_files"`
	SourceOrigin  string `toml:"source_origin"`
}

// MediaInfo contains configuration for the ffprobe tech-spec pass.
type MediaInfo struct {
	FFprobeBinary  string `toml:"ffprobe_binary"`
	Workers        int    `toml:"workers"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Matcher contains thresholds for the cross-source matching pass.
type Matcher struct {
	MinConfidence       float64 `toml:"min_confidence"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for curator.
//
// Sections by subsystem:
//   - Paths: archive root, database file, log and export directories
//   - Scanner: filesystem walk defaults (hidden files, hashing, limits)
//   - MediaInfo: ffprobe binary and worker pool sizing
//   - Matcher: confidence thresholds for catalog matching
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Scanner   Scanner   `toml:"scanner"`
	MediaInfo MediaInfo `toml:"mediainfo"`
	Matcher   Matcher   `toml:"matcher"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/curator/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file actually existed at the resolved location.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.Paths.ExportDir, filepath.Dir(c.Paths.DatabasePath)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to the target path.
// It refuses to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ against the current user's home directory
// and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	} else {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		path = expanded
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return path, true, nil
}
