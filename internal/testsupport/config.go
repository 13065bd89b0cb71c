package testsupport

import (
	"path/filepath"
	"testing"

	"curator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArchiveRoot = filepath.Join(base, "archive")
	cfg.Paths.DatabasePath = filepath.Join(base, "inventory.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSourceOrigin overrides the scanner source origin on the test config.
func WithSourceOrigin(origin string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scanner.SourceOrigin = origin
	}
}

// WithFFprobeBinary points the mediainfo pass at a stub probe binary.
func WithFFprobeBinary(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.MediaInfo.FFprobeBinary = path
	}
}
