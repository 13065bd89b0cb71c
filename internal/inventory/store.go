package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"curator/internal/config"
	"curator/internal/services"
)

// batchSize bounds rows per transaction so long passes commit resumable
// progress instead of one giant write.
const batchSize = 100

// Store persists the inventory schema backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the inventory database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "open", "ensure directories", err)
	}

	dbPath := cfg.Paths.DatabasePath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "open", dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrFatal, "store", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrFatal, "store", "migrate", dbPath, err)
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// AcquireWriteLock takes the single-writer lock for a pass. It fails
// immediately when another pass holds it. The returned release function must
// be called when the pass finishes.
func (s *Store) AcquireWriteLock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.lock.Path()), 0o755); err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "lock", s.lock.Path(), err)
	}
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "lock", s.lock.Path(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrFatal, "store", "lock", "another pass holds the write lock", nil)
	}
	return func() { _ = s.lock.Unlock() }, nil
}

// RowError reports a row the store rejected without aborting its batch.
type RowError struct {
	Key string
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func timeString(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
