// Package trace keeps an SQLite audit log of learning runs: every pattern
// presented to a model and the outcome it produced. It does not persist the
// network itself.
package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // cgo driver, registered as "sqlite3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // pure Go driver, registered as "sqlite"
)

//go:embed migrations/001_learning_episodes.sql
var episodesSchema string

// Supported driver names.
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store provides access to the trace database.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens (creating if needed) the trace database at path using the named
// driver. An empty driver selects the pure Go one.
func Open(driver, path string) (*Store, error) {
	if driver == "" {
		driver = DriverModernc
	}
	if driver != DriverModernc && driver != DriverCgo {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create trace directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open trace database: %w", err)
	}

	// A single connection keeps one writer and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, driver: driver}
	if err := s.initPragmas(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize pragmas: %w", err)
	}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Debug().Str("driver", driver).Str("path", path).Msg("trace store opened")
	return s, nil
}

func (s *Store) initPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Migrate applies the embedded schema. It is idempotent.
func (s *Store) Migrate() error {
	for _, stmt := range splitStatements(episodesSchema) {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate learning_episodes: %w", err)
		}
	}
	return nil
}

// splitStatements breaks a schema file into single statements; not every
// driver accepts several statements in one Exec.
func splitStatements(schema string) []string {
	var out []string
	for _, part := range strings.Split(schema, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}

// Driver reports the sql driver in use.
func (s *Store) Driver() string { return s.driver }

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
