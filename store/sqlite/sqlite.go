/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists what callers hand the engine, never what the engine computes:
  saved scenario definitions, captured leads, and seasonality regions.

INTERFACES IMPLEMENTED:
  generic.ScenarioStore:       Saved scenario JSON (versioned)
  generic.LeadStore:           "Email me my projections" submissions
  generic.SeasonalityProvider: Region tables, seeded from a YAML dataset

KEY TABLES:
  scenarios: Named ScenarioJSON payloads
  leads:     Append-only lead submissions
  regions:   Twelve monthly multipliers per region key

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. An in-memory database is pinned
  to a single connection, otherwise every pooled connection would see its
  own empty database.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging): readers don't
  block the single writer.

USAGE:
  store, err := sqlite.New("./data/roi.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
  - seasonality/file.go: The dataset regions are seeded from
*/
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/roi-engine/generic"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ generic.ScenarioStore       = (*Store)(nil)
	_ generic.LeadStore           = (*Store)(nil)
	_ generic.SeasonalityProvider = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.Contains(dbPath, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Saved scenarios (parameter sets only, never computed series)
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);

	-- Captured leads (append-only)
	CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT NOT NULL,
		phone TEXT,
		book_appointment INTEGER NOT NULL DEFAULT 0,
		projections_html TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);

	-- Seasonality regions
	CREATE TABLE IF NOT EXISTS regions (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		multipliers_json TEXT NOT NULL,
		workable_weeks INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset clears every table.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM scenarios; DELETE FROM leads; DELETE FROM regions;")
	return err
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeLayout is fixed-width so that ORDER BY on the text column is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

// DB exposes the handle for read-only gauges.
func (s *Store) DB() *sql.DB {
	return s.db
}
