// Package store provides the SQLite storage layer for memovault.
//
// All data lives in a single SQLite database file: memo records with
// their generated titles, confirmed contacts, and detected follow-ups
// awaiting user action.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.memovault/memovault.db"

// Memo is a stored unit of captured text.
type Memo struct {
	ID        string
	Text      string
	Kind      string // task, note, idea
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact is a person the user confirmed from a detection suggestion.
type Contact struct {
	ID           int64
	Name         string
	Relationship string
	CreatedAt    time.Time
}

// FollowUp is a persisted follow-up suggestion.
type FollowUp struct {
	ID          string
	MemoID      string
	Text        string
	Action      string
	ContactName string
	ContactID   string
	Priority    string
	Context     string
	Completed   bool
	CreatedAt   time.Time
}

// ListOpts controls filtering for list operations.
type ListOpts struct {
	Limit            int
	Kind             string // filter by memo kind
	IncludeCompleted bool
}

// Stats holds observability counters for the store.
type Stats struct {
	MemoCount     int64
	OpenMemoCount int64
	ContactCount  int64
	FollowUpCount int64
	DBSizeBytes   int64
}

// Config holds configuration for NewStore.
type Config struct {
	DBPath string
}

// Store defines the persistence contract the pipeline collaborators use.
type Store interface {
	// Memos
	AddMemo(ctx context.Context, m *Memo) error
	GetMemo(ctx context.Context, id string) (*Memo, error)
	ListMemos(ctx context.Context, opts ListOpts) ([]*Memo, error)
	UpdateMemoTitle(ctx context.Context, id, title string) error
	SetMemoCompleted(ctx context.Context, id string, completed bool) error
	DeleteMemo(ctx context.Context, id string) error

	// Contacts
	AddContact(ctx context.Context, c *Contact) (int64, error)
	ListContacts(ctx context.Context) ([]*Contact, error)
	FindContactByName(ctx context.Context, name string) (*Contact, error)

	// Follow-ups
	SaveFollowUps(ctx context.Context, items []*FollowUp) (int, error)
	ListFollowUps(ctx context.Context, includeCompleted bool) ([]*FollowUp, error)
	CompleteFollowUp(ctx context.Context, id string) error

	// Observability
	Stats(ctx context.Context) (*Stats, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new SQLite-backed Store.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg Config) (Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// GetDB exposes the underlying handle for resource queries.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
