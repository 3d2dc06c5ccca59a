package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"noteboard/internal/domain"
	"noteboard/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Store is the durable backend: one SQLite database holding every owner.
type Store struct {
	db      *sql.DB
	path    string
	content ports.ContentResolver
}

// NewStore creates a store that keeps note content in content
func NewStore(content ports.ContentResolver) *Store {
	return &Store{content: content}
}

// DefaultPath returns the database location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "noteboard", "noteboard.db")
}

// Open opens (and if needed creates) the database at path
func (s *Store) Open(path string) error {
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	s.path = path

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS owners (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS folders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL REFERENCES owners(id),
			name TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			parent_id INTEGER REFERENCES folders(id),
			idx INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL REFERENCES owners(id),
			name TEXT NOT NULL UNIQUE,
			is_public INTEGER NOT NULL DEFAULT 0,
			is_editable INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL REFERENCES owners(id),
			name TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			parent_id INTEGER REFERENCES folders(id),
			idx INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			room_id INTEGER REFERENCES rooms(id),
			content_key TEXT NOT NULL DEFAULT '',
			display TEXT NOT NULL DEFAULT 'text'
		);
		CREATE TABLE IF NOT EXISTS canvases (
			note_id INTEGER PRIMARY KEY REFERENCES notes(id) ON DELETE CASCADE,
			content_key TEXT NOT NULL DEFAULT '',
			background TEXT NOT NULL DEFAULT '#FBFCFF'
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(owner, parent_id);
		CREATE INDEX IF NOT EXISTS idx_notes_parent ON notes(owner, parent_id);
		CREATE INDEX IF NOT EXISTS idx_notes_room ON notes(room_id);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file in use
func (s *Store) Path() string {
	return s.path
}

// CreateOwner issues and records a fresh durable identity
func (s *Store) CreateOwner(ctx context.Context) (domain.Owner, error) {
	owner := domain.NewOwner()
	_, err := s.db.ExecContext(ctx, `INSERT INTO owners (id, created_at) VALUES (?, ?)`, string(owner), time.Now().UnixNano())
	if err != nil {
		return "", mapError("create owner", err)
	}
	return owner, nil
}

// OwnerExists reports whether owner was issued by this store
func (s *Store) OwnerExists(ctx context.Context, owner domain.Owner) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM owners WHERE id = ?`, string(owner)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapError("lookup owner", err)
	}
	return true, nil
}

// Namespace returns the durable namespace of owner. The empty owner is a
// guest: it can read public rooms and write editable ones, nothing else.
func (s *Store) Namespace(ctx context.Context, owner domain.Owner) (*Namespace, error) {
	if !owner.IsTransient() {
		ok, err := s.OwnerExists(ctx, owner)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.NotFoundError{What: "owner " + string(owner)}
		}
	}
	return &Namespace{store: s, owner: owner}, nil
}
