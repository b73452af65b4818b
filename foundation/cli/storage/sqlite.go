// File: sqlite.go
// Title: SQLite Script Store
// Description: Persistent Store on SQLite. Stands in for the NVM3 key/value
//              area of the target: one row per entry, keyed by namespace and
//              index, so several scripts can share one database file.
// Author: msto63
// Version: v0.1.1
// Created: 2026-09-30
// Modified: 2026-10-15

package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

// SQLiteConfig holds configuration for a SQLite store
type SQLiteConfig struct {
	Path string
	// Namespace separates the entries of different scripts
	Namespace string
	// MaxEntrySize rejects larger entries; 0 means unlimited
	MaxEntrySize int
}

// DefaultSQLiteConfig returns the default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:      "./data/gecli.db",
		Namespace: "nvm3",
	}
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db        *sql.DB
	namespace string
	maxSize   int
	mu        sync.RWMutex
}

// NewSQLiteStore opens or creates the database at cfg.Path
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultSQLiteConfig().Path
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultSQLiteConfig().Namespace
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storageError(err, "failed to create directory", "storage.NewSQLiteStore")
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, storageError(err, "failed to open database", "storage.NewSQLiteStore")
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, namespace: cfg.Namespace, maxSize: cfg.MaxEntrySize}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema", "storage.NewSQLiteStore")
	}

	return store, nil
}

// initSchema creates the entry table
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS script_entries (
		namespace TEXT NOT NULL,
		idx INTEGER NOT NULL,
		data BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, idx)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Namespace returns the namespace the store reads and writes
func (s *SQLiteStore) Namespace() string { return s.namespace }

// WriteEntry inserts or replaces the entry at index
func (s *SQLiteStore) WriteEntry(ctx context.Context, index int, data []byte) error {
	if index < 0 {
		return gcerror.Newf("negative entry index %d", index).
			WithCode(gcerror.CodeInvalidInput).
			WithOperation("storage.SQLiteStore.WriteEntry")
	}
	if s.maxSize > 0 && len(data) > s.maxSize {
		return fullError("storage.SQLiteStore.WriteEntry", index, len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO script_entries (namespace, idx, data)
		VALUES (?, ?, ?)
		ON CONFLICT (namespace, idx) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, s.namespace, index, data)
	if err != nil {
		return storageError(err, "failed to write entry", "storage.SQLiteStore.WriteEntry")
	}
	return nil
}

// ReadEntry returns the entry at index
func (s *SQLiteStore) ReadEntry(ctx context.Context, index int) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM script_entries WHERE namespace = ? AND idx = ?
	`, s.namespace, index).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, storageError(err, "failed to read entry", "storage.SQLiteStore.ReadEntry")
	}
	return data, true, nil
}

// DeleteRange removes the entries in [start, start+count)
func (s *SQLiteStore) DeleteRange(ctx context.Context, start, count int) error {
	if count <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM script_entries WHERE namespace = ? AND idx >= ? AND idx < ?
	`, s.namespace, start, start+count)
	if err != nil {
		return storageError(err, "failed to delete entries", "storage.SQLiteStore.DeleteRange")
	}
	return nil
}

// CountEntries returns the number of entries in the namespace
func (s *SQLiteStore) CountEntries(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM script_entries WHERE namespace = ?
	`, s.namespace).Scan(&count)
	if err != nil {
		return 0, storageError(err, "failed to count entries", "storage.SQLiteStore.CountEntries")
	}
	return count, nil
}

// LastIndex returns the highest index in the namespace
func (s *SQLiteStore) LastIndex(ctx context.Context) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(idx) FROM script_entries WHERE namespace = ?
	`, s.namespace).Scan(&last)
	if err != nil {
		return 0, false, storageError(err, "failed to read last index", "storage.SQLiteStore.LastIndex")
	}
	return int(last.Int64), last.Valid, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func storageError(err error, message, operation string) error {
	return gcerror.Wrap(err, message).
		WithCode(gcerror.CodeStorageError).
		WithOperation(operation)
}
