// File: store.go
// Title: Script Entry Stores
// Description: Store interface for persisted command lines and the RAM
//              backed implementation on an ordered btree map.
// Author: msto63
// Version: v0.1.1
// Created: 2026-09-29
// Modified: 2026-10-15

package storage

import (
	"context"
	"sync"

	"github.com/tidwall/btree"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

// Store keeps numbered entries. Indexes start at 0; a Script writes them
// contiguously.
type Store interface {
	WriteEntry(ctx context.Context, index int, data []byte) error
	// ReadEntry returns ok=false for an absent index
	ReadEntry(ctx context.Context, index int) (data []byte, ok bool, err error)
	// DeleteRange removes indexes start to start+count-1. Absent indexes
	// are ignored.
	DeleteRange(ctx context.Context, start, count int) error
	CountEntries(ctx context.Context) (int, error)
}

// LastIndexer is implemented by stores that can report their highest
// index. found is false for an empty store.
type LastIndexer interface {
	LastIndex(ctx context.Context) (index int, found bool, err error)
}

// RAMOptions limits a RAMStore. Zero values mean unlimited.
type RAMOptions struct {
	MaxEntries   int
	MaxEntrySize int
}

// RAMStore keeps entries in memory. Its contents are lost with the process.
type RAMStore struct {
	mu      sync.RWMutex
	entries *btree.Map[int, []byte]
	opts    RAMOptions
}

// NewRAMStore creates an empty store
func NewRAMStore(opts RAMOptions) *RAMStore {
	return &RAMStore{
		entries: btree.NewMap[int, []byte](0),
		opts:    opts,
	}
}

// WriteEntry stores a copy of data at index
func (s *RAMStore) WriteEntry(ctx context.Context, index int, data []byte) error {
	if index < 0 {
		return gcerror.Newf("negative entry index %d", index).
			WithCode(gcerror.CodeInvalidInput).
			WithOperation("storage.RAMStore.WriteEntry")
	}
	if s.opts.MaxEntries > 0 && index >= s.opts.MaxEntries {
		return fullError("storage.RAMStore.WriteEntry", index, len(data))
	}
	if s.opts.MaxEntrySize > 0 && len(data) > s.opts.MaxEntrySize {
		return fullError("storage.RAMStore.WriteEntry", index, len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Set(index, append([]byte(nil), data...))
	return nil
}

// ReadEntry returns a copy of the entry at index
func (s *RAMStore) ReadEntry(ctx context.Context, index int) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.entries.Get(index)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// DeleteRange removes the entries in [start, start+count)
func (s *RAMStore) DeleteRange(ctx context.Context, start, count int) error {
	if count <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doomed []int
	s.entries.Ascend(start, func(index int, _ []byte) bool {
		if index >= start+count {
			return false
		}
		doomed = append(doomed, index)
		return true
	})
	for _, index := range doomed {
		s.entries.Delete(index)
	}
	return nil
}

// CountEntries returns the number of stored entries
func (s *RAMStore) CountEntries(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Len(), nil
}

// LastIndex returns the highest stored index
func (s *RAMStore) LastIndex(ctx context.Context) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index, _, ok := s.entries.Max()
	return index, ok, nil
}

func fullError(operation string, index, size int) error {
	return gcerror.New("storage full").
		WithCode(gcerror.CodeStorageFull).
		WithOperation(operation).
		WithDetail("index", index).
		WithDetail("size", size)
}
