// File: history.go
// Title: Input History Ring
// Description: Bounded, newline delimited store of completed input lines
//              with a scroll position for up/down recall.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-19
// Modified: 2026-09-19

package input

import (
	"bytes"
	"strings"
)

// History keeps completed lines oldest first in a byte buffer of fixed
// capacity. Every entry occupies its length plus one newline byte. When a
// new entry does not fit, whole entries are evicted from the front.
//
// The scroll position is 0 while editing a live line and N while the N-th
// most recent entry is shown.
type History struct {
	capacity int
	data     []byte
	position int
}

// NewHistory creates a history holding at most capacity bytes
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{capacity: capacity, data: make([]byte, 0, capacity)}
}

// Capacity returns the capacity in bytes
func (h *History) Capacity() int { return h.capacity }

// Add records a completed line and resets the scroll position. Empty lines,
// lines containing newlines and lines larger than the capacity are not
// stored.
func (h *History) Add(line string) {
	h.position = 0

	size := len(line) + 1
	if line == "" || size > h.capacity || strings.ContainsRune(line, '\n') {
		return
	}

	for len(h.data)+size > h.capacity {
		i := bytes.IndexByte(h.data, '\n')
		h.data = h.data[i+1:]
	}

	// Compact so the backing array never grows past capacity
	if cap(h.data)-len(h.data) < size {
		compacted := make([]byte, len(h.data), h.capacity)
		copy(compacted, h.data)
		h.data = compacted
	}
	h.data = append(h.data, line...)
	h.data = append(h.data, '\n')
}

// Len returns the number of stored entries
func (h *History) Len() int {
	return bytes.Count(h.data, []byte{'\n'})
}

// Entries returns the stored lines, oldest first
func (h *History) Entries() []string {
	if len(h.data) == 0 {
		return nil
	}
	return strings.Split(string(h.data[:len(h.data)-1]), "\n")
}

// Entry returns the n-th most recent entry, 1-based
func (h *History) Entry(n int) (string, bool) {
	entries := h.Entries()
	if n < 1 || n > len(entries) {
		return "", false
	}
	return entries[len(entries)-n], true
}

// Position returns the current scroll position
func (h *History) Position() int { return h.position }

// Reset returns the scroll position to the live line
func (h *History) Reset() { h.position = 0 }

// Up moves one entry back in time. moved is false at the oldest entry.
func (h *History) Up() (line string, moved bool) {
	if h.position >= h.Len() {
		return "", false
	}
	h.position++
	line, _ = h.Entry(h.position)
	return line, true
}

// Down moves one entry forward in time. Reaching position 0 yields an
// empty live line. moved is false when already live.
func (h *History) Down() (line string, moved bool) {
	if h.position == 0 {
		return "", false
	}
	h.position--
	if h.position == 0 {
		return "", true
	}
	line, _ = h.Entry(h.position)
	return line, true
}

// Clear drops all entries
func (h *History) Clear() {
	h.data = h.data[:0]
	h.position = 0
}
