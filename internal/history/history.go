// Package history records the outcome of every dispatched command.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is an immutable record of one dispatched command.
type Entry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Args      []string  `json:"args"`
	Result    string    `json:"result"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// Tracker is an append-only history log. Storage is never pruned; display
// truncation is the caller's concern.
type Tracker interface {
	// Add appends one entry.
	Add(command string, args []string, result string, success bool) error

	// All returns a copy of every entry, oldest first.
	All() ([]Entry, error)

	// Clear removes all entries.
	Clear() error

	// Close releases tracker resources.
	Close() error
}

// Memory is the default in-process tracker. Nothing survives the session.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory creates an in-memory tracker.
func NewMemory() *Memory {
	return &Memory{}
}

// Add appends one entry.
func (m *Memory) Add(command string, args []string, result string, success bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	argsCopy := make([]string, len(args))
	copy(argsCopy, args)

	m.entries = append(m.entries, Entry{
		ID:        uuid.New().String(),
		Command:   command,
		Args:      argsCopy,
		Result:    result,
		Success:   success,
		Timestamp: time.Now(),
	})
	return nil
}

// All returns a copy of every entry, oldest first.
func (m *Memory) All() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Clear removes all entries.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Close is a no-op for the in-memory tracker.
func (m *Memory) Close() error { return nil }
