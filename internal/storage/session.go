package storage

import (
	"context"
	"sync"
	"time"
)

// Exchange is one entry of the short-term window
type Exchange struct {
	Timestamp       time.Time `json:"timestamp"`
	UserInput       string    `json:"user_input"`
	ResponseSummary string    `json:"response_summary"`
}

// Window is the bounded short-term conversation memory. Entries come back oldest first.
type Window interface {
	Push(ctx context.Context, e Exchange) error
	Recent(ctx context.Context, n int) ([]Exchange, error)
	Len(ctx context.Context) (int, error)
}

// MemoryWindow is an in-process Window, lost on restart
type MemoryWindow struct {
	mu       sync.Mutex
	capacity int
	entries  []Exchange
}

// NewMemoryWindow creates a window that keeps the last capacity exchanges
func NewMemoryWindow(capacity int) *MemoryWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryWindow{
		capacity: capacity,
		entries:  make([]Exchange, 0, capacity),
	}
}

// Push appends an exchange and evicts the oldest one past capacity
func (m *MemoryWindow) Push(_ context.Context, e Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, e)
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append(m.entries[:0], m.entries[over:]...)
	}
	return nil
}

// Recent returns up to n of the newest exchanges
func (m *MemoryWindow) Recent(_ context.Context, n int) ([]Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n > len(m.entries) || n < 0 {
		n = len(m.entries)
	}
	out := make([]Exchange, n)
	copy(out, m.entries[len(m.entries)-n:])
	return out, nil
}

// Len returns the number of stored exchanges
func (m *MemoryWindow) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

var _ Window = (*MemoryWindow)(nil)
