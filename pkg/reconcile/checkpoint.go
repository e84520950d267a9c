package reconcile

import (
	"context"
	"sync"
)

// Checkpointer persists the last visited id of each target so an
// interrupted apply run can continue where it stopped.
type Checkpointer interface {
	// Load returns the saved cursor for target and whether one exists.
	Load(ctx context.Context, target string) (string, bool, error)
	// Save stores the cursor for target.
	Save(ctx context.Context, target, cursor string) error
	// Clear removes the cursor for target.
	Clear(ctx context.Context, target string) error
}

// NopCheckpointer never stores anything. It is the default.
type NopCheckpointer struct{}

func (NopCheckpointer) Load(context.Context, string) (string, bool, error) { return "", false, nil }
func (NopCheckpointer) Save(context.Context, string, string) error         { return nil }
func (NopCheckpointer) Clear(context.Context, string) error                { return nil }

// MemoryCheckpointer keeps cursors in memory. Useful in tests and for
// resuming within one process. The zero value is ready to use.
type MemoryCheckpointer struct {
	mu      sync.RWMutex
	cursors map[string]string
}

// NewMemoryCheckpointer creates an empty in-memory checkpointer.
func NewMemoryCheckpointer() *MemoryCheckpointer {
	return &MemoryCheckpointer{cursors: make(map[string]string)}
}

func (m *MemoryCheckpointer) Load(_ context.Context, target string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cursors[target]
	return c, ok, nil
}

func (m *MemoryCheckpointer) Save(_ context.Context, target, cursor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursors == nil {
		m.cursors = make(map[string]string)
	}
	m.cursors[target] = cursor
	return nil
}

func (m *MemoryCheckpointer) Clear(_ context.Context, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cursors, target)
	return nil
}
