package invocationrepo

import (
	"context"
	"sync"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

const defaultMemoryCapacity = 500

// MemoryRepository keeps the most recent invocations in a bounded ring, for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	items    []action.Invocation
	next     int
	full     bool
}

// NewMemoryRepository constructs a repo holding at most capacity records.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepository{capacity: capacity, items: make([]action.Invocation, capacity)}
}

// Append implements action.InvocationLog.
func (r *MemoryRepository) Append(_ context.Context, inv action.Invocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.next] = inv
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Recent implements action.InvocationLog, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]action.Invocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = r.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]action.Invocation, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (r.next - 1 - i + r.capacity) % r.capacity
		out = append(out, r.items[idx])
	}
	return out, nil
}

var _ action.InvocationLog = (*MemoryRepository)(nil)
