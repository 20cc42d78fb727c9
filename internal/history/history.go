// Package history keeps bounded, newest-first audit histories in memory.
package history

import (
	"sync"

	"github.com/ashureev/biasguard/internal/domain"
)

// DefaultLimit is the number of audits kept per history.
const DefaultLimit = 5

// Ring holds at most limit entries, newest first.
// Pushing onto a full ring drops the oldest entry.
type Ring struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
	limit   int
}

// NewRing creates a ring with the given capacity.
func NewRing(limit int) *Ring {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ring{
		entries: make([]domain.HistoryEntry, 0, limit),
		limit:   limit,
	}
}

// Push prepends an entry and truncates to the limit.
func (r *Ring) Push(e domain.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) < r.limit {
		r.entries = append(r.entries, domain.HistoryEntry{})
	}
	copy(r.entries[1:], r.entries[:len(r.entries)-1])
	r.entries[0] = e
}

// Entries returns a copy of the entries, newest first.
func (r *Ring) Entries() []domain.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Latest returns the newest entry, if any.
func (r *Ring) Latest() (domain.HistoryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return domain.HistoryEntry{}, false
	}
	return r.entries[0], true
}

// Len returns the number of entries held.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Capacity returns the maximum number of entries.
func (r *Ring) Capacity() int {
	return r.limit
}

// Reset clears the ring.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
}
