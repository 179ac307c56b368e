// Package memory provides an in-memory ledger.Ledger for tests and
// short-lived tools. Entries are lost when the process exits. Optional
// capacity-based eviction drops the oldest entries first.
package memory

import (
	"container/list"
	"context"
	"sort"
	"sync"

	"github.com/modelfan/modelfan-go/pkg/ledger"
)

// Ledger is an in-memory ledger with optional eviction.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]*ledger.Entry
	order   *list.List // front = newest, back = oldest
	elems   map[string]*list.Element
	maxSize int // 0 = unlimited
}

// Ensure Ledger implements ledger.Ledger at compile time.
var _ ledger.Ledger = (*Ledger)(nil)

// New creates an in-memory ledger. If maxSize is 0, the ledger grows without
// limit. If maxSize > 0, the oldest entry is evicted when the limit is
// reached.
func New(maxSize int) *Ledger {
	return &Ledger{
		entries: make(map[string]*ledger.Entry),
		order:   list.New(),
		elems:   make(map[string]*list.Element),
		maxSize: maxSize,
	}
}

// Record stores an entry in memory.
func (l *Ledger) Record(_ context.Context, e *ledger.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[e.ID]; exists {
		return ledger.ErrConflict
	}

	if l.maxSize > 0 && len(l.entries) >= l.maxSize {
		l.evictOldest()
	}

	l.entries[e.ID] = e
	l.elems[e.ID] = l.order.PushFront(e.ID)
	return nil
}

// Get retrieves an entry by ID.
func (l *Ledger) Get(_ context.Context, id string) (*ledger.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return e, nil
}

// List returns entries matching opts, newest first.
func (l *Ledger) List(_ context.Context, opts ledger.ListOptions) ([]*ledger.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var matches []*ledger.Entry
	for _, e := range l.entries {
		if !matchEntry(e, opts) {
			continue
		}
		matches = append(matches, e)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Totals aggregates over entries matching opts.
func (l *Ledger) Totals(_ context.Context, opts ledger.ListOptions) (*ledger.Totals, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	totals := &ledger.Totals{}
	for _, e := range l.entries {
		if !matchEntry(e, opts) {
			continue
		}
		totals.Entries++
		totals.TotalTokens += e.Usage.TotalTokens
		totals.TotalPrice += e.Price.Total
	}
	return totals, nil
}

// HealthCheck always returns nil for the in-memory ledger.
func (l *Ledger) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory ledger.
func (l *Ledger) Close() error {
	return nil
}

func matchEntry(e *ledger.Entry, opts ledger.ListOptions) bool {
	if opts.Model != "" && e.Model != opts.Model {
		return false
	}
	if opts.Label != "" && e.Label != opts.Label {
		return false
	}
	return true
}

// evictOldest removes the oldest entry. Must be called with l.mu held.
func (l *Ledger) evictOldest() {
	back := l.order.Back()
	if back == nil {
		return
	}
	id := back.Value.(string)
	l.order.Remove(back)
	delete(l.elems, id)
	delete(l.entries, id)
}
