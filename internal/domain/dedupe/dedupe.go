// Package dedupe guards against applying the same match twice.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen match ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if it was not. The check and the insert happen under one lock.
	SeenAndRecord(ctx context.Context, id string) bool

	Size() int64
}

// DefaultMaxSize bounds how many match ids are remembered.
const DefaultMaxSize = 50000

// inMemoryDeduper keeps ids in a map plus an insertion-ordered ring so the
// oldest id is evicted first once maxSize is reached. maxSize <= 0 keeps
// every id.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> slot in order
	order   []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize <= 0 {
		d.seen[id] = -1
		return false
	}

	if len(d.order) < d.maxSize {
		d.seen[id] = len(d.order)
		d.order = append(d.order, id)
		return false
	}

	// ring is full: overwrite the oldest slot
	delete(d.seen, d.order[d.next])
	d.order[d.next] = id
	d.seen[id] = d.next
	d.next = (d.next + 1) % len(d.order)
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
