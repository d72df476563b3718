// Package writer implements the packet buffer and supervisory flush loop
// (C7), grounded on spec.md §4.7: push/drain under a single mutex, drained
// on a 100ms tick into chunked bulk inserts via internal/store.
package writer

import (
	"sync"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
)

// Buffer is an in-memory ordered sequence of accepted packets protected by
// a single mutex.
type Buffer struct {
	mu    sync.Mutex
	items []packet.Packet
}

// NewBuffer builds an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Push appends pkt to the buffer.
func (b *Buffer) Push(pkt packet.Packet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, pkt)
}

// Drain returns the buffered sequence in insertion order and empties the
// buffer.
func (b *Buffer) Drain() []packet.Packet {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return nil
	}
	drained := b.items
	b.items = nil
	return drained
}

// Len reports the current buffer size, for tests and metrics.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
