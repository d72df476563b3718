package writer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
)

type fakeInserter struct {
	mu    sync.Mutex
	calls [][]packet.Packet
	err   error
}

func (f *fakeInserter) BulkInsert(_ context.Context, packets []packet.Packet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, packets)
	return nil
}

func (f *fakeInserter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestBufferDrainEmptiesBuffer(t *testing.T) {
	b := NewBuffer()
	b.Push(packet.Packet{})
	b.Push(packet.Packet{})

	drained := b.Drain()
	assert.Len(t, drained, 2)
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Drain())
}

func TestBufferDrainPreservesInsertionOrder(t *testing.T) {
	b := NewBuffer()
	for i := uint16(0); i < 5; i++ {
		b.Push(packet.Packet{SrcPort: i})
	}

	drained := b.Drain()
	require.Len(t, drained, 5)
	for i, pkt := range drained {
		assert.Equal(t, uint16(i), pkt.SrcPort)
	}
}

func TestWriterFlushesOnCancel(t *testing.T) {
	buf := NewBuffer()
	buf.Push(packet.Packet{})
	ins := &fakeInserter{}
	w := New(buf, ins, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	<-done

	assert.Equal(t, 1, ins.callCount())
	assert.Equal(t, 0, buf.Len())
}

func TestWriterSkipsFlushWhenEmpty(t *testing.T) {
	buf := NewBuffer()
	ins := &fakeInserter{}
	w := New(buf, ins, nil)

	w.flush(context.Background())
	assert.Equal(t, 0, ins.callCount())
}

func TestWriterOnFlushCallback(t *testing.T) {
	buf := NewBuffer()
	buf.Push(packet.Packet{})
	ins := &fakeInserter{}
	w := New(buf, ins, nil)

	var gotN int
	w.OnFlush(func(n int, _ time.Duration) { gotN = n })

	w.flush(context.Background())
	assert.Equal(t, 1, gotN)
}

func TestWriterFlushErrorDoesNotPoisonBuffer(t *testing.T) {
	buf := NewBuffer()
	buf.Push(packet.Packet{})
	ins := &fakeInserter{err: errors.New("boom")}
	w := New(buf, ins, nil)

	w.flush(context.Background())
	assert.Equal(t, 0, buf.Len()) // drained regardless of insert outcome
}
