package writer

import (
	"context"
	"log/slog"
	"time"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
)

// flushInterval is the writer's supervisory tick (spec.md §4.7).
const flushInterval = 100 * time.Millisecond

// Inserter is the store-facing dependency the writer needs: chunked bulk
// insertion. internal/store.Repository satisfies this.
type Inserter interface {
	BulkInsert(ctx context.Context, packets []packet.Packet) error
}

// Writer ticks the Buffer and flushes drained packets to an Inserter. It
// is the only component with write access to the backing store.
type Writer struct {
	buffer   *Buffer
	inserter Inserter
	log      *slog.Logger

	onFlush func(n int, dur time.Duration)
}

// New builds a Writer over buffer, writing through inserter.
func New(buffer *Buffer, inserter Inserter, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{buffer: buffer, inserter: inserter, log: log}
}

// OnFlush registers a callback invoked after every non-empty flush with
// the row count and elapsed time, for metrics/test observation.
func (w *Writer) OnFlush(fn func(n int, dur time.Duration)) {
	w.onFlush = fn
}

// Run drains the buffer every 100ms until ctx is cancelled. Flush
// failures are logged and do not stop the loop; the next tick drains
// whatever has accumulated since, per spec.md §4.7.
func (w *Writer) Run(ctx context.Context) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush(context.Background())
			return ctx.Err()
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Writer) flush(ctx context.Context) {
	drained := w.buffer.Drain()
	if len(drained) == 0 {
		return
	}

	start := time.Now()
	err := w.inserter.BulkInsert(ctx, drained)
	elapsed := time.Since(start)

	if err != nil {
		w.log.Error("flush failed", slog.Int("rows", len(drained)), slog.Any("error", err))
		return
	}
	if w.onFlush != nil {
		w.onFlush(len(drained), elapsed)
	}
}
