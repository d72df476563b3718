// Package timing provides a tiny scoped-timer helper used to log
// per-chunk flush timing (the store's bulk insert of each chunk).
package timing

import (
	"log/slog"
	"time"
)

// Track starts a timer and returns a func to stop it and log elapsed
// time under name. Typical use: `defer timing.Track(log, "flush")()`.
func Track(log *slog.Logger, name string) func() {
	start := time.Now()
	return func() {
		log.Debug("timing", slog.String("op", name), slog.Duration("elapsed", time.Since(start)))
	}
}
