package dedup

import (
	"net"
	"sync"
	"time"

	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

const (
	trackerMaxEntries     = 10000
	trackerCleanupInterval = 60 * time.Second
	trackerEntryTTL        = 60 * time.Second
)

// flowKey identifies a decoded flow at second resolution, matching the
// original's post-decode dedup key.
type flowKey struct {
	src, dst string
	srcPort  uint16
	dstPort  uint16
	protocol types.IpProtocol
	second   int64
}

// Tracker is the alternate, post-decode dedup path: a bounded map keyed by
// flow 5-tuple plus a one-second timestamp bucket. Unlike Cache it evicts
// incrementally by age on a 60s cadence, only falling back to a wholesale
// clear if it hits its hard entry cap between cleanups.
type Tracker struct {
	mu      sync.Mutex
	entries map[flowKey]time.Time
	lastCln time.Time
}

// NewTracker builds an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[flowKey]time.Time),
		lastCln: time.Now(),
	}
}

// Seen reports whether this flow tuple was already recorded within the
// current second, recording it if not.
func (t *Tracker) Seen(src, dst net.IP, srcPort, dstPort uint16, protocol types.IpProtocol) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.lastCln) >= trackerCleanupInterval {
		t.cleanup(now)
		t.lastCln = now
	}

	if len(t.entries) >= trackerMaxEntries {
		t.entries = make(map[flowKey]time.Time)
	}

	key := flowKey{
		src:      src.String(),
		dst:      dst.String(),
		srcPort:  srcPort,
		dstPort:  dstPort,
		protocol: protocol,
		second:   now.Unix(),
	}
	if _, ok := t.entries[key]; ok {
		return true
	}
	t.entries[key] = now
	return false
}

// cleanup evicts entries older than trackerEntryTTL.
func (t *Tracker) cleanup(now time.Time) {
	for k, seenAt := range t.entries {
		if now.Sub(seenAt) >= trackerEntryTTL {
			delete(t.entries, k)
		}
	}
}

// Size reports the number of tracked flow entries, for tests.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
