// Package ratelimit implements the ARP rate controller (C3): a dual-window
// rate limit on (src, dst) IP pairs with bounded-memory eviction, grounded
// on the original's packet/analysis/arp_controller.rs.
package ratelimit

import (
	"net"
	"sort"
	"sync"
	"time"
)

const (
	burstWindow     = 100 * time.Millisecond
	maxBurst        = 4
	normalWindow    = 1 * time.Second
	maxNormal       = 8
	cleanupThreshold = 1000
	maxEntries       = 5000
)

type pairKey [2]string // string-encoded IPs keep the map key comparable and allocation-cheap

func keyFor(src, dst net.IP) pairKey {
	return pairKey{src.String(), dst.String()}
}

type window struct {
	start time.Time
	count uint32
}

// ArpController absorbs legitimate ARP storms while refusing attack-grade
// ones without unbounded memory growth. All operations take the single
// guarding mutex, including the eviction sweep, to avoid split state
// (spec.md §5 "Shared mutation").
type ArpController struct {
	mu     sync.Mutex
	burst  map[pairKey]window
	normal map[pairKey]window
}

// New constructs an ArpController with empty rate tables.
func New() *ArpController {
	return &ArpController{
		burst:  make(map[pairKey]window),
		normal: make(map[pairKey]window),
	}
}

// ShouldProcess implements spec.md §4.3's should_process protocol.
func (c *ArpController) ShouldProcess(src, dst net.IP) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	if len(c.normal) >= cleanupThreshold {
		c.cleanup(now)
	}
	if len(c.normal) >= maxEntries {
		return false // fail-closed on overflow
	}

	key := keyFor(src, dst)

	if !c.tick(c.burst, key, now, burstWindow, maxBurst) {
		return false
	}
	if !c.tick(c.normal, key, now, normalWindow, maxNormal) {
		return false
	}
	return true
}

// tick advances (or resets) the window for key and reports whether the
// pair stays under its limit.
func (c *ArpController) tick(table map[pairKey]window, key pairKey, now time.Time, dur time.Duration, limit uint32) bool {
	w, ok := table[key]
	if !ok || now.Sub(w.start) >= dur {
		table[key] = window{start: now, count: 1}
		return true
	}
	w.count++
	table[key] = w
	return w.count <= limit
}

// cleanup evicts expired entries from both windows, then — if the normal
// table is still over half capacity — keeps only the maxEntries/2 most
// recently started entries.
func (c *ArpController) cleanup(now time.Time) {
	for k, w := range c.burst {
		if now.Sub(w.start) >= burstWindow {
			delete(c.burst, k)
		}
	}
	for k, w := range c.normal {
		if now.Sub(w.start) >= normalWindow {
			delete(c.normal, k)
		}
	}

	if len(c.normal) <= maxEntries/2 {
		return
	}

	type entry struct {
		key pairKey
		w   window
	}
	entries := make([]entry, 0, len(c.normal))
	for k, w := range c.normal {
		entries = append(entries, entry{k, w})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].w.start.After(entries[j].w.start)
	})

	kept := make(map[pairKey]window, maxEntries/2)
	for _, e := range entries[:maxEntries/2] {
		kept[e.key] = e.w
	}
	c.normal = kept
}

// Size returns the current normal-window table size, mainly for tests
// asserting the §3 invariant that it never exceeds 5000.
func (c *ArpController) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.normal)
}
