// Package metrics implements the thirteen lock-free counters (C11) updated
// per pipeline step, grounded on the original's packet/metrics.rs plain
// AtomicU64 + format_metrics shape — no ecosystem counter library
// improves on sync/atomic for a handful of independent relaxed counters.
package metrics

import (
	"fmt"
	"sync/atomic"
)

// Metrics holds thirteen independent relaxed counters.
type Metrics struct {
	total, processed, dropped uint64
	ipv4, ipv6, arp           uint64
	tcp, udp, icmp            uint64
	allowed, blocked          uint64
	parseErrors, processErrors uint64
}

// New returns a zeroed Metrics.
func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncTotal()         { atomic.AddUint64(&m.total, 1) }
func (m *Metrics) IncProcessed()     { atomic.AddUint64(&m.processed, 1) }
func (m *Metrics) IncDropped()       { atomic.AddUint64(&m.dropped, 1) }
func (m *Metrics) IncIPv4()          { atomic.AddUint64(&m.ipv4, 1) }
func (m *Metrics) IncIPv6()          { atomic.AddUint64(&m.ipv6, 1) }
func (m *Metrics) IncARP()           { atomic.AddUint64(&m.arp, 1) }
func (m *Metrics) IncTCP()           { atomic.AddUint64(&m.tcp, 1) }
func (m *Metrics) IncUDP()           { atomic.AddUint64(&m.udp, 1) }
func (m *Metrics) IncICMP()          { atomic.AddUint64(&m.icmp, 1) }
func (m *Metrics) IncAllowed()       { atomic.AddUint64(&m.allowed, 1) }
func (m *Metrics) IncBlocked()       { atomic.AddUint64(&m.blocked, 1) }
func (m *Metrics) IncParseErrors()   { atomic.AddUint64(&m.parseErrors, 1) }
func (m *Metrics) IncProcessErrors() { atomic.AddUint64(&m.processErrors, 1) }

// Snapshot is a point-in-time read of every counter.
type Snapshot struct {
	Total, Processed, Dropped   uint64
	IPv4, IPv6, ARP             uint64
	TCP, UDP, ICMP              uint64
	Allowed, Blocked            uint64
	ParseErrors, ProcessErrors  uint64
}

func (m *Metrics) snapshot() Snapshot {
	return Snapshot{
		Total:         atomic.LoadUint64(&m.total),
		Processed:     atomic.LoadUint64(&m.processed),
		Dropped:       atomic.LoadUint64(&m.dropped),
		IPv4:          atomic.LoadUint64(&m.ipv4),
		IPv6:          atomic.LoadUint64(&m.ipv6),
		ARP:           atomic.LoadUint64(&m.arp),
		TCP:           atomic.LoadUint64(&m.tcp),
		UDP:           atomic.LoadUint64(&m.udp),
		ICMP:          atomic.LoadUint64(&m.icmp),
		Allowed:       atomic.LoadUint64(&m.allowed),
		Blocked:       atomic.LoadUint64(&m.blocked),
		ParseErrors:   atomic.LoadUint64(&m.parseErrors),
		ProcessErrors: atomic.LoadUint64(&m.processErrors),
	}
}

// FormatMetrics renders a single human-readable snapshot line, the one
// exposition point spec.md §4.11 names.
func (m *Metrics) FormatMetrics() string {
	s := m.snapshot()
	return fmt.Sprintf(
		"total=%d processed=%d dropped=%d ipv4=%d ipv6=%d arp=%d tcp=%d udp=%d icmp=%d allowed=%d blocked=%d parse_errors=%d process_errors=%d",
		s.Total, s.Processed, s.Dropped, s.IPv4, s.IPv6, s.ARP, s.TCP, s.UDP, s.ICMP, s.Allowed, s.Blocked, s.ParseErrors, s.ProcessErrors,
	)
}
