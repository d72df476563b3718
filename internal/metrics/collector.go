package metrics

import "github.com/prometheus/client_golang/prometheus"

// namespace/subsystem follow gobfd's internal/metrics.Collector pattern
// of a fixed "namespace_subsystem_" prefix to avoid exporter collisions.
const (
	namespace = "rdbtunnel"
	subsystem = "bridge"
)

// Collector exposes the same thirteen atomics through a Prometheus
// GaugeFunc family, letting Metrics stay the single source of truth
// while still registering against a caller-supplied Registerer.
type Collector struct {
	m *Metrics
}

// NewCollector builds a Collector reading from m and registers it
// against reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(m *Metrics, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{m: m}

	gauges := []struct {
		name string
		help string
		fn   func() float64
	}{
		{"frames_total", "Total frames observed by the capture pipeline.", func() float64 { return float64(m.snapshot().Total) }},
		{"frames_processed", "Frames that completed the decode/filter pipeline.", func() float64 { return float64(m.snapshot().Processed) }},
		{"frames_dropped", "Frames dropped at any pipeline stage.", func() float64 { return float64(m.snapshot().Dropped) }},
		{"ipv4_total", "IPv4 frames observed.", func() float64 { return float64(m.snapshot().IPv4) }},
		{"ipv6_total", "IPv6 frames observed.", func() float64 { return float64(m.snapshot().IPv6) }},
		{"arp_total", "ARP frames observed.", func() float64 { return float64(m.snapshot().ARP) }},
		{"tcp_total", "TCP segments observed.", func() float64 { return float64(m.snapshot().TCP) }},
		{"udp_total", "UDP datagrams observed.", func() float64 { return float64(m.snapshot().UDP) }},
		{"icmp_total", "ICMP messages observed.", func() float64 { return float64(m.snapshot().ICMP) }},
		{"allowed_total", "Frames allowed by the firewall.", func() float64 { return float64(m.snapshot().Allowed) }},
		{"blocked_total", "Frames blocked by the firewall.", func() float64 { return float64(m.snapshot().Blocked) }},
		{"parse_errors_total", "Frames that failed header decoding.", func() float64 { return float64(m.snapshot().ParseErrors) }},
		{"process_errors_total", "Frames that errored during pipeline processing.", func() float64 { return float64(m.snapshot().ProcessErrors) }},
	}

	for _, g := range gauges {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      g.name,
			Help:      g.help,
		}, g.fn))
	}

	return c
}
