// Package firewall implements the priority-ordered rule engine (C6),
// grounded on driver/filter.go and driver/static_filter.go's Filter/
// StaticFilter shape, generalized from Windows NDIS filter entries to
// plain field-equality matching over a Decoded Packet.
package firewall

import (
	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

// FieldKind names which packet field a Filter matches on.
type FieldKind int

const (
	FieldSrcMac FieldKind = iota
	FieldDstMac
	FieldEtherType
	FieldSrcIP
	FieldDstIP
	FieldIPProtocol
	FieldSrcPort
	FieldDstPort
)

// Filter is a single field-equality match, analogous to one entry in the
// teacher's StaticFilterEntry table but carrying only the fields spec.md
// names (no CIDR, no direction).
type Filter struct {
	Kind FieldKind

	Mac        types.MacAddr
	EtherType  types.EtherType
	IP         types.InetAddr
	IPProtocol types.IpProtocol
	Port       uint16
}

// Matches reports whether pkt satisfies this filter's field equality.
// Equality for IpAddress filters is per-address-family: a v4 filter never
// matches a v6 packet field and vice versa.
func (f Filter) Matches(pkt packet.Packet) bool {
	switch f.Kind {
	case FieldSrcMac:
		return f.Mac.Equal(pkt.SrcMAC)
	case FieldDstMac:
		return f.Mac.Equal(pkt.DstMAC)
	case FieldEtherType:
		return f.EtherType == pkt.EtherType
	case FieldSrcIP:
		return f.IP.Equal(pkt.SrcIP)
	case FieldDstIP:
		return f.IP.Equal(pkt.DstIP)
	case FieldIPProtocol:
		return f.IPProtocol == pkt.IPProtocol
	case FieldSrcPort:
		return f.Port == pkt.SrcPort
	case FieldDstPort:
		return f.Port == pkt.DstPort
	default:
		return false
	}
}

// Rule pairs a Filter with a priority; higher Priority is scanned first.
type Rule struct {
	Filter   Filter
	Priority int
}
