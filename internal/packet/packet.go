// Package packet defines the Decoded Packet produced by the header decoder
// (C1) and consumed, read-only, by every later stage of the pipeline.
package packet

import (
	"time"

	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

// Packet is the immutable, per-frame record that flows from the decoder
// through IDPS, rate control, dedup, TTL handling, firewall, and into the
// write buffer. Once constructed it is never mutated; stages that need to
// edit the wire bytes (C5 TTL) operate on Raw directly before the next
// Decode, not on a live Packet.
type Packet struct {
	SrcMAC     types.MacAddr
	DstMAC     types.MacAddr
	EtherType  types.EtherType
	SrcIP      types.InetAddr
	DstIP      types.InetAddr
	IPProtocol types.IpProtocol
	SrcPort    uint16 // 0 when not applicable
	DstPort    uint16 // 0 when not applicable
	Timestamp  time.Time
	Data       []byte // payload after the transport header
	Raw        []byte // full original frame
}

// Empty returns the sentinel packet produced when a frame is too short to
// decode: zero addresses, UNKNOWN ether type and IP protocol, and Raw set
// to whatever bytes were actually captured.
func Empty(raw []byte) Packet {
	return Packet{
		EtherType:  types.EtherTypeUnknown,
		IPProtocol: types.IPProtoUnknown,
		Timestamp:  time.Now().UTC(),
		Data:       nil,
		Raw:        raw,
	}
}

// IsEmpty reports whether p is the decoder's empty-packet sentinel.
func (p Packet) IsEmpty() bool {
	return p.SrcMAC.IsZero() && p.DstMAC.IsZero() && p.EtherType == types.EtherTypeUnknown && len(p.Data) == 0
}
