// Package ttl implements the TTL/hop-limit handler (C5): saturating
// decrement of IPv4 TTL / IPv6 hop limit with IPv4 checksum repair,
// grounded on spec.md §4.5 and the standard hop-by-hop router algorithm.
package ttl

import (
	"encoding/binary"

	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

const (
	etherTypeOffset = 12
	ipv4Offset      = 14
	ipv6Offset      = 14
)

// Settings configures the minimum TTL/hop-limit a frame may carry after
// decrement and how much to decrement by.
type Settings struct {
	MinTTL    uint8
	Decrement uint8
}

// Default mirrors the original's default of min_ttl=1, decrement=1.
func Default() Settings {
	return Settings{MinTTL: 1, Decrement: 1}
}

// Handler applies Settings to raw Ethernet frames in place.
type Handler struct {
	settings Settings
}

// New builds a Handler with the given settings.
func New(settings Settings) *Handler {
	return &Handler{settings: settings}
}

// Process mutates frame in place, decrementing TTL/hop-limit. It returns
// false if frame is too short to safely process or the hop count before
// decrement is already below the configured minimum; callers must treat
// false as a drop. Frames whose EtherType is neither IPv4 nor IPv6 pass
// through unchanged and return true.
func (h *Handler) Process(frame []byte) bool {
	if len(frame) < 14 {
		return false
	}

	etherType := types.NewEtherType(binary.BigEndian.Uint16(frame[etherTypeOffset : etherTypeOffset+2]))
	switch etherType {
	case types.EtherTypeIPv4:
		return h.processIPv4(frame)
	case types.EtherTypeIPv6:
		return h.processIPv6(frame)
	default:
		return true
	}
}

func (h *Handler) processIPv4(frame []byte) bool {
	if len(frame) < ipv4Offset+20 {
		return false
	}
	ip := frame[ipv4Offset:]
	ihl := int(ip[0]&0x0F) * 4
	if ihl < 20 || ihl > len(ip) {
		return false
	}

	ttl := ip[8]
	if ttl < h.settings.MinTTL {
		return false
	}
	ttl = saturatingSub(ttl, h.settings.Decrement)
	ip[8] = ttl

	ip[10] = 0
	ip[11] = 0
	checksum := ipv4Checksum(ip[:ihl])
	binary.BigEndian.PutUint16(ip[10:12], checksum)

	return true
}

func (h *Handler) processIPv6(frame []byte) bool {
	if len(frame) < ipv6Offset+40 {
		return false
	}
	ip := frame[ipv6Offset:]
	hopLimit := ip[7]
	if hopLimit < h.settings.MinTTL {
		return false
	}
	hopLimit = saturatingSub(hopLimit, h.settings.Decrement)
	ip[7] = hopLimit
	return true
}

func saturatingSub(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

// ipv4Checksum implements RFC 1624's one's-complement checksum over an
// IPv4 header whose checksum field is already zeroed.
func ipv4Checksum(header []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(header); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(header[i : i+2]))
	}
	if len(header)%2 == 1 {
		sum += uint32(header[len(header)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return ^uint16(sum)
}
