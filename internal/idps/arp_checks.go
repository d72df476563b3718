package idps

import "encoding/binary"

const (
	arpHTypeEthernet = 1
	arpPTypeIPv4     = 0x0800
	arpHLenEthernet  = 6
	arpPLenIPv4      = 4

	ethernetHeaderSize = 14
	arpHeaderSize      = 8
	arpAddressesSize   = 20
	minARPPacketSize   = ethernetHeaderSize + arpHeaderSize + arpAddressesSize // 42
)

// CheckARP validates an ARP frame per spec.md §4.2: hardware type must be
// Ethernet(1), protocol type IPv4(0x0800), hlen 6, plen 4. Padding bytes
// past the 46-byte Ethernet minimum must all be zero, with the first
// padding byte doubling as a one-bit "already processed" marker.
//
// On acceptance CheckARP mutates frame in place, flipping that marker byte
// to 0x01 — this is destructive to the frame and is kept only because
// spec.md explicitly declines to redesign it (see SPEC_FULL.md Open
// Question (b)). Callers downstream of CheckARP must expect accepted ARP
// frames to carry this marker.
func (d *Detector) CheckARP(frame []byte) Decision {
	if len(frame) < minARPPacketSize {
		return Reject
	}

	arp := frame[ethernetHeaderSize:]
	hardwareType := binary.BigEndian.Uint16(arp[0:2])
	if hardwareType != arpHTypeEthernet {
		return Reject
	}
	protocolType := binary.BigEndian.Uint16(arp[2:4])
	if protocolType != arpPTypeIPv4 {
		return Reject
	}
	if arp[4] != arpHLenEthernet {
		return Reject
	}
	if arp[5] != arpPLenIPv4 {
		return Reject
	}

	if len(frame) <= minARPPacketSize {
		return Accept
	}

	paddingStart := minARPPacketSize
	marker := frame[paddingStart]
	if marker != 0x00 && marker != 0x01 {
		return Reject
	}
	if marker == 0x01 {
		return Reject // already processed
	}
	for _, b := range frame[paddingStart+1:] {
		if b != 0x00 {
			return Reject
		}
	}

	frame[paddingStart] = 0x01
	return Accept
}
