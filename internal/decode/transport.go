package decode

// transportHeader holds the two port fields read from the start of a TCP
// or UDP segment. Per the canonical variant chosen in SPEC_FULL.md (the
// decoder's Open Question (a)), ports are always the two big-endian
// 16-bit words at transport_data[0:4) regardless of protocol.
type transportHeader struct {
	srcPort uint16
	dstPort uint16
}

// parseTransportHeader implements spec.md §4.1 step 3/4's port read. The
// caller guarantees len(data) >= 4.
func parseTransportHeader(data []byte) transportHeader {
	return transportHeader{
		srcPort: uint16(data[0])<<8 | uint16(data[1]),
		dstPort: uint16(data[2])<<8 | uint16(data[3]),
	}
}

// tcpDataOffsetBytes reads the TCP data-offset nibble (the high nibble of
// byte 12 of the TCP header) and returns it scaled to bytes. The caller
// guarantees len(data) >= 13.
func tcpDataOffsetBytes(data []byte) int {
	return int(data[12]>>4) * 4
}

// udpHeaderBytes is the fixed UDP header length used to advance the
// payload offset past a UDP segment.
const udpHeaderBytes = 8
