package decode

import "github.com/aida0710/rdb-tunnel-go/internal/types"

// ipHeader carries the fields the pipeline needs out of an IPv4 or IPv6
// header: source/destination address, transport protocol, and the byte
// offset where the payload (transport header or raw data) begins.
type ipHeader struct {
	srcIP         types.InetAddr
	dstIP         types.InetAddr
	protocol      types.IpProtocol
	payloadOffset int
}

// parseIPv4Header implements spec.md §4.1 step 3. The caller guarantees
// len(frame) > 23. The addresses are read only when the frame holds them
// (len(frame) >= 34); a shorter frame gets zero addresses.
func parseIPv4Header(frame []byte) ipHeader {
	ihl := int(frame[ethernetHeaderSize] & 0x0F)
	protocol := types.NewIPProtocol(frame[23])

	hdr := ipHeader{
		protocol:      protocol,
		payloadOffset: ethernetHeaderSize + ihl*4,
	}
	if len(frame) >= 34 {
		hdr.srcIP = types.InetV4FromBytes(frame[26], frame[27], frame[28], frame[29])
		hdr.dstIP = types.InetV4FromBytes(frame[30], frame[31], frame[32], frame[33])
	}
	return hdr
}

// parseIPv6Header implements spec.md §4.1 step 4. The caller guarantees
// len(frame) > 54.
func parseIPv6Header(frame []byte) ipHeader {
	nextHeader := types.NewIPProtocol(frame[20])

	return ipHeader{
		srcIP:         types.InetV6FromBytes(frame[22:38]),
		dstIP:         types.InetV6FromBytes(frame[38:54]),
		protocol:      nextHeader,
		payloadOffset: 54,
	}
}
