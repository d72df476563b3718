package decode

import "github.com/aida0710/rdb-tunnel-go/internal/types"

const ethernetHeaderSize = 14

// ethernetHeader holds the fields lifted directly off the wire by
// parseEthernetHeader.
type ethernetHeader struct {
	dstMAC    types.MacAddr
	srcMAC    types.MacAddr
	etherType types.EtherType
}

// parseEthernetHeader reads the 14-byte Ethernet header: destination MAC at
// [0:6), source MAC at [6:12), EtherType as a big-endian uint16 at [12:14).
// The caller guarantees len(frame) >= ethernetHeaderSize.
func parseEthernetHeader(frame []byte) ethernetHeader {
	return ethernetHeader{
		dstMAC:    types.MacAddrFromSlice(frame[0:6]),
		srcMAC:    types.MacAddrFromSlice(frame[6:12]),
		etherType: types.NewEtherType(uint16(frame[12])<<8 | uint16(frame[13])),
	}
}
