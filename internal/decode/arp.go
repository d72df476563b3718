package decode

import "github.com/aida0710/rdb-tunnel-go/internal/types"

const minARPFrameSize = 28

// parseARPAddresses implements spec.md §4.1 step 5: sender protocol
// address at [28:32), target protocol address at [38:42). No transport
// decoding applies to ARP. Each address is read only when the frame is
// long enough to hold it; an address the frame does not hold stays zero.
func parseARPAddresses(frame []byte) (senderIP, targetIP types.InetAddr) {
	if len(frame) >= 32 {
		senderIP = types.InetV4FromBytes(frame[28], frame[29], frame[30], frame[31])
	}
	if len(frame) >= 42 {
		targetIP = types.InetV4FromBytes(frame[38], frame[39], frame[40], frame[41])
	}
	return senderIP, targetIP
}
