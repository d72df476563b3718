package store

import (
	"net"

	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

// parseMAC converts a Postgres macaddr text representation back into a
// types.MacAddr, defaulting to the zero address on malformed input —
// malformed rows here indicate a store bug, not a frame to drop.
func parseMAC(s string) types.MacAddr {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return types.MacAddr{}
	}
	return types.MacAddrFromSlice(hw)
}

func parseInet(s string) types.InetAddr {
	ip := net.ParseIP(s)
	if ip == nil {
		return types.InetAddr{}
	}
	if v4 := ip.To4(); v4 != nil {
		return types.InetV4FromBytes(v4[0], v4[1], v4[2], v4[3])
	}
	return types.InetV6FromBytes(ip.To16())
}
