package types

import "net"

// InetFamily discriminates the variant held by an InetAddr.
type InetFamily uint8

const (
	InetUnspecified InetFamily = iota
	InetV4
	InetV6
)

// InetAddr is a tagged union of a v4 (4-byte) or v6 (16-byte) address. The
// zero value is the unspecified 0.0.0.0 address used by the decoder's
// empty-packet and unknown-EtherType fallbacks.
type InetAddr struct {
	Family InetFamily
	v4     [4]byte
	v6     [16]byte
}

// InetV4FromBytes builds a v4 InetAddr from four octets.
func InetV4FromBytes(a, b, c, d byte) InetAddr {
	return InetAddr{Family: InetV4, v4: [4]byte{a, b, c, d}}
}

// InetV6FromBytes builds a v6 InetAddr from sixteen octets. The caller must
// guarantee len(b) >= 16.
func InetV6FromBytes(b []byte) InetAddr {
	var addr InetAddr
	addr.Family = InetV6
	copy(addr.v6[:], b[:16])
	return addr
}

// IP renders the address as a stdlib net.IP for interop with net.IP based
// consumers (the dedup and ARP rate-limit keys, the reader's net.IPNet
// prefix check).
func (a InetAddr) IP() net.IP {
	switch a.Family {
	case InetV4:
		return net.IPv4(a.v4[0], a.v4[1], a.v4[2], a.v4[3])
	case InetV6:
		ip := make(net.IP, 16)
		copy(ip, a.v6[:])
		return ip
	default:
		return net.IPv4zero
	}
}

// Equal compares two addresses by family and value.
func (a InetAddr) Equal(other InetAddr) bool {
	if a.Family != other.Family {
		return false
	}
	switch a.Family {
	case InetV4:
		return a.v4 == other.v4
	case InetV6:
		return a.v6 == other.v6
	default:
		return true
	}
}

// String renders the address using net.IP's formatting.
func (a InetAddr) String() string {
	return a.IP().String()
}

// IsZero reports whether the address is the unspecified sentinel.
func (a InetAddr) IsZero() bool {
	return a.Family == InetUnspecified
}
