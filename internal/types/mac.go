// Package types holds the protocol value types shared across the packet
// data plane: Ethernet addresses, internet addresses, and the EtherType /
// IP protocol enumerations.
package types

import (
	"bytes"
	"fmt"
)

// MacAddr is a 6-byte Ethernet hardware address. Equality is structural.
type MacAddr [6]byte

// String renders the address in the conventional colon-hex form.
func (m MacAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Equal reports whether two addresses are byte-for-byte identical.
func (m MacAddr) Equal(other MacAddr) bool {
	return bytes.Equal(m[:], other[:])
}

// IsZero reports whether the address is the all-zero sentinel used by the
// decoder's empty-packet fallback.
func (m MacAddr) IsZero() bool {
	return m == MacAddr{}
}

// MacAddrFromSlice copies a 6-byte slice into a MacAddr. The caller must
// guarantee len(b) >= 6.
func MacAddrFromSlice(b []byte) MacAddr {
	var m MacAddr
	copy(m[:], b[:6])
	return m
}
