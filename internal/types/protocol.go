package types

import "github.com/google/gopacket/layers"

// EtherType is the 16-bit Ethernet protocol discriminator from the frame's
// type/length field. The numeric values are taken from gopacket/layers so
// that the decoder and the capture path agree on the same constants.
type EtherType uint16

const (
	EtherTypeUnknown EtherType = 0
	EtherTypeIPv4    EtherType = EtherType(layers.EthernetTypeIPv4)
	EtherTypeIPv6    EtherType = EtherType(layers.EthernetTypeIPv6)
	EtherTypeARP     EtherType = EtherType(layers.EthernetTypeARP)
	EtherTypeRARP    EtherType = 0x8035
	EtherTypeVLAN    EtherType = EtherType(layers.EthernetTypeDot1Q)
)

// NewEtherType maps a raw 16-bit value to the recognized constant, or
// EtherTypeUnknown for anything else.
func NewEtherType(v uint16) EtherType {
	switch EtherType(v) {
	case EtherTypeIPv4, EtherTypeIPv6, EtherTypeARP, EtherTypeRARP, EtherTypeVLAN:
		return EtherType(v)
	default:
		return EtherTypeUnknown
	}
}

// String names the EtherType for logging.
func (e EtherType) String() string {
	switch e {
	case EtherTypeIPv4:
		return "IPv4"
	case EtherTypeIPv6:
		return "IPv6"
	case EtherTypeARP:
		return "ARP"
	case EtherTypeRARP:
		return "RARP"
	case EtherTypeVLAN:
		return "VLAN"
	default:
		return "UNKNOWN"
	}
}

// IpProtocol is the 8-bit IANA protocol number carried in the IPv4
// protocol field / IPv6 next-header field.
type IpProtocol uint8

const (
	IPProtoUnknown IpProtocol = 0
	IPProtoICMP    IpProtocol = IpProtocol(layers.IPProtocolICMPv4)
	IPProtoTCP     IpProtocol = IpProtocol(layers.IPProtocolTCP)
	IPProtoUDP     IpProtocol = IpProtocol(layers.IPProtocolUDP)
	IPProtoICMPv6  IpProtocol = IpProtocol(layers.IPProtocolICMPv6)
)

// NewIPProtocol maps a raw 8-bit value to the recognized constant, or
// IPProtoUnknown for anything else.
func NewIPProtocol(v uint8) IpProtocol {
	switch IpProtocol(v) {
	case IPProtoICMP, IPProtoTCP, IPProtoUDP, IPProtoICMPv6:
		return IpProtocol(v)
	default:
		return IPProtoUnknown
	}
}

// String names the protocol for logging.
func (p IpProtocol) String() string {
	switch p {
	case IPProtoICMP:
		return "ICMP"
	case IPProtoTCP:
		return "TCP"
	case IPProtoUDP:
		return "UDP"
	case IPProtoICMPv6:
		return "ICMPv6"
	default:
		return "UNKNOWN"
	}
}
