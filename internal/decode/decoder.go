// Package decode implements the header decoder (C1): it turns a raw
// captured Ethernet frame into an immutable packet.Packet, falling back to
// an empty-packet sentinel rather than ever returning an error — parse
// failures are a data-plane fact of life, not an exceptional condition.
package decode

import (
	"time"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

// maxRecursionDepth guards against encapsulation loops (tunnel-in-tunnel
// traffic seen in real captures). Nothing in this decoder currently
// recurses more than once; the cap is carried forward from the original
// implementation as a hint for a future nested-tunnel feature, not as code
// that is exercised today.
const maxRecursionDepth = 5

// Decoder parses raw Ethernet frames into packet.Packet values.
type Decoder struct{}

// New constructs a Decoder. It holds no state; decoding is a pure function
// of the input bytes.
func New() *Decoder {
	return &Decoder{}
}

// Decode implements spec.md §4.1. Frames shorter than 14 bytes, or that
// otherwise bottom out mid-parse, produce the empty-packet sentinel.
func (d *Decoder) Decode(frame []byte) packet.Packet {
	if len(frame) < ethernetHeaderSize {
		return packet.Empty(frame)
	}
	return d.parse(frame, 0)
}

func (d *Decoder) parse(frame []byte, depth int) packet.Packet {
	if depth > maxRecursionDepth || len(frame) < ethernetHeaderSize {
		return packet.Empty(frame)
	}

	eth := parseEthernetHeader(frame)

	srcIP, dstIP, proto, srcPort, dstPort, payloadOffset := d.parseNetworkLayer(frame, eth.etherType)

	if payloadOffset > len(frame) {
		payloadOffset = len(frame)
	}

	return packet.Packet{
		SrcMAC:     eth.srcMAC,
		DstMAC:     eth.dstMAC,
		EtherType:  eth.etherType,
		SrcIP:      srcIP,
		DstIP:      dstIP,
		IPProtocol: proto,
		SrcPort:    srcPort,
		DstPort:    dstPort,
		Timestamp:  time.Now().UTC(),
		Data:       frame[payloadOffset:],
		Raw:        frame,
	}
}

// parseNetworkLayer implements spec.md §4.1 steps 3-6.
func (d *Decoder) parseNetworkLayer(frame []byte, etherType types.EtherType) (
	srcIP, dstIP types.InetAddr, proto types.IpProtocol, srcPort, dstPort uint16, payloadOffset int,
) {
	payloadOffset = ethernetHeaderSize

	switch etherType {
	case types.EtherTypeIPv4:
		if len(frame) <= 23 {
			return srcIP, dstIP, proto, srcPort, dstPort, payloadOffset
		}
		hdr := parseIPv4Header(frame)
		srcIP, dstIP, proto, payloadOffset = hdr.srcIP, hdr.dstIP, hdr.protocol, hdr.payloadOffset

		if proto == types.IPProtoTCP || proto == types.IPProtoUDP {
			if remaining := frame[min(payloadOffset, len(frame)):]; len(remaining) >= 4 {
				th := parseTransportHeader(remaining)
				srcPort, dstPort = th.srcPort, th.dstPort
				if proto == types.IPProtoTCP && len(remaining) >= 13 {
					payloadOffset += tcpDataOffsetBytes(remaining)
				} else if proto == types.IPProtoUDP {
					payloadOffset += udpHeaderBytes
				}
			}
		}

	case types.EtherTypeIPv6:
		if len(frame) <= 54 {
			return srcIP, dstIP, proto, srcPort, dstPort, payloadOffset
		}
		hdr := parseIPv6Header(frame)
		srcIP, dstIP, proto, payloadOffset = hdr.srcIP, hdr.dstIP, hdr.protocol, hdr.payloadOffset

		if proto == types.IPProtoTCP || proto == types.IPProtoUDP {
			if remaining := frame[min(payloadOffset, len(frame)):]; len(remaining) >= 4 {
				th := parseTransportHeader(remaining)
				srcPort, dstPort = th.srcPort, th.dstPort
				if proto == types.IPProtoTCP && len(remaining) >= 13 {
					payloadOffset += tcpDataOffsetBytes(remaining)
				} else if proto == types.IPProtoUDP {
					payloadOffset += udpHeaderBytes
				}
			}
		}

	case types.EtherTypeARP:
		if len(frame) >= minARPFrameSize {
			srcIP, dstIP = parseARPAddresses(frame)
		}

	default:
		// RARP, VLAN, and everything else: zero IPs, UNKNOWN protocol,
		// payload offset stays at the Ethernet header boundary.
	}

	return srcIP, dstIP, proto, srcPort, dstPort, payloadOffset
}
