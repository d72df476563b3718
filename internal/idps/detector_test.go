package idps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

// buildIPv4Frame builds an Ethernet+IPv4 frame with a 20-byte header (no
// options) and the given protocol/total-length/src/dst fields, followed by
// payload.
func buildIPv4Frame(protocol byte, totalLength uint16, src, dst [4]byte, payload []byte) []byte {
	frame := make([]byte, 34+len(payload))
	frame[12], frame[13] = 0x08, 0x00
	ip := frame[14:]
	ip[0] = 0x45
	ip[2] = byte(totalLength >> 8)
	ip[3] = byte(totalLength)
	ip[9] = protocol
	copy(ip[12:16], src[:])
	copy(ip[16:20], dst[:])
	copy(frame[34:], payload)
	return frame
}

func ipv4Packet(protocol types.IpProtocol, srcPort, dstPort uint16, data []byte) packet.Packet {
	return packet.Packet{
		EtherType:  types.EtherTypeIPv4,
		IPProtocol: protocol,
		SrcPort:    srcPort,
		DstPort:    dstPort,
		Timestamp:  time.Now(),
		Data:       data,
	}
}

func TestCheckLandAttack(t *testing.T) {
	d := New(AllEnabled(), nil)
	addr := [4]byte{10, 0, 0, 1}
	frame := buildIPv4Frame(6, 34, addr, addr, nil)

	pkt := ipv4Packet(types.IPProtoTCP, 1, 2, nil)
	assert.Equal(t, Reject, d.Check(frame, pkt))
}

func TestCheckUnknownProtocolRejected(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := buildIPv4Frame(200, 20, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, nil)

	pkt := ipv4Packet(types.IpProtocol(200), 0, 0, nil)
	assert.Equal(t, Reject, d.Check(frame, pkt))
}

func TestCheckMalformedLengthRejected(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := buildIPv4Frame(6, 9999, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, nil)

	pkt := ipv4Packet(types.IPProtoTCP, 1, 2, nil)
	assert.Equal(t, Reject, d.Check(frame, pkt))
}

func TestCheckValidPacketAccepted(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := buildIPv4Frame(6, 20, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, nil)

	tcpData := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x02} // SYN set
	pkt := ipv4Packet(types.IPProtoTCP, 1, 2, tcpData)
	assert.Equal(t, Accept, d.Check(frame, pkt))
}

func TestCheckTCPNoFlagsRejected(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := buildIPv4Frame(6, 20, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, nil)

	tcpData := make([]byte, 14) // all flags zero
	pkt := ipv4Packet(types.IPProtoTCP, 1, 2, tcpData)
	assert.Equal(t, Reject, d.Check(frame, pkt))
}

func TestCheckTCPSynFinRejected(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := buildIPv4Frame(6, 20, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, nil)

	tcpData := make([]byte, 14)
	tcpData[13] = 0x02 | 0x01 // SYN+FIN
	pkt := ipv4Packet(types.IPProtoTCP, 1, 2, tcpData)
	assert.Equal(t, Reject, d.Check(frame, pkt))
}

func TestCheckUDPBombRejected(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := buildIPv4Frame(17, 20, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, nil)

	udpData := make([]byte, 8)
	udpData[4], udpData[5] = 0xFF, 0xFF // bogus huge length
	pkt := ipv4Packet(types.IPProtoUDP, 1, 2, udpData)
	assert.Equal(t, Reject, d.Check(frame, pkt))
}

func TestCheckICMPTooLargeRejected(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := buildIPv4Frame(1, 20, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, nil)

	icmpData := make([]byte, 1025)
	pkt := ipv4Packet(types.IPProtoICMP, 0, 0, icmpData)
	assert.Equal(t, Reject, d.Check(frame, pkt))
}

func TestCheckNonIPPassesThrough(t *testing.T) {
	d := New(AllEnabled(), nil)
	frame := make([]byte, 42)
	frame[12], frame[13] = 0x08, 0x06 // ARP EtherType on the non-ARP path

	pkt := packet.Packet{EtherType: types.EtherTypeARP}
	assert.Equal(t, Accept, d.Check(frame, pkt))
}

func TestCheckEmptyRulesAcceptsEverything(t *testing.T) {
	d := New(NewRules(), nil)
	addr := [4]byte{10, 0, 0, 1}
	frame := buildIPv4Frame(6, 34, addr, addr, nil) // LAND attack shape

	pkt := ipv4Packet(types.IPProtoTCP, 1, 2, nil)
	assert.Equal(t, Accept, d.Check(frame, pkt))
}
