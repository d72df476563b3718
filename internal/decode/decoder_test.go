package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

// buildIPv4Frame constructs a minimal Ethernet+IPv4(+TCP) frame for testing.
func buildIPv4Frame(t *testing.T, proto byte, payload []byte) []byte {
	t.Helper()
	frame := make([]byte, 34+len(payload))

	copy(frame[0:6], []byte{0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa})
	copy(frame[6:12], []byte{0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb})
	frame[12], frame[13] = 0x08, 0x00 // IPv4

	ip := frame[14:]
	ip[0] = 0x45 // version 4, IHL 5
	ip[9] = proto
	copy(ip[12:16], []byte{192, 168, 1, 10})
	copy(ip[16:20], []byte{192, 168, 1, 20})

	copy(frame[34:], payload)
	return frame
}

func TestDecodeShortFrameIsEmpty(t *testing.T) {
	d := New()
	pkt := d.Decode([]byte{1, 2, 3})
	assert.True(t, pkt.IsEmpty())
}

func TestDecodeEthernetAddresses(t *testing.T) {
	d := New()
	frame := buildIPv4Frame(t, 6, nil)

	pkt := d.Decode(frame)
	require.False(t, pkt.IsEmpty())

	assert.Equal(t, types.MacAddrFromSlice(frame[6:12]), pkt.SrcMAC)
	assert.Equal(t, types.MacAddrFromSlice(frame[0:6]), pkt.DstMAC)
	assert.Equal(t, "bb:bb:bb:bb:bb:bb", pkt.SrcMAC.String())
	assert.Equal(t, "aa:aa:aa:aa:aa:aa", pkt.DstMAC.String())
}

func TestDecodeIPv4PayloadOffset(t *testing.T) {
	d := New()
	payload := []byte{0, 80, 0, 443, 0, 0, 0, 0, 0, 0, 0, 0, 0x50, 0, 0, 0, 0, 0, 0, 0}
	frame := buildIPv4Frame(t, 6, payload)

	pkt := d.Decode(frame)
	require.False(t, pkt.IsEmpty())
	assert.Equal(t, types.IPProtoTCP, pkt.IPProtocol)
	assert.Equal(t, uint16(80), pkt.SrcPort)
	assert.Equal(t, uint16(443), pkt.DstPort)
	// 14 (Ethernet) + 20 (IHL 5) + 20 (TCP data offset 5) = 54 = len(frame).
	assert.Empty(t, pkt.Data)
}

func TestDecodeUDPPortsAndOffset(t *testing.T) {
	d := New()
	payload := []byte{0, 53, 0, 53, 0, 8, 0, 0}
	frame := buildIPv4Frame(t, 17, payload)

	pkt := d.Decode(frame)
	require.False(t, pkt.IsEmpty())
	assert.Equal(t, types.IPProtoUDP, pkt.IPProtocol)
	assert.Equal(t, uint16(53), pkt.SrcPort)
	assert.Equal(t, uint16(53), pkt.DstPort)
	assert.Empty(t, pkt.Data)
}

func TestDecodeARP(t *testing.T) {
	d := New()
	frame := make([]byte, 42)
	frame[12], frame[13] = 0x08, 0x06 // ARP
	copy(frame[28:32], []byte{10, 0, 0, 1})
	copy(frame[38:42], []byte{10, 0, 0, 2})

	pkt := d.Decode(frame)
	require.False(t, pkt.IsEmpty())
	assert.Equal(t, "10.0.0.1", pkt.SrcIP.String())
	assert.Equal(t, "10.0.0.2", pkt.DstIP.String())
}
