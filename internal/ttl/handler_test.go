package ttl

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIPv4FrameWithTTL(ttl byte) []byte {
	frame := make([]byte, 34)
	frame[12], frame[13] = 0x08, 0x00
	ip := frame[14:]
	ip[0] = 0x45
	binary.BigEndian.PutUint16(ip[2:4], 20)
	ip[8] = ttl
	checksum := ipv4Checksum(ip[:20])
	binary.BigEndian.PutUint16(ip[10:12], checksum)
	return frame
}

func TestProcessIPv4DecrementsTTL(t *testing.T) {
	h := New(Default())
	frame := buildIPv4FrameWithTTL(64)

	ok := h.Process(frame)
	require.True(t, ok)
	assert.Equal(t, byte(63), frame[14+8])
}

func TestProcessIPv4RecomputesValidChecksum(t *testing.T) {
	h := New(Default())
	frame := buildIPv4FrameWithTTL(64)

	require.True(t, h.Process(frame))

	ip := frame[14:]
	var sum uint32
	for i := 0; i+1 < 20; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(ip[i : i+2]))
	}
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	assert.Equal(t, uint16(0xFFFF), uint16(sum))
}

func TestProcessIPv4AtMinTTLDecrementsToZero(t *testing.T) {
	h := New(Default())
	frame := buildIPv4FrameWithTTL(1)

	ok := h.Process(frame)
	require.True(t, ok)
	assert.Equal(t, byte(0), frame[14+8])
}

func TestProcessIPv4DropsWhenAlreadyBelowMinTTL(t *testing.T) {
	h := New(Default())
	frame := buildIPv4FrameWithTTL(0)

	assert.False(t, h.Process(frame))
}

func TestProcessIPv6DecrementsHopLimit(t *testing.T) {
	h := New(Default())
	frame := make([]byte, 54)
	frame[12], frame[13] = 0x86, 0xDD
	frame[14+7] = 32

	ok := h.Process(frame)
	require.True(t, ok)
	assert.Equal(t, byte(31), frame[14+7])
}

func TestProcessNonIPPassesThrough(t *testing.T) {
	h := New(Default())
	frame := make([]byte, 20)
	frame[12], frame[13] = 0x08, 0x06 // ARP

	assert.True(t, h.Process(frame))
}

func TestProcessShortFrameRejected(t *testing.T) {
	h := New(Default())
	assert.False(t, h.Process(make([]byte, 10)))
}

func TestSaturatingSubFloorsAtZero(t *testing.T) {
	assert.Equal(t, byte(0), saturatingSub(0, 1))
	assert.Equal(t, byte(5), saturatingSub(10, 5))
}
