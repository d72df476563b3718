package ratelimit

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldProcessAllowsUnderBurstLimit(t *testing.T) {
	c := New()
	src := net.ParseIP("10.0.0.1")
	dst := net.ParseIP("10.0.0.2")

	for i := 0; i < maxBurst; i++ {
		assert.True(t, c.ShouldProcess(src, dst))
	}
}

func TestShouldProcessBlocksOverBurstLimit(t *testing.T) {
	c := New()
	src := net.ParseIP("10.0.0.1")
	dst := net.ParseIP("10.0.0.2")

	for i := 0; i < maxBurst; i++ {
		c.ShouldProcess(src, dst)
	}
	assert.False(t, c.ShouldProcess(src, dst))
}

func TestShouldProcessDistinctPairsIndependent(t *testing.T) {
	c := New()
	a := net.ParseIP("10.0.0.1")
	b := net.ParseIP("10.0.0.2")
	x := net.ParseIP("10.0.0.3")
	y := net.ParseIP("10.0.0.4")

	for i := 0; i < maxBurst; i++ {
		assert.True(t, c.ShouldProcess(a, b))
	}
	assert.False(t, c.ShouldProcess(a, b))
	assert.True(t, c.ShouldProcess(x, y))
}

func TestShouldProcessResetsAfterBurstWindow(t *testing.T) {
	c := New()
	src := net.ParseIP("10.0.0.1")
	dst := net.ParseIP("10.0.0.2")

	for i := 0; i < maxBurst; i++ {
		c.ShouldProcess(src, dst)
	}
	assert.False(t, c.ShouldProcess(src, dst))

	time.Sleep(burstWindow + 10*time.Millisecond)
	assert.True(t, c.ShouldProcess(src, dst))
}

func TestCleanupCapsTableAtHalfCapacity(t *testing.T) {
	c := New()
	now := time.Now()

	c.mu.Lock()
	for i := 0; i < maxEntries+100; i++ {
		key := pairKey{net.IPv4(10, 0, byte(i>>8), byte(i)).String(), "dst"}
		c.normal[key] = window{start: now.Add(time.Duration(i) * time.Microsecond), count: 1}
	}
	c.mu.Unlock()

	c.mu.Lock()
	c.cleanup(now.Add(time.Millisecond))
	size := len(c.normal)
	c.mu.Unlock()

	assert.LessOrEqual(t, size, maxEntries/2)
}

func TestSizeNeverExceedsMaxEntries(t *testing.T) {
	c := New()
	src := net.ParseIP("192.168.1.1")

	for i := 0; i < 50; i++ {
		dst := net.IPv4(192, 168, 2, byte(i))
		c.ShouldProcess(src, dst)
	}

	assert.LessOrEqual(t, c.Size(), maxEntries)
}
