package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacAddrFromSlice(t *testing.T) {
	b := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	m := MacAddrFromSlice(b)
	assert.Equal(t, "00:11:22:33:44:55", m.String())
}

func TestMacAddrEqual(t *testing.T) {
	a := MacAddrFromSlice([]byte{1, 2, 3, 4, 5, 6})
	b := MacAddrFromSlice([]byte{1, 2, 3, 4, 5, 6})
	c := MacAddrFromSlice([]byte{1, 2, 3, 4, 5, 7})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestMacAddrIsZero(t *testing.T) {
	var z MacAddr
	assert.True(t, z.IsZero())

	nz := MacAddrFromSlice([]byte{0, 0, 0, 0, 0, 1})
	assert.False(t, nz.IsZero())
}
