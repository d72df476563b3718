package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

func TestParseMACValid(t *testing.T) {
	m := parseMAC("aa:bb:cc:dd:ee:ff")
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", m.String())
}

func TestParseMACMalformedReturnsZero(t *testing.T) {
	m := parseMAC("not-a-mac")
	assert.True(t, m.IsZero())
}

func TestParseInetV4(t *testing.T) {
	a := parseInet("192.168.1.1")
	assert.Equal(t, types.InetV4, a.Family)
	assert.Equal(t, "192.168.1.1", a.String())
}

func TestParseInetV6(t *testing.T) {
	a := parseInet("::1")
	assert.Equal(t, types.InetV6, a.Family)
}

func TestParseInetMalformedReturnsZero(t *testing.T) {
	a := parseInet("not-an-ip")
	assert.True(t, a.IsZero())
}
