package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

func TestBlacklistEmptyRulesAllowsAll(t *testing.T) {
	fw := New(Blacklist)
	assert.Equal(t, Allow, fw.Check(packet.Packet{}))
}

func TestWhitelistEmptyRulesDeniesAll(t *testing.T) {
	fw := New(Whitelist)
	assert.Equal(t, Deny, fw.Check(packet.Packet{}))
}

func TestBlacklistMatchDenies(t *testing.T) {
	fw := New(Blacklist)
	fw.AddRule(Rule{Filter: Filter{Kind: FieldIPProtocol, IPProtocol: types.IPProtoTCP}, Priority: 1})

	assert.Equal(t, Deny, fw.Check(packet.Packet{IPProtocol: types.IPProtoTCP}))
	assert.Equal(t, Allow, fw.Check(packet.Packet{IPProtocol: types.IPProtoUDP}))
}

func TestWhitelistMatchAllows(t *testing.T) {
	fw := New(Whitelist)
	fw.AddRule(Rule{Filter: Filter{Kind: FieldDstPort, Port: 443}, Priority: 1})

	assert.Equal(t, Allow, fw.Check(packet.Packet{DstPort: 443}))
	assert.Equal(t, Deny, fw.Check(packet.Packet{DstPort: 80}))
}

func TestHigherPriorityRuleWinsFirst(t *testing.T) {
	fw := New(Blacklist)
	fw.AddRule(Rule{Filter: Filter{Kind: FieldSrcPort, Port: 80}, Priority: 1})
	fw.AddRule(Rule{Filter: Filter{Kind: FieldIPProtocol, IPProtocol: types.IPProtoTCP}, Priority: 10})

	// Both rules match, and with a Blacklist policy either match denies, so
	// the verdict alone cannot show scan order; the rule list Check sorted
	// is inspected to prove the higher-priority rule is scanned first.
	assert.Equal(t, Deny, fw.Check(packet.Packet{SrcPort: 80, IPProtocol: types.IPProtoTCP}))
	assert.Equal(t, 10, fw.rules[0].Priority)
}

func TestMacFilterMatches(t *testing.T) {
	fw := New(Whitelist)
	mac := types.MacAddrFromSlice([]byte{1, 2, 3, 4, 5, 6})
	fw.AddRule(Rule{Filter: Filter{Kind: FieldSrcMac, Mac: mac}, Priority: 1})

	assert.Equal(t, Allow, fw.Check(packet.Packet{SrcMAC: mac}))
	assert.Equal(t, Deny, fw.Check(packet.Packet{SrcMAC: types.MacAddrFromSlice([]byte{9, 9, 9, 9, 9, 9})}))
}

func TestIPFamilyMismatchNeverMatches(t *testing.T) {
	fw := New(Whitelist)
	v4 := types.InetV4FromBytes(10, 0, 0, 1)
	v6 := types.InetV6FromBytes(make([]byte, 16))
	fw.AddRule(Rule{Filter: Filter{Kind: FieldSrcIP, IP: v4}, Priority: 1})

	assert.Equal(t, Deny, fw.Check(packet.Packet{SrcIP: v6}))
}
