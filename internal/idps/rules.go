// Package idps implements the intrusion-detection-and-prevention detector
// (C2): protocol-violation rules evaluated against a decoded packet (or,
// for ARP, against the raw frame directly), yielding an Accept/Reject
// verdict per spec.md §4.2.
package idps

// IPHeaderViolation enumerates the ip-header category (spec.md §4.2).
type IPHeaderViolation int

const (
	IPHeaderUnknownProtocol IPHeaderViolation = iota // protocol value >= 143
	IPHeaderLandAttack                                // src_ip == dst_ip
	IPHeaderShortHeader                               // declared IHL < actual
	IPHeaderMalformedLength                           // length mismatch
)

// IPOptionViolation enumerates the ip-option category.
type IPOptionViolation int

const (
	IPOptionMalformed IPOptionViolation = iota
	IPOptionSecurity
	IPOptionLooseRouting
	IPOptionStrictRouting
	IPOptionRecordRoute
	IPOptionStreamID
	IPOptionTimestamp
)

// FragmentViolation enumerates the fragment category.
type FragmentViolation int

const (
	FragmentLargeOffset FragmentViolation = iota
	FragmentDuplicateOffset
	FragmentMalformed
)

// ICMPViolation enumerates the icmp category.
type ICMPViolation int

const (
	ICMPSourceQuench ICMPViolation = iota
	ICMPTimestampRequest
	ICMPTimestampReply
	ICMPInfoRequest
	ICMPInfoReply
	ICMPMaskRequest
	ICMPMaskReply
	ICMPTooLarge // total length > 1024 bytes
)

// UDPViolation enumerates the udp category.
type UDPViolation int

const (
	UDPShortHeader UDPViolation = iota // length field < 8
	UDPBomb                            // length field > packet length
)

// TCPViolation enumerates the tcp category.
type TCPViolation int

const (
	TCPNoFlagsSet TCPViolation = iota
	TCPSynAndFin
	TCPFinWithoutAck
)

// FTPViolation enumerates the ftp category.
type FTPViolation int

const (
	FTPImproperPort FTPViolation = iota // PORT command port outside 1024-65535
)

// Rules holds the seven disjoint violation categories as sets of active
// tags. A tag present in its set means the corresponding check is
// enforced; absent tags are simply never evaluated. Rules are constructed
// once at startup and never mutated at runtime (spec.md §3 "Lifecycles").
type Rules struct {
	IPHeader  map[IPHeaderViolation]struct{}
	IPOption  map[IPOptionViolation]struct{}
	Fragment  map[FragmentViolation]struct{}
	ICMP      map[ICMPViolation]struct{}
	UDP       map[UDPViolation]struct{}
	TCP       map[TCPViolation]struct{}
	FTP       map[FTPViolation]struct{}
}

// NewRules returns an empty rule set: no category enforces any check.
// Build one up with the With* helpers.
func NewRules() *Rules {
	return &Rules{
		IPHeader: make(map[IPHeaderViolation]struct{}),
		IPOption: make(map[IPOptionViolation]struct{}),
		Fragment: make(map[FragmentViolation]struct{}),
		ICMP:     make(map[ICMPViolation]struct{}),
		UDP:      make(map[UDPViolation]struct{}),
		TCP:      make(map[TCPViolation]struct{}),
		FTP:      make(map[FTPViolation]struct{}),
	}
}

// AllEnabled returns a rule set with every known violation tag active —
// the "block everything this detector knows how to recognize" posture.
func AllEnabled() *Rules {
	r := NewRules()
	for _, v := range []IPHeaderViolation{IPHeaderUnknownProtocol, IPHeaderLandAttack, IPHeaderShortHeader, IPHeaderMalformedLength} {
		r.IPHeader[v] = struct{}{}
	}
	for _, v := range []IPOptionViolation{IPOptionMalformed, IPOptionSecurity, IPOptionLooseRouting, IPOptionStrictRouting, IPOptionRecordRoute, IPOptionStreamID, IPOptionTimestamp} {
		r.IPOption[v] = struct{}{}
	}
	for _, v := range []FragmentViolation{FragmentLargeOffset, FragmentDuplicateOffset, FragmentMalformed} {
		r.Fragment[v] = struct{}{}
	}
	for _, v := range []ICMPViolation{ICMPSourceQuench, ICMPTimestampRequest, ICMPTimestampReply, ICMPInfoRequest, ICMPInfoReply, ICMPMaskRequest, ICMPMaskReply, ICMPTooLarge} {
		r.ICMP[v] = struct{}{}
	}
	for _, v := range []UDPViolation{UDPShortHeader, UDPBomb} {
		r.UDP[v] = struct{}{}
	}
	for _, v := range []TCPViolation{TCPNoFlagsSet, TCPSynAndFin, TCPFinWithoutAck} {
		r.TCP[v] = struct{}{}
	}
	r.FTP[FTPImproperPort] = struct{}{}
	return r
}
