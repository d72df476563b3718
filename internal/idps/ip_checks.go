package idps

import "encoding/binary"

// IPv4 option kind numbers (RFC 791 / IANA "IP Option Numbers").
const (
	optEnd           = 0
	optNOP           = 1
	optSecurity      = 0x82
	optLooseRouting  = 0x83 // LSRR
	optRecordRoute   = 0x07
	optStreamID      = 0x88
	optStrictRouting = 0x89 // SSRR
	optTimestamp     = 0x44
)

// ipv4Violations runs the ip-header, ip-option, and fragment checks against
// the IPv4 header found at frame[14:]. frame must be at least 34 bytes
// (Ethernet header + minimum IPv4 header); callers check that before
// calling in.
func (d *Detector) ipv4Violations(frame []byte) (violation string, rejected bool) {
	ip := frame[14:]
	ihl := int(ip[0]&0x0F) * 4
	protocol := ip[9]
	totalLength := int(binary.BigEndian.Uint16(ip[2:4]))
	srcIP := [4]byte{ip[12], ip[13], ip[14], ip[15]}
	dstIP := [4]byte{ip[16], ip[17], ip[18], ip[19]}

	if enabled(d.rules.IPHeader, IPHeaderUnknownProtocol) && protocol >= 143 {
		return "ip-header: unknown protocol", true
	}
	if enabled(d.rules.IPHeader, IPHeaderLandAttack) && srcIP == dstIP {
		return "ip-header: LAND attack (src == dst)", true
	}
	if enabled(d.rules.IPHeader, IPHeaderShortHeader) && ihl < 20 {
		return "ip-header: declared IHL shorter than minimum header", true
	}
	if enabled(d.rules.IPHeader, IPHeaderMalformedLength) && totalLength != len(ip) {
		return "ip-header: total length field does not match actual length", true
	}

	if ihl > 20 && ihl <= len(ip) {
		if v, bad := d.ipOptionViolations(ip[20:ihl]); bad {
			return v, true
		}
	}

	if v, bad := d.fragmentViolations(ip, srcIP, dstIP); bad {
		return v, true
	}

	return "", false
}

// ipOptionViolations walks the IPv4 options area as a TLV stream.
func (d *Detector) ipOptionViolations(options []byte) (violation string, rejected bool) {
	i := 0
	for i < len(options) {
		kind := options[i]
		switch kind {
		case optEnd:
			return "", false
		case optNOP:
			i++
			continue
		}

		if i+1 >= len(options) {
			if enabled(d.rules.IPOption, IPOptionMalformed) {
				return "ip-option: truncated option", true
			}
			return "", false
		}
		length := int(options[i+1])
		if length < 2 || i+length > len(options) {
			if enabled(d.rules.IPOption, IPOptionMalformed) {
				return "ip-option: malformed option length", true
			}
			return "", false
		}

		switch kind {
		case optSecurity:
			if enabled(d.rules.IPOption, IPOptionSecurity) {
				return "ip-option: security option present", true
			}
		case optLooseRouting:
			if enabled(d.rules.IPOption, IPOptionLooseRouting) {
				return "ip-option: loose source routing present", true
			}
		case optStrictRouting:
			if enabled(d.rules.IPOption, IPOptionStrictRouting) {
				return "ip-option: strict source routing present", true
			}
		case optRecordRoute:
			if enabled(d.rules.IPOption, IPOptionRecordRoute) {
				return "ip-option: record route present", true
			}
		case optStreamID:
			if enabled(d.rules.IPOption, IPOptionStreamID) {
				return "ip-option: stream identifier present", true
			}
		case optTimestamp:
			if enabled(d.rules.IPOption, IPOptionTimestamp) {
				return "ip-option: internet timestamp present", true
			}
		}

		i += length
	}
	return "", false
}

// fragmentViolations checks the flags/fragment-offset field at ip[6:8].
// DuplicateOffset relies on Detector's small bounded last-fragment cache
// since the fragment check is otherwise stateless (spec.md Non-goals rule
// out full per-flow reassembly state).
func (d *Detector) fragmentViolations(ip []byte, srcIP, dstIP [4]byte) (violation string, rejected bool) {
	flagsAndOffset := binary.BigEndian.Uint16(ip[6:8])
	moreFragments := flagsAndOffset&0x2000 != 0
	offset := int(flagsAndOffset & 0x1FFF)
	totalLength := int(binary.BigEndian.Uint16(ip[2:4]))
	ihl := int(ip[0]&0x0F) * 4

	if offset == 0 && !moreFragments {
		return "", false // not a fragment
	}

	if enabled(d.rules.Fragment, FragmentLargeOffset) && offset*8+totalLength > 65535 {
		return "fragment: offset would overflow reassembled datagram", true
	}
	if enabled(d.rules.Fragment, FragmentMalformed) && moreFragments && totalLength <= ihl {
		return "fragment: zero-length fragment with MF set", true
	}
	if enabled(d.rules.Fragment, FragmentDuplicateOffset) && d.seenDuplicateFragment(srcIP, dstIP, offset) {
		return "fragment: duplicate offset observed", true
	}
	return "", false
}
