package idps

import (
	"bytes"
	"encoding/binary"
	"strconv"
)

const (
	icmpSourceQuench     = 4
	icmpTimestampRequest = 13
	icmpTimestampReply   = 14
	icmpInfoRequest      = 15
	icmpInfoReply        = 16
	icmpMaskRequest      = 17
	icmpMaskReply        = 18
)

// icmpViolations checks an ICMP message starting at icmp[0:].
func (d *Detector) icmpViolations(icmp []byte) (violation string, rejected bool) {
	if len(icmp) == 0 {
		return "", false
	}
	switch icmp[0] {
	case icmpSourceQuench:
		if enabled(d.rules.ICMP, ICMPSourceQuench) {
			return "icmp: source quench", true
		}
	case icmpTimestampRequest:
		if enabled(d.rules.ICMP, ICMPTimestampRequest) {
			return "icmp: timestamp request", true
		}
	case icmpTimestampReply:
		if enabled(d.rules.ICMP, ICMPTimestampReply) {
			return "icmp: timestamp reply", true
		}
	case icmpInfoRequest:
		if enabled(d.rules.ICMP, ICMPInfoRequest) {
			return "icmp: information request", true
		}
	case icmpInfoReply:
		if enabled(d.rules.ICMP, ICMPInfoReply) {
			return "icmp: information reply", true
		}
	case icmpMaskRequest:
		if enabled(d.rules.ICMP, ICMPMaskRequest) {
			return "icmp: address mask request", true
		}
	case icmpMaskReply:
		if enabled(d.rules.ICMP, ICMPMaskReply) {
			return "icmp: address mask reply", true
		}
	}
	if enabled(d.rules.ICMP, ICMPTooLarge) && len(icmp) > 1024 {
		return "icmp: message exceeds 1024 bytes", true
	}
	return "", false
}

// udpViolations checks a UDP datagram starting at udp[0:]. udp must be at
// least 8 bytes (the fixed UDP header).
func (d *Detector) udpViolations(udp []byte) (violation string, rejected bool) {
	if len(udp) < 8 {
		return "", false
	}
	length := int(binary.BigEndian.Uint16(udp[4:6]))

	if enabled(d.rules.UDP, UDPShortHeader) && length < 8 {
		return "udp: length field shorter than header", true
	}
	if enabled(d.rules.UDP, UDPBomb) && length > len(udp) {
		return "udp: length field exceeds packet size", true
	}
	return "", false
}

// tcpViolations checks a TCP segment starting at tcp[0:]. tcp must be at
// least 14 bytes so the flags octet at offset 13 is present.
func (d *Detector) tcpViolations(tcp []byte) (violation string, rejected bool) {
	if len(tcp) < 14 {
		return "", false
	}
	flags := tcp[13]
	const (
		finBit = 0x01
		synBit = 0x02
		ackBit = 0x10
	)

	if enabled(d.rules.TCP, TCPNoFlagsSet) && flags == 0 {
		return "tcp: no flags set", true
	}
	if enabled(d.rules.TCP, TCPSynAndFin) && flags&synBit != 0 && flags&finBit != 0 {
		return "tcp: SYN and FIN set simultaneously", true
	}
	if enabled(d.rules.TCP, TCPFinWithoutAck) && flags&finBit != 0 && flags&ackBit == 0 {
		return "tcp: FIN without ACK", true
	}
	return "", false
}

var ftpPortCommand = []byte("PORT ")

// ftpViolations inspects an FTP control-channel payload for a PORT command
// and validates the encoded port is within 1024-65535.
func (d *Detector) ftpViolations(data []byte) (violation string, rejected bool) {
	if !enabled(d.rules.FTP, FTPImproperPort) {
		return "", false
	}
	idx := bytes.Index(data, ftpPortCommand)
	if idx < 0 {
		return "", false
	}

	rest := bytes.TrimRight(data[idx+len(ftpPortCommand):], "\r\n")
	fields := bytes.Split(rest, []byte(","))
	if len(fields) != 6 {
		return "", false
	}
	p1, err1 := strconv.Atoi(string(bytes.TrimSpace(fields[4])))
	p2, err2 := strconv.Atoi(string(bytes.TrimSpace(fields[5])))
	if err1 != nil || err2 != nil {
		return "", false
	}
	port := p1*256 + p2
	if port < 1024 || port > 65535 {
		return "ftp: PORT command specifies port outside 1024-65535", true
	}
	return "", false
}
