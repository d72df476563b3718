package reader

import (
	"github.com/google/gopacket/pcap"
)

// PcapSender emits raw frames verbatim on a live pcap handle, satisfying
// Sender. Frames are never re-encoded: the stored raw_packet bytes go
// straight to the wire.
type PcapSender struct {
	handle *pcap.Handle
}

// NewPcapSender opens iface for writing.
func NewPcapSender(iface string) (*PcapSender, error) {
	handle, err := pcap.OpenLive(iface, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, err
	}
	return &PcapSender{handle: handle}, nil
}

// Send writes frame to the wire unchanged.
func (s *PcapSender) Send(frame []byte) error {
	return s.handle.WritePacketData(frame)
}

// Close releases the underlying pcap handle.
func (s *PcapSender) Close() {
	s.handle.Close()
}
