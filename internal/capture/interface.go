// Package capture implements the interface handler (C9): live frame
// capture on a named NIC via libpcap, feeding a bounded channel that
// provides backpressure into the processing pipeline. Grounded on
// examples/capture/main.go's gopacket/pcapgo capture loop, adapted from
// Windows NDIS adapters to Linux pcap devices.
package capture

import (
	"github.com/google/gopacket/pcap"
)

// queueDepth is the bound on the channel between the capture goroutine
// and the processing goroutine (spec.md §4.9).
const queueDepth = 1000

// Interface opens a live capture handle on a named NIC.
type Interface struct {
	name   string
	handle *pcap.Handle
}

// Open opens iface for promiscuous live capture.
func Open(iface string) (*Interface, error) {
	handle, err := pcap.OpenLive(iface, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, err
	}
	return &Interface{name: iface, handle: handle}, nil
}

// Close releases the underlying pcap handle.
func (i *Interface) Close() {
	i.handle.Close()
}

// Frames returns a bounded channel of depth 1000 fed by a dedicated
// capture goroutine; it is closed when the capture goroutine exits,
// which happens when ctxDone fires or the handle errors.
func (i *Interface) Frames(ctxDone <-chan struct{}) (<-chan []byte, <-chan error) {
	frames := make(chan []byte, queueDepth)
	errc := make(chan error, 1)

	go func() {
		defer close(frames)
		for {
			data, _, err := i.handle.ReadPacketData()
			if err != nil {
				select {
				case errc <- err:
				default:
				}
				return
			}

			frame := make([]byte, len(data))
			copy(frame, data)

			select {
			case frames <- frame:
			case <-ctxDone:
				return
			}
		}
	}()

	return frames, errc
}
