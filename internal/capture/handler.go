package capture

import (
	"context"
	"log/slog"

	"github.com/aida0710/rdb-tunnel-go/internal/decode"
	"github.com/aida0710/rdb-tunnel-go/internal/dedup"
	"github.com/aida0710/rdb-tunnel-go/internal/firewall"
	"github.com/aida0710/rdb-tunnel-go/internal/idps"
	"github.com/aida0710/rdb-tunnel-go/internal/metrics"
	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/ratelimit"
	"github.com/aida0710/rdb-tunnel-go/internal/ttl"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

// Sink receives packets that survive the full pipeline, for admission
// into the write buffer (C7).
type Sink interface {
	Push(pkt packet.Packet)
}

// Pipeline wires the C1 decoder through IDPS, ARP rate limiting, dedup,
// TTL rewrite and the C6 firewall, writing survivors to a Sink.
type Pipeline struct {
	decoder  *decode.Decoder
	detector *idps.Detector
	arpRate  *ratelimit.ArpController
	dedup    *dedup.Cache
	ttl      *ttl.Handler
	fw       *firewall.Firewall
	sink     Sink
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewPipeline builds a Pipeline from its component stages. Any of detector,
// arpRate, dedup, ttlHandler, or fw may be nil to skip that stage.
func NewPipeline(decoder *decode.Decoder, detector *idps.Detector, arpRate *ratelimit.ArpController, dedupCache *dedup.Cache, ttlHandler *ttl.Handler, fw *firewall.Firewall, sink Sink, m *metrics.Metrics, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		decoder:  decoder,
		detector: detector,
		arpRate:  arpRate,
		dedup:    dedupCache,
		ttl:      ttlHandler,
		fw:       fw,
		sink:     sink,
		metrics:  m,
		log:      log,
	}
}

// Process runs one frame through the full pipeline. frame is mutated in
// place by the TTL stage.
func (p *Pipeline) Process(frame []byte) {
	p.metrics.IncTotal()

	pkt := p.decoder.Decode(frame)
	if pkt.IsEmpty() {
		p.metrics.IncParseErrors()
		p.metrics.IncDropped()
		return
	}

	switch pkt.EtherType {
	case types.EtherTypeIPv4:
		p.metrics.IncIPv4()
	case types.EtherTypeIPv6:
		p.metrics.IncIPv6()
	case types.EtherTypeARP:
		p.metrics.IncARP()
	}
	switch pkt.IPProtocol {
	case types.IPProtoTCP:
		p.metrics.IncTCP()
	case types.IPProtoUDP:
		p.metrics.IncUDP()
	case types.IPProtoICMP, types.IPProtoICMPv6:
		p.metrics.IncICMP()
	}

	if pkt.EtherType == types.EtherTypeARP {
		if p.detector != nil && p.detector.CheckARP(frame) == idps.Reject {
			p.metrics.IncDropped()
			return
		}
		if p.arpRate != nil && !p.arpRate.ShouldProcess(pkt.SrcIP.IP(), pkt.DstIP.IP()) {
			p.metrics.IncDropped()
			return
		}
	} else if p.detector != nil {
		if p.detector.Check(frame, pkt) == idps.Reject {
			p.metrics.IncDropped()
			return
		}
	}

	if p.dedup != nil && p.dedup.Seen(pkt.SrcIP.IP(), pkt.DstIP.IP(), pkt.Raw) {
		p.metrics.IncDropped()
		return
	}

	if p.ttl != nil && !p.ttl.Process(frame) {
		p.metrics.IncDropped()
		return
	}
	// frame's TTL/checksum bytes were rewritten in place; re-decode so the
	// packet handed downstream reflects the rewritten frame.
	if p.ttl != nil {
		pkt = p.decoder.Decode(frame)
	}

	if p.fw != nil && p.fw.Check(pkt) == firewall.Deny {
		p.metrics.IncBlocked()
		p.metrics.IncDropped()
		return
	}
	p.metrics.IncAllowed()

	p.sink.Push(pkt)
	p.metrics.IncProcessed()
}

// Run reads frames from ch and processes each until ch closes or ctx is
// cancelled.
func (p *Pipeline) Run(ctx context.Context, ch <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-ch:
			if !ok {
				return
			}
			p.Process(frame)
		}
	}
}
