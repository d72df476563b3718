// Package reader implements the packet reader/injector (C8): a 500ms poll
// of the backing store for packets destined back out a local interface,
// grounded on spec.md §4.8.
package reader

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/store"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

const (
	pollInterval  = 500 * time.Millisecond
	maxRawSize    = 1500
	tunnelPrefix  = "192.168.0.0/24"
	broadcastAddr = "255.255.255.255"
)

// Querier is the store-facing dependency: time-bounded admissible-row
// lookup. internal/store.Repository satisfies this.
type Querier interface {
	QueryInjectable(ctx context.Context, localIP types.InetAddr, maxSize int, pred store.TimePredicate) ([]packet.Packet, error)
}

// Sender emits a raw frame on the configured egress interface.
type Sender interface {
	Send(frame []byte) error
}

// Reader polls Querier every 500ms and emits admitted rows through Sender.
type Reader struct {
	querier Querier
	sender  Sender
	localIP types.InetAddr
	log     *slog.Logger

	tunnelNet *net.IPNet

	firstTick bool
	watermark time.Time

	Sent, Failed uint64
}

// New builds a Reader targeting localIP as the admission address.
func New(querier Querier, sender Sender, localIP types.InetAddr, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	_, tunnelNet, _ := net.ParseCIDR(tunnelPrefix)
	return &Reader{
		querier:   querier,
		sender:    sender,
		localIP:   localIP,
		log:       log,
		tunnelNet: tunnelNet,
		firstTick: true,
	}
}

// Run polls every 500ms until ctx is cancelled.
func (r *Reader) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Reader) tick(ctx context.Context) {
	pred := r.predicate()

	rows, err := r.querier.QueryInjectable(ctx, r.localIP, maxRawSize, pred)
	if err != nil {
		r.log.Error("reader query failed", slog.Any("error", err))
		return
	}

	r.firstTick = false
	if len(rows) == 0 {
		r.watermark = time.Now()
		return
	}
	r.watermark = rows[len(rows)-1].Timestamp

	for _, pkt := range rows {
		if len(pkt.Raw) > maxRawSize {
			r.Failed++
			continue
		}
		if !r.admitted(pkt) {
			continue
		}
		if err := r.sender.Send(pkt.Raw); err != nil {
			r.Failed++
			r.log.Warn("inject send failed", slog.Any("error", err))
			continue
		}
		r.Sent++
	}
}

func (r *Reader) predicate() store.TimePredicate {
	if r.firstTick {
		return store.FirstTickPredicate()
	}
	if !r.watermark.IsZero() {
		return store.SinceWatermarkPredicate(r.watermark)
	}
	return store.NoWatermarkPredicate()
}

// admitted applies the tunnel-prefix / local-IP / broadcast / multicast
// admission rule per spec.md §4.8, beyond the store query's own dst_ip
// predicate (defense against a reader fed from a pre-filtered source).
func (r *Reader) admitted(pkt packet.Packet) bool {
	ip := pkt.DstIP.IP()
	if ip == nil {
		return false
	}
	if r.tunnelNet != nil && r.tunnelNet.Contains(ip) {
		return true
	}
	if pkt.DstIP.Equal(r.localIP) {
		return true
	}
	if ip.String() == broadcastAddr {
		return true
	}
	if ip.IsMulticast() {
		return true
	}
	return false
}
