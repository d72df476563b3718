package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/timing"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

const (
	columnsPerRow = 11
	insertChunk   = 1000
)

// Repository is the writer's (C7) and reader's (C8) only admission point
// to the backing store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps an already-connected pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BulkInsert writes packets in chunks of 1000 rows per statement, as a
// single parameterized INSERT per chunk.
func (r *Repository) BulkInsert(ctx context.Context, packets []packet.Packet) error {
	for start := 0; start < len(packets); start += insertChunk {
		end := start + insertChunk
		if end > len(packets) {
			end = len(packets)
		}
		if err := r.insertChunk(ctx, packets[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) insertChunk(ctx context.Context, chunk []packet.Packet) error {
	defer timing.Track(slog.Default(), "bulk insert chunk")()

	var sb strings.Builder
	sb.WriteString(`INSERT INTO packets (src_mac, dst_mac, ether_type, src_ip, dst_ip, src_port, dst_port, ip_protocol, timestamp, data, raw_packet) VALUES `)

	args := make([]any, 0, len(chunk)*columnsPerRow)
	for i, pkt := range chunk {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * columnsPerRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11)
		args = append(args,
			pkt.SrcMAC.String(),
			pkt.DstMAC.String(),
			int32(pkt.EtherType),
			pkt.SrcIP.String(),
			pkt.DstIP.String(),
			int32(pkt.SrcPort),
			int32(pkt.DstPort),
			int32(pkt.IPProtocol),
			pkt.Timestamp,
			pkt.Data,
			pkt.Raw,
		)
	}

	if _, err := r.pool.Exec(ctx, sb.String(), args...); err != nil {
		return newError(KindQuery, "bulk inserting packets", err)
	}
	return nil
}

// TimePredicate selects which time-bound variant to apply to QueryInjectable.
type TimePredicate struct {
	sql string
	arg any
}

// FirstTickPredicate bounds results to the last 30 seconds, used on the
// reader's first poll tick.
func FirstTickPredicate() TimePredicate {
	return TimePredicate{sql: "timestamp >= NOW() - INTERVAL '30 seconds'"}
}

// SinceWatermarkPredicate bounds results to strictly after last.
func SinceWatermarkPredicate(last time.Time) TimePredicate {
	return TimePredicate{sql: "timestamp > $3", arg: last}
}

// NoWatermarkPredicate bounds results to the last 5 seconds, used when no
// watermark has been recorded yet.
func NoWatermarkPredicate() TimePredicate {
	return TimePredicate{sql: "timestamp >= NOW() - INTERVAL '5 seconds'"}
}

// QueryInjectable returns rows admissible for re-injection per §4.8:
// destination matches localIP, broadcast, or 224.0.0.0/4 multicast, raw
// size within maxSize, bounded by pred, ordered ascending by timestamp.
func (r *Repository) QueryInjectable(ctx context.Context, localIP types.InetAddr, maxSize int, pred TimePredicate) ([]packet.Packet, error) {
	query := fmt.Sprintf(`SELECT src_mac, dst_mac, ether_type, src_ip, dst_ip, src_port, dst_port, ip_protocol, timestamp, data, raw_packet
FROM packets
WHERE length(raw_packet) <= $1
AND (dst_ip = $2 OR dst_ip = '255.255.255.255' OR dst_ip << '224.0.0.0/4')
AND %s
ORDER BY timestamp ASC`, pred.sql)

	args := []any{maxSize, localIP.String()}
	if pred.arg != nil {
		args = append(args, pred.arg)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, newError(KindQuery, "querying injectable packets", err)
	}
	defer rows.Close()

	var out []packet.Packet
	for rows.Next() {
		pkt, err := scanPacket(rows)
		if err != nil {
			return nil, newError(KindQuery, "scanning packet row", err)
		}
		out = append(out, pkt)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(KindQuery, "iterating packet rows", err)
	}
	return out, nil
}

func scanPacket(rows pgx.Rows) (packet.Packet, error) {
	var (
		srcMAC, dstMAC   string
		etherType        int32
		srcIP, dstIP     string
		srcPort, dstPort int32
		ipProtocol       int32
		timestamp        time.Time
		data, raw        []byte
	)
	if err := rows.Scan(&srcMAC, &dstMAC, &etherType, &srcIP, &dstIP, &srcPort, &dstPort, &ipProtocol, &timestamp, &data, &raw); err != nil {
		return packet.Packet{}, err
	}

	return packet.Packet{
		SrcMAC:     parseMAC(srcMAC),
		DstMAC:     parseMAC(dstMAC),
		EtherType:  types.NewEtherType(uint16(etherType)),
		SrcIP:      parseInet(srcIP),
		DstIP:      parseInet(dstIP),
		SrcPort:    uint16(srcPort),
		DstPort:    uint16(dstPort),
		IPProtocol: types.NewIPProtocol(uint8(ipProtocol)),
		Timestamp:  timestamp,
		Data:       data,
		Raw:        raw,
	}, nil
}
