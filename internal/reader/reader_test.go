package reader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
	"github.com/aida0710/rdb-tunnel-go/internal/store"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
)

type fakeQuerier struct {
	rows []packet.Packet
	err  error
	preds []store.TimePredicate
}

func (f *fakeQuerier) QueryInjectable(_ context.Context, _ types.InetAddr, _ int, pred store.TimePredicate) ([]packet.Packet, error) {
	f.preds = append(f.preds, pred)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeSender struct {
	sent [][]byte
	err  error
}

func (f *fakeSender) Send(frame []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, frame)
	return nil
}

func newTestReader(q Querier, s Sender, localIP types.InetAddr) *Reader {
	return New(q, s, localIP, nil)
}

func TestFirstTickUsesFirstTickPredicate(t *testing.T) {
	q := &fakeQuerier{}
	r := newTestReader(q, &fakeSender{}, types.InetV4FromBytes(10, 0, 0, 1))

	r.tick(context.Background())
	require.Len(t, q.preds, 1)
	assert.Equal(t, store.FirstTickPredicate(), q.preds[0])
	assert.False(t, r.firstTick)
}

func TestSubsequentTickUsesWatermark(t *testing.T) {
	q := &fakeQuerier{rows: []packet.Packet{{Timestamp: time.Unix(100, 0), DstIP: types.InetV4FromBytes(10, 0, 0, 1), Raw: []byte{1, 2, 3}}}}
	r := newTestReader(q, &fakeSender{}, types.InetV4FromBytes(10, 0, 0, 1))

	r.tick(context.Background())
	q.rows = nil
	r.tick(context.Background())

	require.Len(t, q.preds, 2)
	assert.Equal(t, store.SinceWatermarkPredicate(time.Unix(100, 0)), q.preds[1])
}

func TestTickSendsAdmittedRows(t *testing.T) {
	local := types.InetV4FromBytes(10, 0, 0, 1)
	q := &fakeQuerier{rows: []packet.Packet{
		{Timestamp: time.Now(), DstIP: local, Raw: []byte{1, 2, 3}},
	}}
	s := &fakeSender{}
	r := newTestReader(q, s, local)

	r.tick(context.Background())
	assert.Equal(t, uint64(1), r.Sent)
	assert.Len(t, s.sent, 1)
}

func TestTickSkipsOversizedRows(t *testing.T) {
	local := types.InetV4FromBytes(10, 0, 0, 1)
	oversized := make([]byte, maxRawSize+1)
	q := &fakeQuerier{rows: []packet.Packet{{Timestamp: time.Now(), DstIP: local, Raw: oversized}}}
	s := &fakeSender{}
	r := newTestReader(q, s, local)

	r.tick(context.Background())
	assert.Equal(t, uint64(1), r.Failed)
	assert.Empty(t, s.sent)
}

func TestTickSkipsUnadmittedRows(t *testing.T) {
	local := types.InetV4FromBytes(10, 0, 0, 1)
	other := types.InetV4FromBytes(8, 8, 8, 8)
	q := &fakeQuerier{rows: []packet.Packet{{Timestamp: time.Now(), DstIP: other, Raw: []byte{1}}}}
	s := &fakeSender{}
	r := newTestReader(q, s, local)

	r.tick(context.Background())
	assert.Empty(t, s.sent)
	assert.Equal(t, uint64(0), r.Sent)
}

func TestTickCountsFailedSends(t *testing.T) {
	local := types.InetV4FromBytes(10, 0, 0, 1)
	q := &fakeQuerier{rows: []packet.Packet{{Timestamp: time.Now(), DstIP: local, Raw: []byte{1}}}}
	s := &fakeSender{err: errors.New("send failed")}
	r := newTestReader(q, s, local)

	r.tick(context.Background())
	assert.Equal(t, uint64(1), r.Failed)
}

func TestAdmittedTunnelPrefix(t *testing.T) {
	r := newTestReader(&fakeQuerier{}, &fakeSender{}, types.InetV4FromBytes(1, 1, 1, 1))
	pkt := packet.Packet{DstIP: types.InetV4FromBytes(192, 168, 0, 42)}
	assert.True(t, r.admitted(pkt))
}

func TestAdmittedBroadcast(t *testing.T) {
	r := newTestReader(&fakeQuerier{}, &fakeSender{}, types.InetV4FromBytes(1, 1, 1, 1))
	pkt := packet.Packet{DstIP: types.InetV4FromBytes(255, 255, 255, 255)}
	assert.True(t, r.admitted(pkt))
}

func TestAdmittedMulticast(t *testing.T) {
	r := newTestReader(&fakeQuerier{}, &fakeSender{}, types.InetV4FromBytes(1, 1, 1, 1))
	pkt := packet.Packet{DstIP: types.InetV4FromBytes(224, 0, 0, 5)}
	assert.True(t, r.admitted(pkt))
}

func TestAdmittedRejectsUnrelatedAddress(t *testing.T) {
	r := newTestReader(&fakeQuerier{}, &fakeSender{}, types.InetV4FromBytes(1, 1, 1, 1))
	pkt := packet.Packet{DstIP: types.InetV4FromBytes(8, 8, 8, 8)}
	assert.False(t, r.admitted(pkt))
}
