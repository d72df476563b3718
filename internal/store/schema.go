package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createPacketsTable = `
CREATE TABLE IF NOT EXISTS packets (
	src_mac     macaddr       NOT NULL,
	dst_mac     macaddr       NOT NULL,
	ether_type  int4          NOT NULL,
	src_ip      inet          NOT NULL,
	dst_ip      inet          NOT NULL,
	src_port    int4          NOT NULL,
	dst_port    int4          NOT NULL,
	ip_protocol int4          NOT NULL,
	timestamp   timestamptz   NOT NULL,
	data        bytea         NOT NULL,
	raw_packet  bytea         NOT NULL
);`

const createTimestampIndex = `
CREATE INDEX IF NOT EXISTS packets_timestamp_idx ON packets (timestamp);`

// EnsureSchema creates the packets table and its timestamp index if
// absent. Called once at startup; safe to call repeatedly.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createPacketsTable); err != nil {
		return newError(KindInitialization, "creating packets table", err)
	}
	if _, err := pool.Exec(ctx, createTimestampIndex); err != nil {
		return newError(KindInitialization, "creating timestamp index", err)
	}
	return nil
}
