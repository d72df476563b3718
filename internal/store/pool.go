// Package store is the TimescaleDB/Postgres backing store for decoded
// packets (C7's admission point and C8's query source), grounded on the
// original's database/pool.rs and packet_repository.rs, rendered over
// github.com/jackc/pgx/v5/pgxpool.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolSettings mirrors the original bb8 pool configuration's knobs.
type PoolSettings struct {
	Host     string
	Port     uint16
	User     string
	Password string
	Database string

	MaxSize           int32
	MinIdle           int32
	ConnectionTimeout time.Duration
	IdleTimeout       time.Duration
	MaxLifetime       time.Duration
}

// DefaultPoolSettings returns the shape carried over from the original's
// bb8 configuration (max_size 50, min_idle 8, connection_timeout 5s,
// idle_timeout 60s, max_lifetime 3600s).
func DefaultPoolSettings(host string, port uint16, user, password, database string) PoolSettings {
	return PoolSettings{
		Host:              host,
		Port:              port,
		User:              user,
		Password:          password,
		Database:          database,
		MaxSize:           50,
		MinIdle:           8,
		ConnectionTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxLifetime:       3600 * time.Second,
	}
}

// NewPool builds and connects a pgxpool.Pool per the given settings.
func NewPool(ctx context.Context, settings PoolSettings) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		settings.User, settings.Password, settings.Host, settings.Port, settings.Database)

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, newError(KindInitialization, "parsing pool configuration", err)
	}

	cfg.MaxConns = settings.MaxSize
	cfg.MinConns = settings.MinIdle
	cfg.MaxConnIdleTime = settings.IdleTimeout
	cfg.MaxConnLifetime = settings.MaxLifetime
	cfg.ConnConfig.ConnectTimeout = settings.ConnectionTimeout

	connectCtx, cancel := context.WithTimeout(ctx, settings.ConnectionTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, newError(KindConnection, "establishing pool", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, newError(KindConnection, "pinging pool", err)
	}
	return pool, nil
}
