// Command bridge runs the inline packet-processing bridge: it captures
// frames on an uplink and a TAP interface, classifies and filters them,
// buffers accepted packets into TimescaleDB, and re-injects matching
// packets on the opposite interface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/aida0710/rdb-tunnel-go/internal/capture"
	"github.com/aida0710/rdb-tunnel-go/internal/config"
	"github.com/aida0710/rdb-tunnel-go/internal/decode"
	"github.com/aida0710/rdb-tunnel-go/internal/dedup"
	"github.com/aida0710/rdb-tunnel-go/internal/firewall"
	"github.com/aida0710/rdb-tunnel-go/internal/idps"
	"github.com/aida0710/rdb-tunnel-go/internal/metrics"
	"github.com/aida0710/rdb-tunnel-go/internal/ratelimit"
	"github.com/aida0710/rdb-tunnel-go/internal/reader"
	"github.com/aida0710/rdb-tunnel-go/internal/scheduler"
	"github.com/aida0710/rdb-tunnel-go/internal/store"
	"github.com/aida0710/rdb-tunnel-go/internal/ttl"
	"github.com/aida0710/rdb-tunnel-go/internal/types"
	"github.com/aida0710/rdb-tunnel-go/internal/writer"
)

func main() {
	os.Exit(run())
}

func run() int {
	metricsAddr := pflag.String("metrics-addr", ":9100", "Prometheus metrics listen address")
	firewallMode := pflag.String("firewall-policy", "blacklist", "firewall policy: blacklist or whitelist")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, store.DefaultPoolSettings(
		cfg.TimescaleDBHost, cfg.TimescaleDBPort, cfg.TimescaleDBUser, cfg.TimescaleDBPassword, cfg.TimescaleDBDatabase,
	))
	if err != nil {
		logger.Error("failed to connect to backing store", slog.Any("error", err))
		return 1
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to initialize schema", slog.Any("error", err))
		return 1
	}
	repo := store.NewRepository(pool)

	reg := prometheus.NewRegistry()
	m := metrics.New()
	metrics.NewCollector(m, reg)

	policy := firewall.Blacklist
	if *firewallMode == "whitelist" {
		policy = firewall.Whitelist
	}
	fw := firewall.New(policy)

	detector := idps.New(idps.AllEnabled(), logger)
	arpRate := ratelimit.New()
	dedupCache := dedup.NewCache()
	ttlHandler := ttl.New(ttl.Default())
	decoder := decode.New()

	buf := writer.NewBuffer()
	w := writer.New(buf, repo, logger)

	uplink, err := capture.Open(cfg.DockerInterfaceName)
	if err != nil {
		logger.Error("failed to open uplink interface", slog.String("interface", cfg.DockerInterfaceName), slog.Any("error", err))
		return 1
	}
	defer uplink.Close()

	tap, err := capture.Open(cfg.TapInterfaceName)
	if err != nil {
		logger.Error("failed to open tap interface", slog.String("interface", cfg.TapInterfaceName), slog.Any("error", err))
		return 1
	}
	defer tap.Close()

	pipeline := capture.NewPipeline(decoder, detector, arpRate, dedupCache, ttlHandler, fw, buf, m, logger)

	sender, err := reader.NewPcapSender(cfg.TapInterfaceName)
	if err != nil {
		logger.Error("failed to open injection sender", slog.Any("error", err))
		return 1
	}
	defer sender.Close()

	localIP := parseLocalIP(cfg.TapIP)
	rd := reader.New(repo, sender, localIP, logger)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		logger.Info("metrics server listening", slog.String("addr", *metricsAddr))
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server exited", slog.Any("error", err))
		}
	}()

	sched := scheduler.New([]scheduler.Task{
		{
			Name: scheduler.PipelineCaptureWrite,
			Run: func(ctx context.Context) error {
				return capture.RunPair(ctx, uplink, tap, pipeline)
			},
		},
		{
			Name: scheduler.PipelineWriteFlush,
			Run:  w.Run,
		},
		{
			Name: scheduler.PipelineReadInject,
			Run:  rd.Run,
		},
	}, logger)

	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("bridge exited with error", slog.Any("error", err))
		return 1
	}

	logger.Info("bridge stopped", slog.String("metrics", m.FormatMetrics()))
	return 0
}

func parseLocalIP(cidr string) types.InetAddr {
	var a, b, c, d, mask int
	if _, err := fmt.Sscanf(cidr, "%d.%d.%d.%d/%d", &a, &b, &c, &d, &mask); err != nil {
		return types.InetAddr{}
	}
	return types.InetV4FromBytes(byte(a), byte(b), byte(c), byte(d))
}
