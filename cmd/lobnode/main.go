// Command lobnode runs a standalone order-book service: a per-symbol
// book.Book behind a registry.Registry, exposed over REST + WebSocket,
// with optional Prometheus metrics and periodic Pebble snapshotting.
//
// Grounded on cmd/node/main.go's startup/signal-handling shape, with
// the consensus/P2P/ABCI wiring replaced by the book stack.
package main

import (
	"context"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/uhyunpark/lobcore/params"
	"github.com/uhyunpark/lobcore/pkg/apiserver"
	"github.com/uhyunpark/lobcore/pkg/book"
	"github.com/uhyunpark/lobcore/pkg/book/registry"
	"github.com/uhyunpark/lobcore/pkg/feed"
	"github.com/uhyunpark/lobcore/pkg/metrics"
	"github.com/uhyunpark/lobcore/pkg/persist"
	"github.com/uhyunpark/lobcore/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("")

	// LOG_FILE mirrors the teacher's cmd/node/main.go: if set, logs go
	// to both console and the given file; otherwise console only.
	var logger *zap.Logger
	var err error
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		logger, err = util.NewLoggerWithFile(logFile)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	bookCfg := book.Config{
		IndexHint:     cfg.Pools.IndexHint,
		NodeSlabSize:  cfg.Pools.NodeSlabSize,
		LevelSlabSize: cfg.Pools.LevelSlabSize,
	}
	reg := registry.New(bookCfg)

	hub := feed.NewHub()
	go hub.Run()

	pub := feed.NewPublisher(hub, reg, cfg.SnapshotDepth, time.Second, util.RealClock{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pub.Run(ctx.Done())

	metricsReg := metrics.NewRegistry(prometheus.DefaultRegisterer)
	if cfg.Metrics.Enabled {
		go runMetricsSyncLoop(ctx, reg, metricsReg, time.Second)
		go func() {
			sugar.Infow("metrics_server_starting", "addr", cfg.Metrics.Addr)
			if err := serveMetrics(cfg.Metrics.Addr); err != nil {
				sugar.Errorw("metrics_server_failed", "err", err)
			}
		}()
	}

	var store *persist.Store
	if cfg.Persist.Enabled {
		store, err = persist.Open(cfg.Persist.DataDir)
		if err != nil {
			sugar.Fatalw("persist_open_failed", "err", err)
		}
		defer store.Close()
		go runPersistLoop(ctx, reg, store, cfg.Persist.Interval, sugar)
	}

	srv := apiserver.New(reg, hub, pub, metricsReg, logger, cfg.Server.AllowedOrigins)

	sugar.Infow("lobnode_starting",
		"api_addr", cfg.Server.APIAddr,
		"metrics_enabled", cfg.Metrics.Enabled,
		"persist_enabled", cfg.Persist.Enabled)

	go func() {
		if err := srv.ListenAndServe(cfg.Server.APIAddr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("lobnode_shutting_down")
}

func runPersistLoop(ctx context.Context, reg *registry.Registry, store *persist.Store, interval time.Duration, sugar *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, symbol := range reg.Symbols() {
				g, ok := reg.Lookup(symbol)
				if !ok {
					continue
				}
				bids, asks := g.GetSnapshot(math.MaxInt32)
				if err := store.Save(persist.Snapshot{Symbol: symbol, Bids: bids, Asks: asks}); err != nil {
					sugar.Errorw("snapshot_save_failed", "symbol", symbol, "err", err)
				}
			}
		}
	}
}

// runMetricsSyncLoop refreshes every symbol's gauges on a timer. The
// counters (adds/cancels/amends/rejects) are updated directly by
// apiserver's handlers as requests land; this loop only keeps the
// point-in-time gauges (active orders, level counts, spread) current.
func runMetricsSyncLoop(ctx context.Context, reg *registry.Registry, metricsReg *metrics.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, symbol := range reg.Symbols() {
				g, ok := reg.Lookup(symbol)
				if !ok {
					continue
				}
				metricsReg.ForSymbol(symbol).Sync(g.Stats())
			}
		}
	}
}

func serveMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return http.ListenAndServe(addr, mux)
}
