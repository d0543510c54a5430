package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avesta/hackboard/internal/adapters/deposit"
	"github.com/avesta/hackboard/internal/adapters/http/api"
	"github.com/avesta/hackboard/internal/adapters/http/swagger"
	"github.com/avesta/hackboard/internal/adapters/notify"
	"github.com/avesta/hackboard/internal/adapters/store"
	"github.com/avesta/hackboard/internal/app"
	"github.com/avesta/hackboard/internal/config"
	"github.com/avesta/hackboard/pkg/logger"
	"github.com/avesta/hackboard/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	gateway, err := buildGateway(cfg)
	if err != nil {
		log.Error(ctx, "failed to open event store", logger.Error(err))
		return
	}

	dep, err := deposit.NewDiskDeposit(cfg.DepositDir, deposit.WithBaseURL(cfg.DepositBaseURL))
	if err != nil {
		log.Error(ctx, "failed to open file deposit", logger.Error(err))
		return
	}

	dispatcher := notify.NewDispatcher(
		notify.NewLogMailer(logger.Named("mailer")),
		notify.WithQueueSize(cfg.NotifyQueueSize),
		notify.WithWorkerCount(cfg.NotifyWorkerCount),
		notify.WithLogger(logger.Named("notify")),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithGateway(gateway),
		app.WithDeposit(dep),
		app.WithDispatcher(dispatcher),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	// Serve uploaded submission documents.
	mux.Handle("GET "+cfg.DepositBaseURL+"/",
		http.StripPrefix(cfg.DepositBaseURL+"/", http.FileServer(http.Dir(dep.Dir()))))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr),
			logger.String("store_backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	if err := gateway.Close(); err != nil {
		log.Error(ctx, "event store close failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildGateway opens the configured event store backend.
func buildGateway(cfg *config.Config) (store.Gateway, error) {
	if cfg.StoreBackend == "sqlite" {
		return store.OpenSQLite(cfg.SQLitePath)
	}
	return store.NewMemoryGateway(), nil
}

// startServiceMetricsUpdater periodically folds service stats into gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if totalEvents, ok := stats["totalEvents"].(int); ok {
		metrics.UpdateTotalEvents(totalEvents)
	}
}
