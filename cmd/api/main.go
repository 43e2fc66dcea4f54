package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/config"
	"github.com/hamed0406/endpointkit/internal/httpapi"
	apimw "github.com/hamed0406/endpointkit/internal/httpapi/middleware"
	"github.com/hamed0406/endpointkit/internal/logging"
	"github.com/hamed0406/endpointkit/internal/notify"
	"github.com/hamed0406/endpointkit/internal/probe"
	"github.com/hamed0406/endpointkit/internal/repo"
	"github.com/hamed0406/endpointkit/internal/scheduler"
	"github.com/hamed0406/endpointkit/internal/selector"
	"github.com/hamed0406/endpointkit/internal/storage"
)

func main() {
	config.LoadDotEnv()
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel, cfg.LogConsole)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	engine, err := storage.NewEngine(cfg.StorageDriver, cfg.StorageDir, cfg.StorageDSN)
	if err != nil {
		logger.Fatal("storage_engine_error", zap.Error(err))
	}
	cache := storage.NewCache(engine, logger)
	records := storage.NewRecords(cache)
	defer func() {
		if err := records.Close(); err != nil {
			logger.Warn("storage_close_error", zap.Error(err))
		}
	}()
	state := repo.NewRecordBacked(records, cfg.SelectionDB, cfg.SelectionStore)

	prober := probe.NewHTTPProber(cfg.ProbeTimeout)
	prober.Path = cfg.ProbePath
	sel := selector.New(logger, probe.NewRunner(prober))
	sel.Resolver = &net.Resolver{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the selection store must exist before any record route can open its database
	if err := records.Prepare(ctx, cfg.SelectionDB, cfg.SelectionStore); err != nil {
		logger.Fatal("selection_store_error", zap.String("db", cfg.SelectionDB), zap.Error(err))
	}

	var notifier notify.Notifier = notify.Log{Logger: logger}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		notifier = notify.Multi{notifier, s}
	}
	announcer := scheduler.NewAnnouncer(state, notifier, logger, scheduler.AnnouncerConfig{
		Cooldown: cfg.NotifyCooldown,
	})
	reselector := scheduler.NewReselector(logger, sel, state, announcer, cfg.Endpoints, cfg.ReselectInterval)
	reselector.Debug = cfg.Debug
	go reselector.Run(ctx)

	api := httpapi.NewServer(logger, sel, records, state)
	api.ReservedDBs = []string{cfg.SelectionDB}
	api.RecordDBs = cfg.RecordDBs
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.String("storage", engine.Name),
		zap.Int("endpoints", len(cfg.Endpoints)),
		zap.Duration("reselect_interval", cfg.ReselectInterval),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("api_listen_error", zap.Error(err))
		return
	}
	logger.Info("api_stopped")
}
