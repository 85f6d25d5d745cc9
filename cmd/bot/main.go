package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SignalDesk/internal/config"
	"SignalDesk/internal/ledger"
	"SignalDesk/internal/logger"
	"SignalDesk/internal/metrics"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/quota"
	"SignalDesk/internal/scheduler"
	"SignalDesk/internal/session"
	"SignalDesk/internal/store"
	"SignalDesk/internal/strategy"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		zlog.Fatal().Err(err).Msg("config validation")
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		zlog.Fatal().Err(err).Msg("init logger")
	}
	log.Info().Str("store", cfg.Store.Driver).Int("assets", len(cfg.Assets)).Msg("SignalDesk starting")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init quota state store
	st, err := store.Open(cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	policy := quota.Policy{
		ResetInterval: cfg.Quota.ResetInterval,
		EliteCode:     cfg.Quota.EliteCode,
		VIPCode:       cfg.Quota.VIPCode,
	}
	qm, err := quota.NewManager(ctx, st, policy, time.Now(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init quota manager")
	}

	rec := metrics.New()
	if cfg.Metrics.Listen != "" {
		srv := startMetricsServer(cfg.Metrics, rec, log)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sess := session.New(
		qm,
		strategy.NewEngine(strategy.NewRandom(0)),
		ledger.New(cfg.Ledger.MaxEntries),
		rec,
		log,
	)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sess, cfg, tn, log)
	if err := sched.RegisterAll(cfg.Quota.CheckCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("Telegram polling started")

	log.Info().Msg("SignalDesk is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()

	flushCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := qm.Flush(flushCtx); err != nil {
		log.Error().Err(err).Msg("flush quota state")
	}
	log.Info().Msg("SignalDesk stopped")
}

func startMetricsServer(cfg config.MetricsConfig, rec *metrics.Recorder, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, rec.Handler())
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Listen).Str("path", cfg.Path).Msg("metrics server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()
	return srv
}
