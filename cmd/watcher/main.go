package main

import (
	"context"
	"errors"
	"go-mostaql-watcher/internal/config"
	"go-mostaql-watcher/internal/dedup"
	"go-mostaql-watcher/internal/metrics"
	"go-mostaql-watcher/internal/scraper"
	"go-mostaql-watcher/internal/scraper/mostaql"
	"go-mostaql-watcher/internal/server"
	"go-mostaql-watcher/internal/telegram"
	"go-mostaql-watcher/internal/watcher"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	//load config; missing token or chat id exits non-zero
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//seen-set, injected into the watcher
	store, err := dedup.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open seen-set store", zap.Error(err))
	}
	defer store.Close()

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID, cfg.SendRatePerSecond, logger)
	if err != nil {
		logger.Fatal("failed to init telegram bot", zap.Error(err))
	}

	site, err := mostaql.NewScraper(cfg, scraper.NewFetcher(cfg.RequestTimeout()))
	if err != nil {
		logger.Fatal("failed to init scraper", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	w := watcher.New(site, site, store, bot, m, logger, watcher.Options{
		Interval:     cfg.PollInterval(),
		InitialDelay: cfg.InitialDelay(),
		MaxItems:     cfg.MaxItemsPerCycle,
	})

	go bot.Listen(ctx)

	var srv *http.Server
	if cfg.HTTPEnabled() {
		gin.SetMode(gin.ReleaseMode)
		srv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.NewRouter(w, reg),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("🚀 Starting Mostaql watcher", zap.String("source", site.Name()))
	w.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown", zap.Error(err))
		}
	}
	logger.Info("🏁 Watcher stopped.")
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		zcfg := zap.NewProductionConfig()
		if lvl, perr := zap.ParseAtomicLevel(level); perr == nil {
			zcfg.Level = lvl
		}
		logger, err = zcfg.Build()
	}
	if err != nil {
		log.Fatalf("❌ Failed to init logger: %v", err)
	}
	return logger
}
