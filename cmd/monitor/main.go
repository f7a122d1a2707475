package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pulsemon/pulsemon/internal/config"
	"github.com/pulsemon/pulsemon/internal/daystore"
	"github.com/pulsemon/pulsemon/internal/httpapi"
	"github.com/pulsemon/pulsemon/internal/logging"
	"github.com/pulsemon/pulsemon/internal/probe"
	"github.com/pulsemon/pulsemon/internal/scheduler"
	"github.com/pulsemon/pulsemon/internal/ws"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	cfg := config.FromEnv()
	if cfg.TargetURL == "" {
		log.Fatal("TARGET_URL is required")
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store := daystore.New(cfg.Location)
	hub := ws.NewHub(logger, store)
	checker := probe.NewHTTPChecker(cfg.Timeout)
	mon := scheduler.NewMonitor(logger, store, checker, hub, cfg.TargetURL, cfg.Interval, cfg.Timeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go mon.Run(ctx)

	api := httpapi.NewServer(logger, store, hub)
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router(240, 60)}

	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.String("target", cfg.TargetURL),
			zap.Duration("interval", cfg.Interval),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	mon.Stop()

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutCtx)
	logger.Info("shutdown_complete")
}
