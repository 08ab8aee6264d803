package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	gatewayhttp "ics2000-gateway/internal/adapters/input/http"
	"ics2000-gateway/internal/adapters/output/ics2000"
	"ics2000-gateway/internal/adapters/output/persistence"
	"ics2000-gateway/internal/concurrency"
	"ics2000-gateway/internal/config"
	"ics2000-gateway/internal/domain/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		ReportCaller:    true,
	})
	logger.Info("ics2000-gateway starting")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not read config", "err", err)
	}

	switch cfg.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.Warn("unknown log level, keeping info", "level", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}

	// wire up adapters and the coordinator
	credRepo := persistence.NewJSONCredentialRepository(cfg.CredentialsPath)
	hub := ics2000.NewClient(cfg.HubBaseURL, logger)
	pool := concurrency.NewPool(cfg.HubWorkers)

	coordinator := service.NewSessionCoordinator(hub, credRepo, pool, logger)
	coordinator.SetCallTimeout(cfg.HubCallTimeout)

	// one automatic login from persisted credentials before serving
	coordinator.Restore(context.Background())

	server := gatewayhttp.NewServer(coordinator, logger)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: server.Handler()}

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", "err", err)
		}
	}()

	<-quitChannel

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("ics2000-gateway stopped")
}
