package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lhung/web-widgets/config"
	"github.com/lhung/web-widgets/upstream"
	"github.com/lhung/web-widgets/web"
	"github.com/lhung/web-widgets/web/handlers"
	"github.com/lhung/web-widgets/widget"
)

func main() {
	_ = godotenv.Load() // Load .env file if present

	logger, err := newLogger()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("loading configuration", zap.Error(err))
	}

	client := upstream.NewClient(cfg.UpstreamTimeout, logger)
	svc := widget.New(cfg, client, logger)

	srv := web.New(cfg.ListenAddr, handlers.Dependencies{
		Logger:   logger,
		Widget:   svc,
		HouseAds: cfg.HouseAds,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server exited", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("DEBUG") != "" {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
