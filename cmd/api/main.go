package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"paypal-payments-gateway/internal/app"
	"paypal-payments-gateway/internal/config"
	"paypal-payments-gateway/internal/logger"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("init gateway", logger.Err(err))
		os.Exit(1)
	}

	go gateway.RunCleanup(ctx)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", slog.String("addr", serverAddr), slog.String("env", cfg.Environment.Name))
	go func() {
		if err := gateway.Server.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", logger.Err(err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := gateway.Server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Err(err))
	}
	if err := gateway.Close(shutdownCtx); err != nil {
		log.Error("close gateway", logger.Err(err))
	}
}
