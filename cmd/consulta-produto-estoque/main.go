package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PauloAdam/consulta-produto-estoque/internal/bling"
	"github.com/PauloAdam/consulta-produto-estoque/internal/config"
	"github.com/PauloAdam/consulta-produto-estoque/internal/http-server/router"
	"github.com/PauloAdam/consulta-produto-estoque/internal/lib/logger/sl"
	"github.com/PauloAdam/consulta-produto-estoque/internal/products"

	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := setupLogger(cfg.Env)

	log.Info("starting consulta-produto-estoque",
		slog.String("env", cfg.Env),
		slog.String("address", cfg.HTTPServer.Address),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	requestValidator := validator.New()

	// * Bling client
	creds := bling.NewCredentials(
		cfg.Bling.ClientID,
		cfg.Bling.ClientSecret,
		cfg.Bling.AccessToken,
		cfg.Bling.RefreshToken,
	)
	blingClient := bling.New(log, cfg.Bling.BaseURL, cfg.Bling.Timeout, creds, requestValidator)

	if cfg.Bling.RefreshOnStart {
		if err := blingClient.Refresh(ctx); err != nil {
			log.Error("failed to renew bling token", sl.Err(err))
			os.Exit(1)
		}
	}

	// * Lookup
	prodOP := products.New(blingClient, blingClient, products.Options{
		DepositID:   cfg.Bling.DepositID,
		GTINLimit:   cfg.Bling.GTINLimit,
		SKULimit:    cfg.Bling.SKULimit,
		SKUFallback: !cfg.Lookup.GTINOnly,
		Fields:      cfg.Lookup.Fields,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router.New(log, requestValidator, prodOP, cfg.HTTPServer, cfg.Lookup.Timeout),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err := serve(ctx, log, srv); err != nil {
		log.Error("server failed", sl.Err(err))
		os.Exit(1)
	}

	log.Info("server stopped")
}

// serve runs srv until ctx ends and then shuts it down. A server that cannot
// listen is reported as an error.
func serve(ctx context.Context, log *slog.Logger, srv *http.Server) error {
	const op = "main.serve"

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info("server started", slog.String("address", srv.Addr))

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s: listen: %w", op, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", op, err)
	}

	return nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
