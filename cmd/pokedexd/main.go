// Command pokedexd serves the pokedex data-access layer over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pokedex "github.com/ferro-labs/pokedex"
	"github.com/ferro-labs/pokedex/internal/compare"
	"github.com/ferro-labs/pokedex/internal/logging"
	"github.com/ferro-labs/pokedex/internal/version"
)

func main() {
	cfg := pokedex.DefaultConfig()
	if path := os.Getenv("POKEDEX_CONFIG"); path != "" {
		loaded, err := pokedex.LoadConfig(path)
		if err != nil {
			fatal("failed to load config", err)
		}
		if err := pokedex.ValidateConfig(*loaded); err != nil {
			fatal("invalid config", err)
		}
		cfg = *loaded
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	client, err := pokedex.New(cfg)
	if err != nil {
		fatal("failed to create client", err)
	}
	cfg = client.Config()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openCompareBackend(cfg.Compare)
	if err != nil {
		fatal("failed to open compare backend", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing compare backend", "error", err.Error())
		}
	}()
	list, err := compare.Open(ctx, backend, cfg.Compare.Key)
	if err != nil {
		fatal("failed to open comparison list", err)
	}
	logger.Info("comparison list ready",
		"backend", string(cfg.Compare.Backend), "key", list.Key(), "entries", list.Len())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(client, list, cfg.Server),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err.Error())
		}
	}()

	logger.Info("pokedexd listening",
		"version", version.Short(), "addr", cfg.Server.Addr, "upstream", client.BaseURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("server error", err)
	}
	logger.Info("server stopped")
}

func fatal(msg string, err error) {
	logging.Logger.Error(msg, "error", err.Error())
	os.Exit(1)
}
