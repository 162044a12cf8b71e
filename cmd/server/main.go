// Command server exposes the definition pipeline over HTTP.
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

	"github.com/brunobiangulo/godefine"
)

const shutdownGrace = 30 * time.Second

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, serves until ctx is cancelled and then drains
// in-flight requests.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (YAML or JSON)")
	addr := fs.String("addr", "", "listen address, overrides server.addr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := godefine.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	cfg.ApplyProviderEnv()

	engine, err := godefine.New(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(engine, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      6 * time.Minute, // /process may wait on two generations
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server: listening", "addr", srv.Addr, "provider", cfg.Generation.Provider, "model", cfg.Generation.Model)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server: stopped")
	return nil
}

// newRouter registers the routes behind the middleware stack. Requests
// pass recovery, CORS, request ID, API key, user identity and logging in
// that order.
func newRouter(engine godefine.Engine, cfg godefine.Config) http.Handler {
	h := newHandler(engine, cfg.MaxUploadBytes)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /upload", h.handleUpload)
	mux.HandleFunc("POST /paraphrase-text", h.handleParaphraseText)
	mux.HandleFunc("POST /process", h.handleProcess)
	mux.HandleFunc("GET /history", h.handleHistory)
	mux.HandleFunc("POST /extract", h.handleExtract)
	mux.HandleFunc("POST /cite", h.handleCite)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", engine.Metrics().Handler())

	return chain(mux,
		recoverPanics,
		allowOrigins(cfg.Server.CORSOrigins),
		tagRequest,
		requireAPIKey(cfg.Server.APIKey),
		requireUser,
		logRequests,
	)
}
