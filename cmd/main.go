package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"dice-duel/domain/random"
	"dice-duel/domain/room"
	"dice-duel/internal/config"
	"dice-duel/internal/i18n"
	"dice-duel/internal/otel"
	"dice-duel/server"
	"dice-duel/solo"
	"dice-duel/utils"
)

const serviceName = "dice-duel"

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("error: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		slog.Error("error setting up tracing",
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("tracing shutdown", slog.String("error", err.Error()))
		}
	}()

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			config.Exitf("error: %v", err)
		}
	}
	src := random.New(seed)

	tag, ok := i18n.ParseTag(cfg.Locale)
	if !ok {
		slog.Warn("unsupported locale, using default",
			slog.String("locale", cfg.Locale),
			slog.String("default", tag.String()),
		)
	}

	mux := http.NewServeMux()
	srv := server.NewWithSource(src, logger, room.WithPrinter(i18n.Printer(tag)))
	connectPaths := srv.Mount(mux)

	mux.Handle("/api/", solo.NewHandler(solo.NewGame(src), logger))

	// Static file and index.html fallback handler
	distDir := cfg.StaticDir
	fs := http.FileServer(http.Dir(distDir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(distDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}

		// Fallback to index.html for client-side routing
		http.ServeFile(w, r, filepath.Join(distDir, "index.html"))
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(utils.WithCORS(cfg.CORSOrigin, mux), &http2.Server{}),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running",
			slog.String("addr", cfg.Addr),
			slog.Int64("seed", seed),
			slog.String("locale", tag.String()),
			slog.Any("connect_paths", connectPaths),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(sctx); err != nil {
			slog.Error("shutdown", slog.String("error", err.Error()))
		}
	}
}
