package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"escaperoom/internal/catalog"
	"escaperoom/internal/config"
	"escaperoom/internal/game"
	"escaperoom/internal/level"
	"escaperoom/internal/session"
	"escaperoom/internal/web"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Catalog ---
	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	resolver, err := level.NewResolver(cat)
	if err != nil {
		return fmt.Errorf("validating catalog: %w", err)
	}
	logger.Info("catalog loaded",
		"dir", cfg.CatalogDir,
		"questions", len(cat.Questions),
		"objects", len(cat.Objects),
	)

	// --- HTTP Server ---
	app := &web.Server{
		Engine:       &game.Engine{Resolver: resolver},
		Store:        session.NewMemoryStore[game.Session](),
		Logger:       logger,
		AnswerDelay:  cfg.AnswerDelay,
		RevealDelay:  cfg.RevealDelay,
		DoorDelay:    cfg.DoorDelay,
		CookieSecure: cfg.CookieSecure,
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", srv.Addr, err)
		}
		logger.Info("starting http server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		app.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// loadCatalog reads the catalog from dir, or the built-in one when dir is
// empty.
func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(dir)
}
