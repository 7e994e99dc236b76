package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BrandonDHaskell/tagscan/internal/config"
	"github.com/BrandonDHaskell/tagscan/internal/db"
	"github.com/BrandonDHaskell/tagscan/internal/eventloop"
	"github.com/BrandonDHaskell/tagscan/internal/observability"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/inventory"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/service"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/snapshot"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
	"github.com/BrandonDHaskell/tagscan/internal/termui"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "tagscan ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		Exporter: cfg.TraceExporter,
		Service:  "tagscan",
	})
	if err != nil {
		logger.Fatalf("tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	if cfg.Env == "dev" {
		if err := seedDevSnapshot(ctx, cfg.SnapshotPath, logger); err != nil {
			logger.Fatalf("seed dev snapshot: %v", err)
		}
	}

	// Snapshot is loaded once and never written back.
	src, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		logger.Fatalf("snapshot: %v", err)
	}
	raws, err := src.Load(ctx)
	if err != nil {
		logger.Fatalf("load snapshot %s: %v", cfg.SnapshotPath, err)
	}
	idx, _ := inventory.Load(raws, logger)

	loop := eventloop.New(256)
	defer loop.Close()

	presenter := termui.NewPresenter(os.Stdout)
	scanner := service.NewScanner(service.Dependencies{
		Resolver:      service.NewResolver(idx, service.WithNormalizer(service.NormalizerByName(cfg.Normalizer))),
		Presenter:     presenter,
		Scheduler:     loop,
		Logger:        logger,
		NoticeTimeout: cfg.NoticeTimeout,
		Symbologies:   symbologies(cfg.Symbologies),
	})

	console := termui.NewConsole(termui.Dependencies{
		Logger:    logger,
		Loop:      loop,
		Scanner:   scanner,
		Presenter: presenter,
	})

	logger.Printf("scanning against %s (%d assets, notice timeout %s)", cfg.SnapshotPath, idx.Len(), cfg.NoticeTimeout)
	if err := console.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Printf("console error: %v", err)
	}
}

// seedDevSnapshot creates a sample SQLite snapshot when the configured one
// is a missing or empty .db file.
func seedDevSnapshot(ctx context.Context, path string, logger *log.Logger) error {
	if f, err := snapshot.FormatOf(path); err != nil || f != snapshot.FormatSQLite {
		return nil
	}

	conn, err := db.Open(ctx, db.Config{Path: path})
	if err != nil {
		return err
	}
	defer conn.Close()

	w := db.NewWorker(conn)
	defer w.Close()

	if err := db.SeedDev(ctx, w); err != nil {
		return err
	}
	if c, ok := w.LastCommit(); ok {
		logger.Printf("dev snapshot ready at %s (%s at %s)", path, c.Label, c.At.Format(time.RFC3339))
	} else {
		logger.Printf("dev snapshot ready at %s", path)
	}
	return nil
}

func symbologies(names []string) []types.Symbology {
	if len(names) == 0 {
		return nil
	}
	out := make([]types.Symbology, 0, len(names))
	for _, n := range names {
		out = append(out, types.ParseSymbology(n))
	}
	return out
}
