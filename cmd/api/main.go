package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"storekeep/internal/config"
	"storekeep/internal/database"
	storekeepHttp "storekeep/internal/http"
	categoryHandler "storekeep/internal/http/category"
	clientHandler "storekeep/internal/http/client"
	importHandler "storekeep/internal/http/importcsv"
	productHandler "storekeep/internal/http/product"
	purchaseHandler "storekeep/internal/http/purchase"
	reportHandler "storekeep/internal/http/report"
	saleHandler "storekeep/internal/http/sale"
	"storekeep/internal/importer"
	"storekeep/internal/report"
	"storekeep/internal/snapshot/file"
	"storekeep/internal/snapshot/postgres"
	"storekeep/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	persister, cleanup, err := newPersister(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up snapshot persister", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	st := store.Open(ctx, persister)

	var (
		reportService = report.NewService(st)
		importService = importer.NewService()
	)

	var (
		clientsH    = clientHandler.NewHandler(st, reportService)
		categoriesH = categoryHandler.NewHandler(st)
		productsH   = productHandler.NewHandler(st)
		salesH      = saleHandler.NewHandler(st)
		purchasesH  = purchaseHandler.NewHandler(st)
		reportsH    = reportHandler.NewHandler(reportService)
		importH     = importHandler.NewHandler(importService, st)
	)

	router := storekeepHttp.New(
		cfg.HTTP.AllowedOrigins,
		clientsH,
		categoriesH,
		productsH,
		salesH,
		purchasesH,
		reportsH,
		importH,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "snapshot_driver", cfg.Snapshot.Driver)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newPersister(ctx context.Context, cfg *config.Config) (store.Persister, func(), error) {
	switch cfg.Snapshot.Driver {
	case config.SnapshotDriverFile:
		return file.New(cfg.Snapshot.Path), func() {}, nil

	case config.SnapshotDriverPostgres:
		db, err := database.Open(cfg.ConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		p := postgres.New(db)
		if err := p.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensuring snapshot schema: %w", err)
		}

		return p, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown snapshot driver %q", cfg.Snapshot.Driver)
	}
}
