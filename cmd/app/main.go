package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkrelic/casevault/internal/caseopen"
	"github.com/mkrelic/casevault/internal/catalog"
	"github.com/mkrelic/casevault/internal/config"
	"github.com/mkrelic/casevault/internal/database"
	"github.com/mkrelic/casevault/internal/database/postgres"
	"github.com/mkrelic/casevault/internal/feed"
	"github.com/mkrelic/casevault/internal/inventory"
	"github.com/mkrelic/casevault/internal/ledger"
	"github.com/mkrelic/casevault/internal/server"
	"github.com/mkrelic/casevault/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	pool, err := database.NewPool(
		cfg.GetDBConnString(),
		database.DefaultMaxConnections,
		database.DefaultMaxIdleTime,
		database.DefaultMaxLifetime,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Repositories
	catalogRepo := postgres.NewCatalogRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	economyRepo := postgres.NewEconomyRepository(pool)

	// Services
	catalogService := catalog.NewService(catalogRepo)
	inventoryService := inventory.NewService(inventoryRepo, catalogRepo, ledgerRepo)
	ledgerService := ledger.NewService(ledgerRepo)
	caseOpenService := caseopen.NewService(catalogRepo, economyRepo)

	// External feed
	feedClient := feed.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout, cfg.FeedCacheTTL)
	importer := feed.NewImporter(feedClient, catalogService)

	importWorker := worker.NewImportWorker(importer, cfg.ImportInterval)
	importWorker.Start()

	srv := server.NewServer(
		cfg.Port,
		cfg.APIKey,
		nil,
		pool,
		catalogService,
		inventoryService,
		ledgerService,
		caseOpenService,
		feedClient,
		importer,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed to start: %v", err)
	case sig := <-stop:
		slog.Default().Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := importWorker.Shutdown(ctx); err != nil {
		slog.Default().Error("Import worker shutdown failed", "error", err)
	}
	if err := srv.Stop(ctx); err != nil {
		slog.Default().Error("Server shutdown failed", "error", err)
	}

	slog.Default().Info("Shutdown complete")
}
