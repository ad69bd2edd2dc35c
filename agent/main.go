package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imkonsowa/foodorder-chatbot/config"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.LoadConfig()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	historyDB, err := OpenHistoryDB(cfg.History.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer historyDB.Close()

	var load CatalogLoader
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		db, err := NewCatalogPg(cfg.Postgres.ConnStr())
		if err != nil {
			log.Fatal(err)
		}
		load = PgCatalogLoader(db)
	default:
		load = FileCatalogLoader(cfg.Catalog.Path)
	}

	handler, err := NewHandler(ctx, load, SqliteHistories(historyDB, cfg.History.Session))
	if err != nil {
		log.Fatalf("failed to initialize the chatbot: %v", err)
	}

	server := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: NewAgent(handler).Router(),
	}

	worker, workerCtx := errgroup.WithContext(ctx)

	worker.Go(func() error {
		slog.Info("Starting agent", "address", server.Addr, "catalog", cfg.Catalog.Source)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Nats.Enabled && cfg.Catalog.Source == config.SourcePostgres {
		nc, err := NewNats(&cfg.Nats)
		if err != nil {
			log.Fatal(err)
		}
		defer nc.Close()

		pool := NewReloadPool(workerCtx, cfg.Reloader.Workers, cfg.Reloader.QueueSize, func(ctx context.Context) error {
			_, err := handler.Reload(ctx)
			return err
		})
		defer pool.Wait()
		defer pool.Stop()

		slog.Info("Watching catalog changes", "workers", cfg.Reloader.Workers, "queueSize", cfg.Reloader.QueueSize)

		for _, subject := range cfg.Nats.Subjects() {
			worker.Go(func() error {
				return nc.Subscribe(workerCtx, subject, func(m *nats.Msg) {
					pool.Submit(workerCtx, m)
				})
			})
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- worker.Wait()
	}()

	select {
	case <-shutdown:
		slog.Info("Shutting down")
	case err := <-errChan:
		slog.Error("Shutting down due to error", "error", err)
	}

	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown the server", "error", err)
	}
}
