package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imkonsowa/foodorder-chatbot/config"
)

func main() {
	cfg := config.LoadConfig()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	errChan := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher, err := NewNatsPublisher(&cfg.Nats)
	if err != nil {
		log.Fatal(err)
	}
	defer publisher.Close()

	listener := NewListener(cfg, NewRouter(cfg.Nats), publisher)
	defer listener.Close(context.Background())

	go func() {
		errChan <- listener.Run(ctx)
	}()

	select {
	case err := <-errChan:
		slog.Error("listener stopped", "err", err)
		os.Exit(1)
	case <-shutdown:
		slog.Info("Shutting down")
		cancel()

		<-errChan
	}
}
