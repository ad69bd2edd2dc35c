package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/imkonsowa/foodorder-chatbot/config"
	"github.com/nats-io/nats.go"
)

// Publisher sends change notifications to the catalog stream.
type Publisher interface {
	Publish(subject string, change Change) error
}

type NatsPublisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

func NewNatsPublisher(cfg *config.Nats) (*NatsPublisher, error) {
	nc, err := nats.Connect(cfg.ConnStr())
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open jetstream: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  cfg.Subjects(),
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Hour * 24 * 7,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		nc.Close()
		return nil, fmt.Errorf("create stream %s: %w", cfg.Stream, err)
	}

	return &NatsPublisher{conn: nc, js: js}, nil
}

// Close waits for pending async publishes before closing the connection.
func (p *NatsPublisher) Close() {
	select {
	case <-p.js.PublishAsyncComplete():
	case <-time.After(5 * time.Second):
	}
	p.conn.Close()
}

func (p *NatsPublisher) Publish(subject string, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}

	_, err = p.js.PublishAsync(subject, data)

	return err
}
