package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// ReloadPool turns catalog change notifications into catalog reloads. A worker
// drains every notification already queued before reloading, so a burst of
// changes costs one reload.
type ReloadPool struct {
	jobs   chan *nats.Msg
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	reload func(ctx context.Context) error
}

func NewReloadPool(ctx context.Context, maxWorkers, queueSize int, reload func(ctx context.Context) error) *ReloadPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}

	poolCtx, cancel := context.WithCancel(ctx)

	pool := &ReloadPool{
		jobs:   make(chan *nats.Msg, queueSize),
		ctx:    poolCtx,
		cancel: cancel,
		reload: reload,
	}

	for i := 0; i < maxWorkers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

func (w *ReloadPool) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case msg, ok := <-w.jobs:
			if !ok {
				return
			}
			w.process(append([]*nats.Msg{msg}, w.drain()...))
		}
	}
}

func (w *ReloadPool) drain() []*nats.Msg {
	var batch []*nats.Msg
	for {
		select {
		case msg, ok := <-w.jobs:
			if !ok {
				return batch
			}
			batch = append(batch, msg)
		default:
			return batch
		}
	}
}

func (w *ReloadPool) process(batch []*nats.Msg) {
	if err := w.reload(w.ctx); err != nil {
		slog.Error("failed to reload catalog", "err", err, "notifications", len(batch))
		for _, msg := range batch {
			settle(msg.Nak, "nak")
		}
		return
	}

	for _, msg := range batch {
		settle(msg.Ack, "ack")
	}
}

func settle(fn func(...nats.AckOpt) error, action string) {
	if err := fn(); err != nil && err != nats.ErrMsgNoReply {
		slog.Warn("failed to "+action+" message", "err", err)
	}
}

// Submit queues a notification. Blocks if the queue is full (backpressure).
// Returns false if a context is cancelled.
func (w *ReloadPool) Submit(ctx context.Context, msg *nats.Msg) bool {
	select {
	case w.jobs <- msg:
		return true
	case <-ctx.Done():
		return false
	case <-w.ctx.Done():
		return false
	}
}

// Stop makes workers exit once their current reload returns. Queued
// notifications are left unacknowledged and get redelivered.
func (w *ReloadPool) Stop() {
	w.cancel()
}

func (w *ReloadPool) Wait() {
	w.wg.Wait()
}
