package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/imkonsowa/foodorder-chatbot/catalog"
	"github.com/imkonsowa/foodorder-chatbot/chatbot"
	"github.com/imkonsowa/foodorder-chatbot/models"
)

// CatalogLoader reads a fresh catalog snapshot from the configured source.
type CatalogLoader func(ctx context.Context) (*catalog.Store, error)

type Handler struct {
	engine    atomic.Pointer[chatbot.Engine]
	load      CatalogLoader
	histories HistoryFactory

	// serializes reloads; queries never take it
	reloadMu sync.Mutex
}

func NewHandler(ctx context.Context, load CatalogLoader, histories HistoryFactory) (*Handler, error) {
	h := &Handler{
		load:      load,
		histories: histories,
	}

	if _, err := h.Reload(ctx); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Handler) Engine() *chatbot.Engine {
	return h.engine.Load()
}

// Reload swaps in an engine over a freshly loaded catalog. On failure the
// current engine keeps serving.
func (h *Handler) Reload(ctx context.Context) (catalog.Stats, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	store, err := h.load(ctx)
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("failed to reload catalog: %w", err)
	}

	h.engine.Store(chatbot.New(store))

	stats := store.Stats()
	slog.Info("catalog loaded", "foods", stats.Foods, "categories", stats.Categories, "locations", stats.Locations)

	return stats, nil
}

// Chat answers one utterance and records the turn in the session history.
// History failures are logged; the reply is still returned.
func (h *Handler) Chat(ctx context.Context, session, message string) chatbot.Reply {
	reply := h.Engine().Answer(message)

	history := h.histories(session)
	if err := history.AddUserMessage(ctx, message); err != nil {
		slog.Warn("failed to store user message", "session", session, "err", err)
	}
	if err := history.AddAIMessage(ctx, reply.Text); err != nil {
		slog.Warn("failed to store reply", "session", session, "err", err)
	}

	slog.Debug("answered chat message", "session", session, "intent", reply.Intent.String(), "subject", reply.Subject)

	return reply
}

func (h *Handler) History(ctx context.Context, session string) ([]models.ChatMessage, error) {
	messages, err := h.histories(session).Messages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	result := make([]models.ChatMessage, 0, len(messages))
	for _, m := range messages {
		result = append(result, models.ChatMessage{
			Role:    string(m.GetType()),
			Content: m.GetContent(),
		})
	}

	return result, nil
}

func (h *Handler) ClearHistory(ctx context.Context, session string) error {
	if err := h.histories(session).Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	return nil
}
