package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/imkonsowa/foodorder-chatbot/catalog"
	"github.com/imkonsowa/foodorder-chatbot/chatbot"
	"github.com/imkonsowa/foodorder-chatbot/models"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"
)

func testStore(t *testing.T, foods ...models.Food) *catalog.Store {
	t.Helper()

	store, err := catalog.New(
		[]models.Category{{ID: 1, Name: "Pizza"}, {ID: 2, Name: "Drinks"}},
		[]models.Location{{ID: 1, Name: "Downtown", Address: "1 Main St", Phone: "555-0100", Hours: "9 AM - 9 PM"}},
		foods,
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	return store
}

func defaultFoods() []models.Food {
	return []models.Food{
		{ID: 1, Name: "Margherita", Description: "Tomato and basil", Price: 12.5, CategoryID: 1, TimeValue: 15, LocationID: 1, Star: 4.5, BestFood: true, IsAvailable: true, Ingredients: "Dough, tomato"},
		{ID: 2, Name: "Lemonade", Description: "Fresh lemons", Price: 3, CategoryID: 2, TimeValue: 2, LocationID: 1, Star: 4, IsAvailable: true, Ingredients: "Lemon, sugar"},
		{ID: 3, Name: "Calzone", Description: "Folded pizza", Price: 14, CategoryID: 1, TimeValue: 20, LocationID: 1, Star: 4.1, IsAvailable: false, Ingredients: "Dough, ham"},
	}
}

// memoryHistories keeps one in-memory history per session.
func memoryHistories() HistoryFactory {
	var mu sync.Mutex
	sessions := make(map[string]schema.ChatMessageHistory)

	return func(session string) schema.ChatMessageHistory {
		mu.Lock()
		defer mu.Unlock()

		h, ok := sessions[session]
		if !ok {
			h = memory.NewChatMessageHistory()
			sessions[session] = h
		}

		return h
	}
}

func staticLoader(store *catalog.Store) CatalogLoader {
	return func(context.Context) (*catalog.Store, error) {
		return store, nil
	}
}

func TestNewHandlerFailsWithoutCatalog(t *testing.T) {
	load := func(context.Context) (*catalog.Store, error) {
		return nil, &catalog.DataLoadError{Source: "test", Err: errors.New("boom")}
	}

	_, err := NewHandler(context.Background(), load, memoryHistories())
	if err == nil {
		t.Fatal("expected an error")
	}

	var loadErr *catalog.DataLoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected a DataLoadError in the chain, got %v", err)
	}
}

func TestReloadSwapsEngine(t *testing.T) {
	first := testStore(t, defaultFoods()...)
	second := testStore(t, defaultFoods()[:1]...)

	current := first
	load := func(context.Context) (*catalog.Store, error) {
		return current, nil
	}

	h, err := NewHandler(context.Background(), load, memoryHistories())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	if got := h.Engine().Store().Stats().Foods; got != 3 {
		t.Fatalf("foods = %d, want 3", got)
	}

	current = second
	stats, err := h.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if stats.Foods != 1 {
		t.Errorf("stats.Foods = %d, want 1", stats.Foods)
	}
	if h.Engine().Store() != second {
		t.Error("engine was not swapped")
	}
}

func TestReloadFailureKeepsEngine(t *testing.T) {
	store := testStore(t, defaultFoods()...)
	fail := false
	load := func(context.Context) (*catalog.Store, error) {
		if fail {
			return nil, errors.New("database is down")
		}
		return store, nil
	}

	h, err := NewHandler(context.Background(), load, memoryHistories())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	before := h.Engine()

	fail = true
	if _, err := h.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if h.Engine() != before {
		t.Error("engine changed after a failed reload")
	}
	if got := h.Engine().Classify("show me the menu"); got != chatbot.IntentMenu {
		t.Errorf("intent = %s, want menu", got)
	}
}

func TestChatRecordsHistory(t *testing.T) {
	h, err := NewHandler(context.Background(), staticLoader(testStore(t, defaultFoods()...)), memoryHistories())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	ctx := context.Background()

	reply := h.Chat(ctx, "s1", "Hello")
	if reply.Intent != chatbot.IntentGreeting {
		t.Errorf("intent = %s, want greeting", reply.Intent)
	}
	h.Chat(ctx, "s2", "menu")

	messages, err := h.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != models.RoleHuman || messages[0].Content != "Hello" {
		t.Errorf("first message = %+v", messages[0])
	}
	if messages[1].Role != models.RoleAI || messages[1].Content != reply.Text {
		t.Errorf("second message = %+v", messages[1])
	}

	if err := h.ClearHistory(ctx, "s1"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	messages, _ = h.History(ctx, "s1")
	if len(messages) != 0 {
		t.Errorf("history not cleared: %+v", messages)
	}

	other, _ := h.History(ctx, "s2")
	if len(other) != 2 {
		t.Errorf("clearing s1 touched s2: %d messages", len(other))
	}
}
