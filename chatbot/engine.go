// Package chatbot answers free-text questions about a food catalog. Queries are
// matched against a fixed, ordered rule table and answered from an immutable
// catalog snapshot, so an Engine is safe for concurrent use without locking.
package chatbot

import (
	"io"
	"strings"

	"github.com/imkonsowa/foodorder-chatbot/catalog"
	"github.com/imkonsowa/foodorder-chatbot/models"
)

type Engine struct {
	store *catalog.Store

	categories []models.Category
	locations  []models.Location
	foods      []models.Food
}

type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"reply"`

	// Subject describes the category or dish a reply is about. Empty for list
	// and fixed replies.
	Subject string `json:"-"`
}

func New(store *catalog.Store) *Engine {
	return &Engine{
		store:      store,
		categories: store.Categories(),
		locations:  store.Locations(),
		foods:      store.Foods(),
	}
}

// Initialize loads a catalog feed and returns an engine over it. The only error
// is a *catalog.DataLoadError.
func Initialize(r io.Reader) (*Engine, error) {
	store, err := catalog.Load(r)
	if err != nil {
		return nil, err
	}

	return New(store), nil
}

func InitializeFile(path string) (*Engine, error) {
	store, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return New(store), nil
}

func (e *Engine) Store() *catalog.Store {
	return e.store
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Answer classifies text and renders the reply of the first matching rule.
// It never fails: unmatched text gets the fallback reply.
func (e *Engine) Answer(text string) Reply {
	query := normalize(text)

	for _, r := range rules {
		if m, ok := r.Match(e, query); ok {
			return Reply{Intent: r.Intent, Text: r.Reply(e, m), Subject: m.subject(r.Intent)}
		}
	}

	return Reply{Intent: IntentFallback, Text: fallbackText}
}

func (e *Engine) Process(text string) string {
	return e.Answer(text).Text
}

func (e *Engine) Classify(text string) Intent {
	query := normalize(text)

	for _, r := range rules {
		if _, ok := r.Match(e, query); ok {
			return r.Intent
		}
	}

	return IntentFallback
}
