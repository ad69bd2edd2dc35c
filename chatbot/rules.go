package chatbot

import (
	"strings"

	"github.com/imkonsowa/foodorder-chatbot/models"
)

type Intent int

const (
	IntentGreeting Intent = iota
	IntentMenu
	IntentFastFood
	IntentHealthy
	IntentLocation
	IntentRecommendation
	IntentAffordable
	IntentPremium
	IntentCategory
	IntentDish
	IntentHelp
	IntentFallback
)

var intentNames = [...]string{
	IntentGreeting:       "greeting",
	IntentMenu:           "menu",
	IntentFastFood:       "fast_food",
	IntentHealthy:        "healthy",
	IntentLocation:       "location",
	IntentRecommendation: "recommendation",
	IntentAffordable:     "affordable",
	IntentPremium:        "premium",
	IntentCategory:       "category",
	IntentDish:           "dish",
	IntentHelp:           "help",
	IntentFallback:       "fallback",
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return "unknown"
	}

	return intentNames[i]
}

func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Match is what a matcher found in the query, for handlers that need it.
type Match struct {
	Category models.Category
	Food     models.Food
}

func (m Match) subject(intent Intent) string {
	switch intent {
	case IntentCategory:
		return m.Category.Stringify()
	case IntentDish:
		return m.Food.Stringify()
	default:
		return ""
	}
}

// Matcher decides whether a normalized query belongs to an intent.
type Matcher func(e *Engine, query string) (Match, bool)

// Handler renders the reply for a matched intent.
type Handler func(e *Engine, m Match) string

type Rule struct {
	Intent Intent
	Match  Matcher
	Reply  Handler
}

// rules is evaluated top to bottom and the first match wins. Several matchers
// can accept the same text, so the order is part of the behavior.
var rules = []Rule{
	{Intent: IntentGreeting, Match: containsAny("hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening"), Reply: fixed(welcomeText)},
	{Intent: IntentMenu, Match: containsAny("menu", "browse", "what do you have", "what's available"), Reply: (*Engine).renderMenu},
	{Intent: IntentFastFood, Match: containsAny("fast", "quick", "in a hurry", "fast food"), Reply: (*Engine).renderFastFood},
	{Intent: IntentHealthy, Match: containsAny("healthy", "salad", "vegetarian", "veggie", "light"), Reply: (*Engine).renderHealthy},
	{Intent: IntentLocation, Match: containsAny("location", "address", "where", "branch"), Reply: (*Engine).renderLocations},
	{Intent: IntentRecommendation, Match: containsAny("recommend", "best", "popular", "top rated"), Reply: (*Engine).renderBest},
	{Intent: IntentAffordable, Match: containsAny("cheap", "affordable", "budget", "under"), Reply: (*Engine).renderAffordable},
	{Intent: IntentPremium, Match: containsAny("expensive", "premium", "high-end"), Reply: (*Engine).renderPremium},
	{Intent: IntentCategory, Match: matchCategory, Reply: (*Engine).renderCategory},
	{Intent: IntentDish, Match: matchDish, Reply: (*Engine).renderDish},
	{Intent: IntentHelp, Match: containsAny("help", "what can you do"), Reply: fixed(helpText)},
	{Intent: IntentFallback, Match: always, Reply: fixed(fallbackText)},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

func containsAny(keywords ...string) Matcher {
	return func(_ *Engine, query string) (Match, bool) {
		for _, k := range keywords {
			if strings.Contains(query, k) {
				return Match{}, true
			}
		}

		return Match{}, false
	}
}

func matchCategory(e *Engine, query string) (Match, bool) {
	for _, c := range e.categories {
		if strings.Contains(query, strings.ToLower(c.Name)) {
			return Match{Category: c}, true
		}
	}

	return Match{}, false
}

func matchDish(e *Engine, query string) (Match, bool) {
	for _, f := range e.foods {
		if strings.Contains(query, strings.ToLower(f.Name)) {
			return Match{Food: f}, true
		}
	}

	return Match{}, false
}

func always(*Engine, string) (Match, bool) {
	return Match{}, true
}

func fixed(text string) Handler {
	return func(*Engine, Match) string {
		return text
	}
}
