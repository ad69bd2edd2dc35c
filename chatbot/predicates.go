package chatbot

import (
	"strings"

	"github.com/imkonsowa/foodorder-chatbot/models"
)

const (
	FastFoodMaxMinutes = 10
	AffordableBelow    = 10.00
	PremiumFrom        = 30.00
)

var healthyKeywords = []string{"salad", "quinoa", "veggie", "vegetarian", "grilled chicken", "smoothie", "fresh"}

// Predicate filters a single catalog entry.
type Predicate func(models.Food) bool

func IsAvailable(f models.Food) bool {
	return f.IsAvailable
}

func IsFastFood(f models.Food) bool {
	return f.TimeValue <= FastFoodMaxMinutes
}

func IsHealthy(f models.Food) bool {
	name := strings.ToLower(f.Name)
	for _, keyword := range healthyKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

func IsBest(f models.Food) bool {
	return f.BestFood
}

func IsAffordable(f models.Food) bool {
	return f.Price < AffordableBelow
}

func IsPremium(f models.Food) bool {
	return f.Price >= PremiumFrom
}

func ByCategory(categoryID int) Predicate {
	return func(f models.Food) bool {
		return f.CategoryID == categoryID
	}
}

// All is the logical AND of preds; with no predicates it accepts everything.
func All(preds ...Predicate) Predicate {
	return func(f models.Food) bool {
		for _, p := range preds {
			if !p(f) {
				return false
			}
		}

		return true
	}
}

// Select keeps the available foods matching every predicate, in catalog order.
// Unavailable entries are never returned.
func Select(foods []models.Food, preds ...Predicate) []models.Food {
	match := All(append([]Predicate{IsAvailable}, preds...)...)

	var result []models.Food
	for _, f := range foods {
		if match(f) {
			result = append(result, f)
		}
	}

	return result
}
