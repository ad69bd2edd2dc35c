package chatbot

import (
	"testing"

	"github.com/imkonsowa/foodorder-chatbot/models"
)

func names(foods []models.Food) []string {
	out := make([]string, 0, len(foods))
	for _, f := range foods {
		out = append(out, f.Name)
	}

	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestPredicateThresholds(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		food models.Food
		want bool
	}{
		{name: "fast at 10 minutes", pred: IsFastFood, food: models.Food{TimeValue: 10}, want: true},
		{name: "not fast at 11 minutes", pred: IsFastFood, food: models.Food{TimeValue: 11}, want: false},
		{name: "affordable at 9.99", pred: IsAffordable, food: models.Food{Price: 9.99}, want: true},
		{name: "not affordable at 10.00", pred: IsAffordable, food: models.Food{Price: 10}, want: false},
		{name: "premium at 30.00", pred: IsPremium, food: models.Food{Price: 30}, want: true},
		{name: "not premium at 29.99", pred: IsPremium, food: models.Food{Price: 29.99}, want: false},
		{name: "best flag", pred: IsBest, food: models.Food{BestFood: true}, want: true},
		{name: "not best", pred: IsBest, food: models.Food{}, want: false},
		{name: "healthy by keyword, any case", pred: IsHealthy, food: models.Food{Name: "Warm QUINOA Bowl"}, want: true},
		{name: "healthy multi-word keyword", pred: IsHealthy, food: models.Food{Name: "Grilled Chicken Wrap"}, want: true},
		{name: "fried chicken is not healthy", pred: IsHealthy, food: models.Food{Name: "Fried Chicken"}, want: false},
		{name: "category match", pred: ByCategory(3), food: models.Food{CategoryID: 3}, want: true},
		{name: "category mismatch", pred: ByCategory(3), food: models.Food{CategoryID: 4}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.food); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectFastFood(t *testing.T) {
	foods := []models.Food{
		{Name: "five", TimeValue: 5, IsAvailable: true},
		{Name: "ten", TimeValue: 10, IsAvailable: true},
		{Name: "eleven", TimeValue: 11, IsAvailable: true},
		{Name: "twenty", TimeValue: 20, IsAvailable: true},
	}

	if got := names(Select(foods, IsFastFood)); !equalNames(got, []string{"five", "ten"}) {
		t.Errorf("fast food = %v", got)
	}

	foods[1].IsAvailable = false
	if got := names(Select(foods, IsFastFood)); !equalNames(got, []string{"five"}) {
		t.Errorf("fast food with ten unavailable = %v", got)
	}
}

func TestSelectComposes(t *testing.T) {
	foods := []models.Food{
		{Name: "cheap pizza", CategoryID: 1, Price: 8, IsAvailable: true},
		{Name: "dear pizza", CategoryID: 1, Price: 35, IsAvailable: true},
		{Name: "cheap burger", CategoryID: 2, Price: 7, IsAvailable: true},
		{Name: "hidden pizza", CategoryID: 1, Price: 5, IsAvailable: false},
	}

	if got := names(Select(foods, ByCategory(1), IsAffordable)); !equalNames(got, []string{"cheap pizza"}) {
		t.Errorf("cheap pizzas = %v", got)
	}
	if got := names(Select(foods)); !equalNames(got, []string{"cheap pizza", "dear pizza", "cheap burger"}) {
		t.Errorf("available = %v", got)
	}
	if got := Select(nil, IsBest); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}
