package chatbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imkonsowa/foodorder-chatbot/models"
)

const (
	welcomeText = "Hello! Welcome to our restaurant! 🍕 I'm here to help you find delicious food. " +
		"You can ask me about our menu, fast food options, healthy choices, locations, or anything else!"

	helpText = "👋 I'm your food ordering assistant! I can help you with:\n\n" +
		"📋 Menu Browsing:\n" +
		"  • Show complete menu\n" +
		"  • Browse by category (Pizza, Burger, Chicken, Sushi, etc.)\n\n" +
		"⚡ Fast Food Options:\n" +
		"  • Items ready in 10 minutes or less\n\n" +
		"🥗 Healthy Choices:\n" +
		"  • Salads, veggie options, grilled items\n\n" +
		"📍 Location Information:\n" +
		"  • Our restaurant locations\n" +
		"  • Addresses and operating hours\n\n" +
		"⭐ Recommendations:\n" +
		"  • Best dishes and popular items\n" +
		"  • Highly rated foods\n\n" +
		"💰 Price Filtering:\n" +
		"  • Budget-friendly options\n" +
		"  • Premium dining\n\n" +
		"Just ask me anything! 😊"

	fallbackText = "I can help you with:\n" +
		"• Browsing our menu\n" +
		"• Finding fast food (ready in 10 mins or less)\n" +
		"• Recommending healthy options\n" +
		"• Sharing location information\n" +
		"• Showing our best dishes\n" +
		"• Filtering by category (Pizza, Burger, Chicken, Sushi, etc.)\n" +
		"• Budget-friendly and premium options\n\n" +
		"What would you like to know?"
)

const (
	emptyMenu           = "Sorry, our menu has no dishes available right now."
	emptyFastFood       = "Sorry, no fast food options are currently available."
	emptyHealthy        = "Sorry, no healthy options are currently available."
	emptyLocations      = "Sorry, we have no locations to share right now."
	emptyRecommendation = "Sorry, no recommended dishes are currently available."
	emptyAffordable     = "Sorry, no budget-friendly options are currently available."
	emptyPremium        = "Sorry, no premium options are currently available."
	emptyCategoryFormat = "Sorry, no %s dishes are currently available."
	unavailableFormat   = "Sorry, %s is currently unavailable. Ask me for the menu to see what we can serve right now!"
	featuredNotice      = "⭐ This is one of our BEST dishes! Highly recommended! ⭐"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// rating prints the shortest decimal form, always with a fractional digit: 4.5, 5.0.
func rating(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

func (e *Engine) renderMenu(Match) string {
	var b strings.Builder
	b.WriteString("🍽️ Here's our complete menu organized by category:\n\n")

	listed := 0
	for _, c := range e.categories {
		foods := Select(e.foods, ByCategory(c.ID))
		if len(foods) == 0 {
			continue
		}

		fmt.Fprintf(&b, "📌 %s:\n", c.Name)
		for _, f := range foods {
			fmt.Fprintf(&b, "  • %s - $%s ⭐%s\n", f.Name, money(f.Price), rating(f.Star))
		}
		b.WriteString("\n")
		listed += len(foods)
	}

	if listed == 0 {
		b.WriteString(emptyMenu)
		return b.String()
	}

	b.WriteString("Ask me about any item for more details!")
	return b.String()
}

func (e *Engine) renderFastFood(Match) string {
	foods := Select(e.foods, IsFastFood)

	var b strings.Builder
	b.WriteString("⚡ Fast Food Options (Ready in 10 minutes or less):\n\n")
	for _, f := range foods {
		fmt.Fprintf(&b, "🍴 %s\n", f.Name)
		fmt.Fprintf(&b, "   ⏱️ %d minutes\n", f.TimeValue)
		fmt.Fprintf(&b, "   💰 $%s\n", money(f.Price))
		fmt.Fprintf(&b, "   ⭐ %s/5\n", rating(f.Star))
		fmt.Fprintf(&b, "   📍 %s\n\n", e.store.LocationName(f.LocationID))
	}

	if len(foods) == 0 {
		b.WriteString(emptyFastFood)
	}

	return b.String()
}

func (e *Engine) renderHealthy(Match) string {
	foods := Select(e.foods, IsHealthy)

	var b strings.Builder
	b.WriteString("🥗 Healthy Food Options:\n\n")
	for _, f := range foods {
		fmt.Fprintf(&b, "🍃 %s\n", f.Name)
		fmt.Fprintf(&b, "   %s\n", f.Description)
		fmt.Fprintf(&b, "   💰 $%s\n", money(f.Price))
		fmt.Fprintf(&b, "   ⭐ %s/5\n", rating(f.Star))
		fmt.Fprintf(&b, "   📍 %s\n\n", e.store.LocationName(f.LocationID))
	}

	if len(foods) == 0 {
		b.WriteString(emptyHealthy)
	} else {
		b.WriteString("All these options are nutritious and delicious! 🌱")
	}

	return b.String()
}

func (e *Engine) renderLocations(Match) string {
	var b strings.Builder
	b.WriteString("📍 Our Restaurant Locations:\n\n")
	for _, l := range e.locations {
		fmt.Fprintf(&b, "🏪 %s\n", l.Name)
		fmt.Fprintf(&b, "   📮 %s\n", l.Address)
		fmt.Fprintf(&b, "   📞 %s\n", l.Phone)
		fmt.Fprintf(&b, "   🕒 %s\n\n", l.Hours)
	}

	switch len(e.locations) {
	case 0:
		b.WriteString(emptyLocations)
	case 1:
		b.WriteString("We're happy to serve you there! 😊")
	case 2:
		b.WriteString("We're happy to serve you at both locations! 😊")
	default:
		b.WriteString("We're happy to serve you at all our locations! 😊")
	}

	return b.String()
}

func (e *Engine) renderBest(Match) string {
	foods := Select(e.foods, IsBest)

	var b strings.Builder
	b.WriteString("⭐ Our Best & Most Popular Dishes:\n\n")
	for _, f := range foods {
		fmt.Fprintf(&b, "👑 %s\n", f.Name)
		fmt.Fprintf(&b, "   %s\n", f.Description)
		fmt.Fprintf(&b, "   💰 $%s\n", money(f.Price))
		fmt.Fprintf(&b, "   ⭐ %s/5 - Highly Rated!\n", rating(f.Star))
		fmt.Fprintf(&b, "   ⏱️ Ready in %d minutes\n", f.TimeValue)
		fmt.Fprintf(&b, "   📍 %s\n\n", e.store.LocationName(f.LocationID))
	}

	if len(foods) == 0 {
		b.WriteString(emptyRecommendation)
	}

	return b.String()
}

func (e *Engine) renderAffordable(Match) string {
	return e.renderPriceTier("💵 Budget-Friendly Options (Under $10):\n\n", "🍽️", "Only $%s!", Select(e.foods, IsAffordable), emptyAffordable)
}

func (e *Engine) renderPremium(Match) string {
	return e.renderPriceTier("💎 Premium Dining Options:\n\n", "👨‍🍳", "$%s", Select(e.foods, IsPremium), emptyPremium)
}

func (e *Engine) renderPriceTier(header, bullet, priceFormat string, foods []models.Food, empty string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, f := range foods {
		fmt.Fprintf(&b, "%s %s\n", bullet, f.Name)
		fmt.Fprintf(&b, "   💰 "+priceFormat+"\n", money(f.Price))
		fmt.Fprintf(&b, "   ⭐ %s/5\n", rating(f.Star))
		fmt.Fprintf(&b, "   📍 %s\n\n", e.store.LocationName(f.LocationID))
	}

	if len(foods) == 0 {
		b.WriteString(empty)
	}

	return b.String()
}

func (e *Engine) renderCategory(m Match) string {
	foods := Select(e.foods, ByCategory(m.Category.ID))

	var b strings.Builder
	fmt.Fprintf(&b, "🍴 %s Menu:\n\n", m.Category.Name)
	for _, f := range foods {
		fmt.Fprintf(&b, "• %s\n", f.Name)
		fmt.Fprintf(&b, "  %s\n", f.Description)
		fmt.Fprintf(&b, "  💰 $%s | ⭐ %s | ⏱️ %d min\n\n", money(f.Price), rating(f.Star), f.TimeValue)
	}

	if len(foods) == 0 {
		fmt.Fprintf(&b, emptyCategoryFormat, m.Category.Name)
	}

	return b.String()
}

func (e *Engine) renderDish(m Match) string {
	f := m.Food
	if !f.IsAvailable {
		return fmt.Sprintf(unavailableFormat, f.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🍽️ %s\n\n", f.Name)
	fmt.Fprintf(&b, "📝 %s\n\n", f.Description)
	fmt.Fprintf(&b, "💰 Price: $%s\n", money(f.Price))
	fmt.Fprintf(&b, "⭐ Rating: %s/5\n", rating(f.Star))
	fmt.Fprintf(&b, "⏱️ Preparation Time: %d minutes\n", f.TimeValue)
	fmt.Fprintf(&b, "📍 Location: %s\n", e.store.LocationName(f.LocationID))
	fmt.Fprintf(&b, "🥘 Ingredients: %s\n", f.Ingredients)

	if f.BestFood {
		b.WriteString("\n" + featuredNotice)
	}

	return b.String()
}
