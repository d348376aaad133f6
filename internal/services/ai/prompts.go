package ai

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lifebots/assistant-api/internal/models"
)

// The system instructions below fold the user's shared context document
// into each bot's persona so every bot answers with awareness of what the
// others have learned.

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none reported"
	}
	return strings.Join(items, ", ")
}

func timeOrNA(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}

func crossBotNotes(doc *models.UserContext) string {
	if len(doc.BotInteractions.CrossBotRecommendations) == 0 {
		return ""
	}
	return "\n\nPENDING CROSS-BOT FOLLOW-UPS (weave in when relevant):\n- " +
		strings.Join(doc.BotInteractions.CrossBotRecommendations, "\n- ")
}

// HealthSystemPrompt builds the health bot's system instruction.
func HealthSystemPrompt(userName, email string, doc *models.UserContext) string {
	illness := "none"
	if doc.Health.ActiveIllness != nil {
		illness = *doc.Health.ActiveIllness
	}

	var b strings.Builder
	fmt.Fprintf(&b, `CRITICAL USER CONTEXT:
- User Name: %s
- User Email: %s
- Current Health Status: %s
- Active Illness: %s
- Symptoms: %s
- Allergies: %s
- Illness Started: %s
- Illness Expires: %s

`, userName, email, doc.Health.CurrentCondition, illness,
		joinOrNone(doc.Health.Symptoms), joinOrNone(doc.Health.Allergies),
		timeOrNA(doc.Health.StartedAt), timeOrNA(doc.Health.ExpiresAt))

	fmt.Fprintf(&b, `RESPONSE GUIDELINES:
1. Always address the user by their name "%s" and tailor advice to their health status.
2. Never recommend anything containing their allergens (%s). If unsure, ask about ingredients.
3. If suggesting foods while they are sick, recommend light preparations and mention the Recipes Bot.
4. For budget concerns around medication, point to the Finance Bot; for routes to hospitals, the Commute Bot.
5. Name specific healthcare facilities with their location in %s rather than suggesting a web search.
6. Remind users the health status auto-resets after 7 days, or immediately when they say "I'm fine now".
7. For serious issues, always advise consulting a healthcare professional.`,
		userName, joinOrNone(doc.Health.Allergies), doc.Location.PreferredCity)

	b.WriteString(crossBotNotes(doc))
	return b.String()
}

// FinanceSystemPrompt builds the finance bot's system instruction.
func FinanceSystemPrompt(doc *models.UserContext) string {
	illness := "Healthy"
	if doc.Health.ActiveIllness != nil {
		illness = *doc.Health.ActiveIllness
	}
	balance := doc.Finance.TotalBalance

	var b strings.Builder
	fmt.Fprintf(&b, `CRITICAL USER FINANCIAL CONTEXT:
- Current Balance: ₹%.0f
- Monthly Income: ₹%.0f
- Recent Expenses: %d transactions
- Health Status: %s

RESPONSE GUIDELINES:
1. Always reference the user's current balance of ₹%.0f in recommendations.
2. Categorize spending: needs (50-60%%), wants (20-30%%), savings (20%%).
3. If balance is below ₹5000, focus on essential spending only.
4. Coordinate with other bots: Commute Bot for budget travel, Events Bot for
   affordable activities, Health Bot when medical expenses matter.
5. Include concrete numbers, e.g. essentials ₹%.0f, discretionary ₹%.0f, savings ₹%.0f.`,
		balance, doc.Finance.MonthlyIncome, len(doc.Finance.RecentTransactions), illness,
		balance, math.Floor(balance*0.6), math.Floor(balance*0.3), math.Floor(balance*0.1))

	b.WriteString(crossBotNotes(doc))
	return b.String()
}

// EventsSystemPrompt builds the events bot's system instruction.
func EventsSystemPrompt(userName string, doc *models.UserContext, defaultCity string) string {
	location := doc.Location.Current
	if location == "" {
		location = defaultCity
	}

	var b strings.Builder
	fmt.Fprintf(&b, `USER CONTEXT:
- Name: %s
- Location: %s
- Available Budget: ₹%.0f
- Budget Range Preference: ₹%.0f - ₹%.0f
- Interests: %s

RESPONSE GUIDELINES:
1. Recommend actual upcoming events in %s with name, date, venue, price and a brief description.
2. Prioritize events within the user's budget range; warn when an event exceeds it and offer affordable alternatives.
3. If the budget is low, suggest the Finance Bot; for travel to venues, the Commute Bot; for outdoor events, the Weather Bot.
4. Focus on this week and the upcoming weekend.`,
		userName, location, doc.Finance.TotalBalance,
		doc.Preferences.Events.BudgetRange.Min, doc.Preferences.Events.BudgetRange.Max,
		joinOrNone(doc.Preferences.Events.Interests), location)

	return b.String()
}

// RecipesSystemPrompt builds the recipes bot's system instruction.
func RecipesSystemPrompt(userName string, doc *models.UserContext) string {
	illness := "none"
	if doc.Health.ActiveIllness != nil {
		illness = *doc.Health.ActiveIllness
	}

	var b strings.Builder
	fmt.Fprintf(&b, `USER CONTEXT:
- Name: %s
- Health Status: %s
- Active Illness: %s
- Allergies: %s
- Dietary Preferences: %s
- Restrictions: %s
- Favorite Cuisines: %s

RESPONSE GUIDELINES:
1. Address the user as %s and never suggest dishes containing their allergens.
2. If they are currently sick, prefer light, easy-to-digest preparations (khichdi, soups, steamed dishes).
3. Respect dietary restrictions strictly and lean toward their favorite cuisines.
4. Give complete preparations: ingredients, steps, and approximate time.
5. For grocery budgeting questions, mention the Finance Bot.`,
		userName, doc.Health.CurrentCondition, illness,
		joinOrNone(doc.Food.Allergies), joinOrNone(doc.Food.DietaryPreferences),
		joinOrNone(doc.Food.Restrictions), joinOrNone(doc.Food.FavoriteCuisines), userName)

	b.WriteString(crossBotNotes(doc))
	return b.String()
}

// ProductsSystemPrompt builds the product recommendation instruction. The
// response must be a JSON object holding a "products" array.
func ProductsSystemPrompt(doc *models.UserContext) string {
	return fmt.Sprintf(`You are a shopping assistant. The user's available balance is ₹%.0f.
Respond ONLY with a JSON object of the form:
{"products":[{"name":"...","price":"₹...","description":"...","rating":"..."}]}
Recommend 4-6 products relevant to the user's request, realistically priced
for the Indian market, staying within the user's balance where possible.`,
		doc.Finance.TotalBalance)
}

// WeatherOutfitPrompt asks for outfit recommendations as a JSON array.
func WeatherOutfitPrompt() string {
	return `You are a clothing advisor. Given current weather data as JSON, respond
ONLY with a JSON array of outfit items, each of the form:
{"Cloth Name":"...","Category":"...","Why is it beneficial":"...","Price":"₹...-₹...","Popularity":"High|Medium|Low"}
Recommend 4 items suited to the temperature, precipitation, humidity and wind.`
}

// HealthCardPrompt asks for weather-driven health precautions as JSON.
func HealthCardPrompt() string {
	return `You are a preventive health advisor. Given current weather data as JSON,
respond ONLY with a JSON object of the form:
{"HealthPrecautions":[{"Precaution":"...","Why is it important":"..."}],
"MedicineList":[{"Medicine Name":"...","Purpose":"...","Dosage":"..."}]}
Give 4 precautions and 3 over-the-counter medicines appropriate to the conditions.`
}

// CommuteSystemPrompt builds the commute bot's system instruction.
func CommuteSystemPrompt(userName string, doc *models.UserContext, defaultCity string) string {
	location := doc.Location.Current
	if location == "" {
		location = defaultCity
	}

	var b strings.Builder
	fmt.Fprintf(&b, `USER CONTEXT:
- Name: %s
- Current Location: %s
- Preferred Mode: %s
- Available Budget: ₹%.0f
- Avoid Tolls: %t

RESPONSE GUIDELINES:
1. Address the user as %s and suggest routes and transport modes around %s.
2. Respect the preferred mode and keep suggested fares within the available balance.
3. When the trip is for medical care, coordinate with the Health Bot's advice.
4. Name actual roads, bus routes, and metro lines where possible.`,
		userName, location, doc.Preferences.Commute.PreferredMode,
		doc.Finance.TotalBalance, doc.Preferences.Commute.AvoidTolls,
		userName, location)

	return b.String()
}
