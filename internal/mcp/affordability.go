package mcp

import (
	"fmt"
	"math"
	"strings"

	"github.com/lifebots/assistant-api/internal/models"
)

// Affordability is the result of a budget-vs-cost comparison over a context
// snapshot. Pure read-side computation, no mutation.
type Affordability struct {
	CanAfford        bool    `json:"canAfford"`
	AvailableBudget  float64 `json:"availableBudget"`
	EventBudget      float64 `json:"eventBudget"`
	EventCost        float64 `json:"eventCost"`
	BudgetPercentage float64 `json:"budgetPercentage"`
	Recommendation   string  `json:"recommendation"`
	Suggestion       string  `json:"suggestion"`
}

// CheckAffordability compares an event cost against the user's total balance
// and their derived events budget. Both checks are boundary-inclusive: a cost
// exactly equal to the balance or the budget ceiling is affordable.
func CheckAffordability(doc *models.UserContext, cost float64) Affordability {
	available := doc.Finance.TotalBalance
	eventBudget := doc.Preferences.Events.BudgetRange.Max

	withinTotal := cost <= available
	withinEventBudget := cost <= eventBudget
	canAfford := withinTotal && withinEventBudget

	var pct float64
	if available > 0 {
		pct = math.Round(cost/available*1000) / 10
	}

	result := Affordability{
		CanAfford:        canAfford,
		AvailableBudget:  available,
		EventBudget:      eventBudget,
		EventCost:        cost,
		BudgetPercentage: pct,
	}

	switch {
	case canAfford:
		result.Recommendation = fmt.Sprintf("Affordable (%.1f%% of total budget)", pct)
		result.Suggestion = "You can attend this event within your budget"
	case withinTotal:
		result.Recommendation = fmt.Sprintf("Too expensive (%.1f%% of total budget)", pct)
		result.Suggestion = "Event exceeds your entertainment budget but you have overall funds"
	default:
		result.Recommendation = fmt.Sprintf("Too expensive (%.1f%% of total budget)", pct)
		result.Suggestion = "Consider cheaper alternatives or save more"
	}

	return result
}

// RecommendationFilters narrows event recommendations. Zero-valued fields
// default to the corresponding context fields.
type RecommendationFilters struct {
	Interests []string `json:"interests,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// Recommendation echoes the effective filters and a context snapshot used to
// shape an event recommendation prompt. No event catalog exists server-side;
// this shapes context only.
type Recommendation struct {
	Filters     RecommendationFilters `json:"filters"`
	UserContext RecommendationScope   `json:"userContext"`
	Summary     string                `json:"recommendation"`
}

// RecommendationScope is the slice of context relevant to event discovery.
type RecommendationScope struct {
	Budget      float64            `json:"budget"`
	EventBudget models.BudgetRange `json:"eventBudget"`
	Location    string             `json:"location"`
	Interests   []string           `json:"interests"`
	History     int                `json:"history"`
}

// Recommend resolves filters against the context snapshot and produces a
// human-readable summary of what the user is looking for.
func Recommend(doc *models.UserContext, filters RecommendationFilters) Recommendation {
	effective := filters
	if len(effective.Interests) == 0 {
		effective.Interests = doc.Preferences.Events.Interests
	}
	if effective.MaxPrice == nil {
		max := doc.Preferences.Events.BudgetRange.Max
		effective.MaxPrice = &max
	}
	if effective.Location == "" {
		effective.Location = doc.Location.Current
	}

	return Recommendation{
		Filters: effective,
		UserContext: RecommendationScope{
			Budget:      doc.Finance.TotalBalance,
			EventBudget: doc.Preferences.Events.BudgetRange,
			Location:    doc.Location.Current,
			Interests:   doc.Preferences.Events.Interests,
			History:     len(doc.EventsHistory.Attended),
		},
		Summary: fmt.Sprintf("Looking for %s events in %s under ₹%.0f",
			strings.Join(effective.Interests, ", "), effective.Location, *effective.MaxPrice),
	}
}
