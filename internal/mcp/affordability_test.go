package mcp

import (
	"strings"
	"testing"

	"github.com/lifebots/assistant-api/internal/models"
)

func TestCheckAffordability_BoundaryInclusive(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 2000
	doc.Preferences.Events.BudgetRange.Max = 2000

	result := CheckAffordability(doc, 2000)
	if !result.CanAfford {
		t.Error("Expected cost equal to both limits to be affordable")
	}
	if result.BudgetPercentage != 100.0 {
		t.Errorf("Expected 100%% of budget, got %v", result.BudgetPercentage)
	}
}

func TestCheckAffordability_OverEventBudget(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 10000
	doc.Preferences.Events.BudgetRange.Max = 2000

	result := CheckAffordability(doc, 2001)
	if result.CanAfford {
		t.Error("Expected cost one over the events budget to be unaffordable")
	}
	if !strings.Contains(result.Suggestion, "exceeds your entertainment budget") {
		t.Errorf("Expected the over-event-budget suggestion branch, got %q", result.Suggestion)
	}
}

func TestCheckAffordability_OverTotalBalance(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 500
	doc.Preferences.Events.BudgetRange.Max = 5000

	result := CheckAffordability(doc, 800)
	if result.CanAfford {
		t.Error("Expected cost over the total balance to be unaffordable")
	}
	if !strings.Contains(result.Suggestion, "cheaper alternatives") {
		t.Errorf("Expected the save-more suggestion branch, got %q", result.Suggestion)
	}
}

func TestCheckAffordability_ZeroBudgetPercentage(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()

	result := CheckAffordability(doc, 100)
	if result.BudgetPercentage != 0 {
		t.Errorf("Expected percentage 0 with zero available budget, got %v", result.BudgetPercentage)
	}
	if result.CanAfford {
		t.Error("Expected nothing to be affordable on a zero balance")
	}
}

func TestCheckAffordability_PercentageRounding(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 3000
	doc.Preferences.Events.BudgetRange.Max = 600

	result := CheckAffordability(doc, 500)
	// 500/3000 = 16.666... -> 16.7
	if result.BudgetPercentage != 16.7 {
		t.Errorf("Expected percentage rounded to one decimal (16.7), got %v", result.BudgetPercentage)
	}
}

func TestRecommend_DefaultsFromContext(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 4000
	doc.Preferences.Events.BudgetRange.Max = 800
	doc.Location.Current = "Coimbatore"

	rec := Recommend(doc, RecommendationFilters{})

	if rec.Filters.Location != "Coimbatore" {
		t.Errorf("Expected location default from context, got %s", rec.Filters.Location)
	}
	if rec.Filters.MaxPrice == nil || *rec.Filters.MaxPrice != 800 {
		t.Errorf("Expected maxPrice default 800, got %v", rec.Filters.MaxPrice)
	}
	if len(rec.Filters.Interests) != 4 {
		t.Errorf("Expected default interests echoed, got %v", rec.Filters.Interests)
	}
	if !strings.Contains(rec.Summary, "Coimbatore") || !strings.Contains(rec.Summary, "800") {
		t.Errorf("Expected summary to mention location and price, got %q", rec.Summary)
	}
	if rec.UserContext.History != 0 {
		t.Errorf("Expected empty attendance history, got %d", rec.UserContext.History)
	}
}

func TestRecommend_ExplicitFiltersWin(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	price := 250.0
	rec := Recommend(doc, RecommendationFilters{
		Interests: []string{"comedy"},
		MaxPrice:  &price,
		Location:  "Bengaluru",
	})

	if rec.Filters.Location != "Bengaluru" || *rec.Filters.MaxPrice != 250 || rec.Filters.Interests[0] != "comedy" {
		t.Errorf("Expected explicit filters to be echoed unchanged, got %+v", rec.Filters)
	}
}
