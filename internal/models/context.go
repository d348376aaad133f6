package models

import (
	"encoding/json"
	"time"
)

// Health condition values.
const (
	ConditionHealthy = "healthy"
	ConditionSick    = "sick"
)

// DefaultCity is used when no location has been recorded for a user.
const DefaultCity = "Chennai"

// MaxRecentTransactions caps finance.recentTransactions, most-recent-first.
const MaxRecentTransactions = 10

// IllnessDuration is how long a detected illness stays active before
// auto-expiring back to the healthy baseline.
const IllnessDuration = 7 * 24 * time.Hour

// HealthContext tracks illness state shared across bots.
type HealthContext struct {
	ActiveIllness    *string       `json:"activeIllness"`
	Symptoms         []string      `json:"symptoms"`
	Allergies        []string      `json:"allergies"`
	StartedAt        *time.Time    `json:"startedAt"`
	ExpiresAt        *time.Time    `json:"expiresAt"`
	CurrentCondition string        `json:"currentCondition"`
	Medications      []string      `json:"medications"`
	DoctorVisits     []DoctorVisit `json:"doctorVisits"`
	RecoveryProgress float64       `json:"recoveryProgress"`
}

// DoctorVisit records a single consultation.
type DoctorVisit struct {
	Reason string    `json:"reason"`
	Date   time.Time `json:"date"`
}

// Expense is a recorded outgoing payment.
type Expense struct {
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// TransactionType distinguishes debits from credits in the history.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is an entry in the bounded recent-transaction history.
type Transaction struct {
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// BudgetAllocation splits the monthly budget across categories.
type BudgetAllocation struct {
	Needs         float64 `json:"needs"`
	Wants         float64 `json:"wants"`
	Savings       float64 `json:"savings"`
	Travel        float64 `json:"travel"`
	Entertainment float64 `json:"entertainment"`
}

// FinanceContext tracks balances, income, and spending history.
type FinanceContext struct {
	TotalBalance       float64            `json:"totalBalance"`
	MonthlyIncome      float64            `json:"monthlyIncome"`
	Expenses           []Expense          `json:"expenses"`
	Budget             BudgetAllocation   `json:"budget"`
	RecentTransactions []Transaction      `json:"recentTransactions"`
	SpendingPatterns   map[string]float64 `json:"spendingPatterns"`
	TripBudget         float64            `json:"tripBudget"`
	LastUpdated        *time.Time         `json:"lastUpdated,omitempty"`
}

// FoodContext tracks dietary state shared between the recipes and health bots.
type FoodContext struct {
	DietaryPreferences    []string `json:"dietaryPreferences"`
	Allergies             []string `json:"allergies"`
	FavoriteCuisines      []string `json:"favoriteCuisines"`
	Restrictions          []string `json:"restrictions"`
	TemporaryRestrictions bool     `json:"temporaryRestrictions"`
}

// LocationContext tracks the user's known locations.
type LocationContext struct {
	Current       string  `json:"current"`
	Home          *string `json:"home"`
	Work          *string `json:"work"`
	LastKnown     *string `json:"lastKnown"`
	PreferredCity string  `json:"preferredCity"`
}

// CommutePreferences describes how the user prefers to travel.
type CommutePreferences struct {
	PreferredMode   string `json:"preferredMode"`
	BudgetConscious bool   `json:"budgetConscious"`
	MaxTravelTime   int    `json:"maxTravelTime"`
	AvoidTolls      bool   `json:"avoidTolls"`
}

// BudgetRange bounds what the user will spend on a category of activity.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// EventPreferences describes what kinds of events the user wants to hear about.
type EventPreferences struct {
	Interests      []string    `json:"interests"`
	BudgetRange    BudgetRange `json:"budgetRange"`
	PreferredTypes []string    `json:"preferredTypes"`
	Frequency      string      `json:"frequency"`
	GroupSize      int         `json:"groupSize"`
	PreferredDays  []string    `json:"preferredDays"`
}

// GeneralPreferences holds app-level settings.
type GeneralPreferences struct {
	NotificationEnabled bool   `json:"notificationEnabled"`
	Language            string `json:"language"`
	Theme               string `json:"theme"`
}

// Preferences groups the per-domain preference sub-trees.
type Preferences struct {
	Commute CommutePreferences `json:"commute"`
	Events  EventPreferences   `json:"events"`
	General GeneralPreferences `json:"general"`
}

// EventRecord is an event the user attended or flagged interest in.
type EventRecord struct {
	Name  string    `json:"name"`
	Cost  float64   `json:"cost"`
	Venue string    `json:"venue,omitempty"`
	Date  time.Time `json:"date"`
}

// EventsHistory tracks event attendance and spend over time.
type EventsHistory struct {
	Attended       []EventRecord `json:"attended"`
	Interested     []EventRecord `json:"interested"`
	BudgetSpent    float64       `json:"budgetSpent"`
	LastEventDate  *time.Time    `json:"lastEventDate"`
	FavoriteVenues []string      `json:"favoriteVenues"`
	AvoidedEvents  []string      `json:"avoidedEvents"`
}

// PendingAction is a queued cross-bot follow-up.
type PendingAction struct {
	Bot       string    `json:"bot"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

// BotInteractions tracks when each bot last touched the context.
type BotInteractions struct {
	LastHealthUpdate        *time.Time      `json:"lastHealthUpdate"`
	LastFinanceCheck        *time.Time      `json:"lastFinanceCheck"`
	LastEventsSearch        *time.Time      `json:"lastEventsSearch"`
	LastRecipeCheck         *time.Time      `json:"lastRecipeCheck"`
	LastCommutePlan         *time.Time      `json:"lastCommutePlan"`
	LastWeatherCheck        *time.Time      `json:"lastWeatherCheck"`
	CrossBotRecommendations []string        `json:"crossBotRecommendations"`
	PendingActions          []PendingAction `json:"pendingActions"`
}

// Profile holds demographic fields used for personalization.
type Profile struct {
	Age                 *int     `json:"age"`
	Occupation          *string  `json:"occupation"`
	Hobbies             []string `json:"hobbies"`
	FamilySize          int      `json:"familySize"`
	HasVehicle          bool     `json:"hasVehicle"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
}

// UserContext is the per-user shared document every bot reads and updates.
// One document exists per user identifier; absence is materialized as
// DefaultUserContext, never as a not-found error.
type UserContext struct {
	Health          HealthContext   `json:"health"`
	Food            FoodContext     `json:"food"`
	Finance         FinanceContext  `json:"finance"`
	Location        LocationContext `json:"location"`
	Preferences     Preferences     `json:"preferences"`
	EventsHistory   EventsHistory   `json:"eventsHistory"`
	BotInteractions BotInteractions `json:"botInteractions"`
	Profile         Profile         `json:"profile"`
}

// DefaultUserContext returns the canonical default document served for users
// with no stored context.
func DefaultUserContext() *UserContext {
	return &UserContext{
		Health: HealthContext{
			Symptoms:         []string{},
			Allergies:        []string{},
			CurrentCondition: ConditionHealthy,
			Medications:      []string{},
			DoctorVisits:     []DoctorVisit{},
		},
		Food: FoodContext{
			DietaryPreferences: []string{},
			Allergies:          []string{},
			FavoriteCuisines:   []string{},
			Restrictions:       []string{},
		},
		Finance: FinanceContext{
			Expenses:           []Expense{},
			RecentTransactions: []Transaction{},
			SpendingPatterns:   map[string]float64{},
		},
		Location: LocationContext{
			Current:       DefaultCity,
			PreferredCity: DefaultCity,
		},
		Preferences: Preferences{
			Commute: CommutePreferences{
				PreferredMode:   "balanced",
				BudgetConscious: true,
				MaxTravelTime:   60,
			},
			Events: EventPreferences{
				Interests:      []string{"music", "food", "sports", "culture"},
				BudgetRange:    BudgetRange{Min: 0, Max: 5000},
				PreferredTypes: []string{"concerts", "festivals", "workshops"},
				Frequency:      "weekly",
				GroupSize:      1,
				PreferredDays:  []string{"saturday", "sunday"},
			},
			General: GeneralPreferences{
				NotificationEnabled: true,
				Language:            "english",
				Theme:               "dark",
			},
		},
		EventsHistory: EventsHistory{
			Attended:       []EventRecord{},
			Interested:     []EventRecord{},
			FavoriteVenues: []string{},
			AvoidedEvents:  []string{},
		},
		BotInteractions: BotInteractions{
			CrossBotRecommendations: []string{},
			PendingActions:          []PendingAction{},
		},
		Profile: Profile{
			Hobbies:             []string{},
			FamilySize:          1,
			DietaryRestrictions: []string{},
		},
	}
}

// ToMap converts the document to a generic JSON map for merging.
func (c *UserContext) ToMap() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ContextFromMap decodes a generic JSON map back into a typed document.
func ContextFromMap(m map[string]any) (*UserContext, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	c := &UserContext{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
