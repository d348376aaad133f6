// Package signals extracts typed signals from inbound chat messages:
// illness and recovery keywords, monetary amounts, cuisine mentions. Bots
// and domain rules consume the typed result instead of running their own
// regexes, keeping heuristics in one place.
package signals

import (
	"regexp"
	"strconv"
	"strings"
)

var illnessKeywords = []string{
	"fever", "cold", "cough", "sick", "ill", "flu", "infection",
	"rash", "dengue", "chikungunya",
}

var recoveryKeywords = []string{
	"fine", "healthy", "not sick", "recovered", "better now",
}

var medicalKeywords = []string{
	"hospital", "doctor", "medicine", "medical", "treatment", "health", "sick",
}

var cuisineKeywords = []string{
	"indian", "italian", "japanese", "chinese", "thai", "mexican",
	"continental", "south indian", "north indian",
}

var (
	incomePattern  = regexp.MustCompile(`(?i)(?:salary|income|earn|make)\s*(?:is\s*)?(?:of|₹|rs\.?)?\s*(?:₹|rs\.?)?\s*(\d+[,.]?\d*)`)
	expensePattern = regexp.MustCompile(`(?i)(?:spent|spend|expense|cost|paid)\s*(?:₹|rs\.?)?\s*(\d+[,.]?\d*)`)
	balancePattern = regexp.MustCompile(`(?i)(?:balance|have|saved|save)\s*(?:is\s*)?(?:₹|rs\.?)?\s*(\d+[,.]?\d*)`)
)

// Signals is the typed set of detections for one message.
type Signals struct {
	Illness        bool
	Recovery       bool
	MedicalExpense bool
	Income         *float64
	Expense        *float64
	Balance        *float64
	Cuisines       []string
}

// Extract runs every detector over the message.
func Extract(message string) Signals {
	lower := strings.ToLower(message)

	sig := Signals{
		Illness:        containsAny(lower, illnessKeywords),
		Recovery:       containsAny(lower, recoveryKeywords),
		MedicalExpense: containsAny(lower, medicalKeywords),
		Income:         matchAmount(incomePattern, message),
		Expense:        matchAmount(expensePattern, message),
		Balance:        matchAmount(balancePattern, message),
	}

	for _, cuisine := range cuisineKeywords {
		if strings.Contains(lower, cuisine) {
			sig.Cuisines = append(sig.Cuisines, cuisine)
		}
	}

	return sig
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func matchAmount(pattern *regexp.Regexp, message string) *float64 {
	match := pattern.FindStringSubmatch(message)
	if match == nil {
		return nil
	}
	raw := strings.NewReplacer(",", "", ".", "").Replace(match[1])
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &amount
}

// MentionsAllergen reports whether the message mentions any of the user's
// recorded allergens. Short words are skipped to avoid false positives on
// fragments.
func MentionsAllergen(message string, allergies []string) bool {
	lower := strings.ToLower(message)
	for _, allergy := range allergies {
		for _, word := range strings.FieldsFunc(strings.ToLower(allergy), func(r rune) bool {
			return r == ',' || r == ' '
		}) {
			if len(word) > 3 && strings.Contains(lower, word) {
				return true
			}
		}
	}
	return false
}
