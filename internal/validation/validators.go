package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/lifebots/assistant-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("transaction_type", validateTransactionType); err != nil {
		panic(fmt.Sprintf("failed to register transaction_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("chat_role", validateChatRole); err != nil {
		panic(fmt.Sprintf("failed to register chat_role validator: %v", err))
	}
}

// validateTransactionType validates that a string is a known transaction type
func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionIncome, models.TransactionExpense:
		return true
	default:
		return false
	}
}

// validateChatRole validates a chat history role
func validateChatRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "user", "assistant", "model":
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
