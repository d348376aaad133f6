package ai

import (
	"context"
)

// Message represents a single turn in a bot conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request is a single generation request. System carries the bot's
// context-laden instructions, History the prior turns, Message the new
// user turn. JSONOnly asks the provider for a strict JSON response.
type Request struct {
	System   string
	History  []Message
	Message  string
	JSONOnly bool
}

// Generator is the interface bot handlers depend on. Keeping it this
// narrow lets tests substitute a canned generator.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
