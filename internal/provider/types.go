// Package provider defines the interface to the external text-generation
// backend and a registry of backend implementations.
package provider

import "context"

// Message is a single chat message sent to the backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one generation request for one declaration.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
}

// Generator sends a completion request and returns the first generated
// choice's content. Implementations own their timeout and retry policy.
type Generator interface {
	Generate(ctx context.Context, req CompletionRequest) (string, error)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(text string) Message {
	return Message{Role: "system", Content: text}
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) Message {
	return Message{Role: "user", Content: text}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(text string) Message {
	return Message{Role: "assistant", Content: text}
}
