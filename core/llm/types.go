// Package llm provides the generative text layer shared by every
// agent. A Client walks an ordered provider chain (Google first, then
// any configured fallbacks) with bounded retries, and exposes plain,
// chat, and schema-constrained generation.
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Tier selects between the cheap conversational models and the heavier
// reasoning models.
type Tier string

const (
	TierFlash Tier = "flash"
	TierPro   Tier = "pro"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request describes a single generation call.
type Request struct {
	Messages     []Message
	SystemPrompt string

	// Model overrides the provider's tier default when set.
	Model string
	Tier  Tier

	Temperature *float64
	MaxTokens   int

	// ResponseSchema constrains the output to a JSON object matching
	// the given JSON-schema fragment. Providers without native schema
	// support fall back to prompt-level instruction.
	ResponseSchema map[string]any
}

// Response is the provider-normalized result of a generation call.
type Response struct {
	Content string
	Model   string
}

// Provider is a single backing model service.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Ptr returns a pointer to v, for optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
