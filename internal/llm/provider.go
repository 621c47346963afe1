package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction over the grading engine.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt (and any image attachments) to the engine
	// and returns a structured response. The request's Schema field,
	// when set, instructs the provider to return JSON conforming to
	// that schema. The response Content will be the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the engine.
type Request struct {
	// System is the system prompt. Sets the engine's role and constraints.
	System string

	// Messages is the conversation history. For single-turn generation
	// (the common case here), this contains one user message.
	Messages []Message

	// Images are attached to the final user turn. Used by the extraction
	// stage to submit the homework photo.
	Images []Image

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is the raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Image is a binary attachment for multimodal requests.
type Image struct {
	// MIMEType is e.g. "image/jpeg" or "image/png".
	MIMEType string

	// Data is the raw image bytes, read once per request and never
	// retained beyond it.
	Data []byte
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the engine.
type Schema struct {
	// Name identifies this schema (used as tool name for Anthropic,
	// schema name for OpenAI). Kebab-case, e.g. "extracted-problems".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the engine to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the engine's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. When no Schema was
	// provided, this is the raw text response wrapped as a JSON string.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
