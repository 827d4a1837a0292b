package llm

import (
	"context"
)

// Provider defines the interface for LLM providers
// Muse only needs single-turn text generation: an instruction document plus
// one user message in, plain text out
type Provider interface {
	// Generate produces a text completion for a single user turn
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model         string
	Instructions  string // System-level instruction document
	UserMessage   string // Single user turn
	ReasoningMode string // minimal, low, medium, high (reasoning models only)
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	Text  string `json:"text"`
	Usage any    `json:"usage"`
}
