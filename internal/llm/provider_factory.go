package llm

import (
	"context"
	"fmt"
	"strings"
)

// ProviderFactory creates providers based on model name
type ProviderFactory struct {
	openaiAPIKey string
	geminiAPIKey string
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(openaiAPIKey, geminiAPIKey string) *ProviderFactory {
	return &ProviderFactory{
		openaiAPIKey: openaiAPIKey,
		geminiAPIKey: geminiAPIKey,
	}
}

// IsGeminiModel reports whether a model name routes to Google's API
func IsGeminiModel(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "gemini-")
}

// GetProvider returns the appropriate provider for the given model name
func (f *ProviderFactory) GetProvider(ctx context.Context, model string) (Provider, error) {
	// Gemini models use Google's API
	if IsGeminiModel(model) {
		if f.geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return NewGeminiProvider(ctx, f.geminiAPIKey)
	}

	// GPT models and everything else default to OpenAI
	if f.openaiAPIKey == "" {
		return nil, fmt.Errorf("openai API key not configured")
	}
	return NewOpenAIProvider(f.openaiAPIKey), nil
}
