package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeminiProvider_Name(t *testing.T) {
	// We can't create a real client without an API key
	// So just test the name method with a nil client
	provider := &GeminiProvider{client: nil}
	assert.Equal(t, "gemini", provider.Name())
}

func TestNewGeminiProvider_InvalidKey(t *testing.T) {
	ctx := context.Background()
	provider, err := NewGeminiProvider(ctx, "invalid-key")

	// This might succeed (client creation) or fail depending on SDK validation
	// The important thing is we can create the provider object
	if err != nil {
		assert.Error(t, err)
	} else {
		assert.NotNil(t, provider)
		assert.Equal(t, "gemini", provider.Name())
	}
}
