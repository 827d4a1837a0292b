package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider(t *testing.T) {
	provider := NewOpenAIProvider("test-api-key")
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
	assert.NotNil(t, provider.client)
}

func TestOpenAIProvider_BuildRequestParams(t *testing.T) {
	provider := NewOpenAIProvider("test-key")

	tests := []struct {
		name    string
		request *GenerationRequest
		checks  func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest)
	}{
		{
			name: "basic request carries model and instructions",
			request: &GenerationRequest{
				Model:         "gpt-5-mini",
				ReasoningMode: "medium",
				Instructions:  "test instruction document",
				UserMessage:   "test content",
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.Equal(t, "gpt-5-mini", params.Model)
				assert.NotNil(t, params.Instructions.Value)
				assert.Equal(t, "test instruction document", params.Instructions.Value)
				assert.Len(t, params.Input.OfInputItemList, 1)
			},
		},
		{
			name: "gpt-5 family request includes reasoning effort",
			request: &GenerationRequest{
				Model:         "gpt-5-mini",
				ReasoningMode: "high",
				Instructions:  "test prompt",
				UserMessage:   "test",
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.NotEmpty(t, params.Reasoning.Effort)
			},
		},
		{
			name: "non-reasoning model omits reasoning effort",
			request: &GenerationRequest{
				Model:         "gpt-4.1-mini",
				ReasoningMode: "high",
				Instructions:  "test prompt",
				UserMessage:   "test",
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.Empty(t, params.Reasoning.Effort)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checks(t, provider, tt.request)
		})
	}
}

func TestOpenAIProvider_ReasoningModeMapping(t *testing.T) {
	provider := NewOpenAIProvider("test-key")

	tests := []struct {
		mode string
	}{
		{"minimal"},
		{"low"},
		{"medium"},
		{"high"},
		{"unknown-falls-back"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			request := &GenerationRequest{
				Model:         "gpt-5-mini",
				ReasoningMode: tt.mode,
				Instructions:  "test",
				UserMessage:   "test",
			}
			params := provider.buildRequestParams(request)
			assert.NotEmpty(t, params.Reasoning.Effort)
		})
	}
}
