package observability

import (
	"strconv"

	"github.com/openai/openai-go/responses"
	"google.golang.org/genai"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	// GPT-5 pricing
	gpt5InputPrice  = 0.00125
	gpt5OutputPrice = 0.01

	// GPT-5-mini pricing
	gpt5MiniInputPrice  = 0.00025
	gpt5MiniOutputPrice = 0.002

	// GPT-5-nano pricing
	gpt5NanoInputPrice  = 0.00005
	gpt5NanoOutputPrice = 0.0004

	// GPT-4.1-mini pricing
	gpt41MiniInputPrice  = 0.0004
	gpt41MiniOutputPrice = 0.0016

	// Gemini 2.5 Flash pricing
	gemini25FlashInputPrice  = 0.0003
	gemini25FlashOutputPrice = 0.0025
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for all models
var PricingTable = map[string]ModelPricing{
	// GPT-5 models
	"gpt-5": {
		InputPricePer1K:  gpt5InputPrice,
		OutputPricePer1K: gpt5OutputPrice,
	},
	"gpt-5-mini": {
		InputPricePer1K:  gpt5MiniInputPrice,
		OutputPricePer1K: gpt5MiniOutputPrice,
	},
	"gpt-5-nano": {
		InputPricePer1K:  gpt5NanoInputPrice,
		OutputPricePer1K: gpt5NanoOutputPrice,
	},
	// GPT-4.1 models
	"gpt-4.1-mini": {
		InputPricePer1K:  gpt41MiniInputPrice,
		OutputPricePer1K: gpt41MiniOutputPrice,
	},
	// Gemini models
	"gemini-2.5-flash": {
		InputPricePer1K:  gemini25FlashInputPrice,
		OutputPricePer1K: gemini25FlashOutputPrice,
	},
}

// CalculateOpenAICost calculates the cost in USD for an OpenAI API call
func CalculateOpenAICost(model string, usage responses.ResponseUsage) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		// Default to GPT-5-mini pricing if model not found
		pricing = PricingTable["gpt-5-mini"]
	}

	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K

	// Add reasoning tokens if present
	reasoningCost := 0.0
	if usage.OutputTokensDetails.ReasoningTokens > 0 {
		// Reasoning tokens typically cost the same as input tokens
		reasoningCost = (float64(usage.OutputTokensDetails.ReasoningTokens) / tokensPerKilo) * pricing.InputPricePer1K
	}

	totalCost := inputCost + outputCost + reasoningCost
	return totalCost
}

// CalculateGeminiCost calculates the cost in USD for a Gemini API call
func CalculateGeminiCost(model string, usage *genai.GenerateContentResponseUsageMetadata) float64 {
	if usage == nil {
		return 0
	}

	pricing, exists := PricingTable[model]
	if !exists {
		pricing = PricingTable["gemini-2.5-flash"]
	}

	inputCost := (float64(usage.PromptTokenCount) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.CandidatesTokenCount) / tokensPerKilo) * pricing.OutputPricePer1K

	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + formatFloat(cost, costFormatPrecision)
}

// formatFloat formats a float with specified precision using strconv
func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}
