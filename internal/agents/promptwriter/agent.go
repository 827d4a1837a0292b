package promptwriter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/config"
	"github.com/Conceptual-Machines/muse-api/internal/llm"
	"github.com/Conceptual-Machines/muse-api/internal/metrics"
	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/Conceptual-Machines/muse-api/internal/prompt"
	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go/responses"
)

// Agent turns a closed preset selection into a rich ElevenLabs-ready music
// prompt using a single LLM turn against the prompt-architect instructions
type Agent struct {
	provider     llm.Provider
	instructions *prompt.Source
	model        string
	reasoning    string
	timeout      time.Duration
	metrics      *metrics.SentryMetrics
}

// Result contains the generated prompt text
type Result struct {
	Prompt string `json:"prompt"`
	Usage  any    `json:"usage"`
}

// NewAgent creates a prompt agent using the default provider for the
// configured model
func NewAgent(cfg *config.Config) *Agent {
	return NewAgentWithProvider(cfg, nil)
}

// NewAgentWithProvider creates a prompt agent with a specific LLM provider
func NewAgentWithProvider(cfg *config.Config, provider llm.Provider) *Agent {
	// Use provided provider or create OpenAI provider (default)
	if provider == nil {
		provider = llm.NewOpenAIProvider(cfg.OpenAIAPIKey)
	}

	agent := &Agent{
		provider:     provider,
		instructions: prompt.NewSource(cfg.InstructionsPath),
		model:        cfg.PromptModel,
		reasoning:    cfg.ReasoningMode,
		timeout:      cfg.PromptTimeout,
		metrics:      metrics.NewSentryMetrics(),
	}

	log.Printf("🎼 PROMPT AGENT INITIALIZED:")
	log.Printf("   Provider: %s", provider.Name())
	log.Printf("   Model: %s", cfg.PromptModel)

	return agent
}

// Generate creates a music prompt from a preset selection. The selection is
// validated before any network call; the model receives the selection as a
// pretty-printed JSON document in a single user turn.
func (a *Agent) Generate(ctx context.Context, selection *music.PresetSelection) (*Result, error) {
	startTime := time.Now()
	log.Printf("🎼 PROMPT REQUEST STARTED (Model: %s)", a.model)

	if err := selection.Validate(); err != nil {
		return nil, err
	}

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "promptwriter.generate")
	defer transaction.Finish()

	transaction.SetTag("model", a.model)
	transaction.SetTag("project_blueprint", string(selection.ProjectBlueprint))
	transaction.SetTag("sound_profile", string(selection.SoundProfile))
	transaction.SetTag("delivery_and_control", string(selection.DeliveryAndControl))

	instructions, err := a.instructions.Instructions()
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}

	userMessage, err := json.MarshalIndent(selection, "", "  ")
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, &music.GenerationError{Op: "prompt", Err: err}
	}

	request := &llm.GenerationRequest{
		Model:         a.model,
		Instructions:  instructions,
		UserMessage:   string(userMessage),
		ReasoningMode: a.reasoning,
	}

	log.Printf("🚀 PROMPT REQUEST: %s model=%s", a.provider.Name(), a.model)

	genCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.provider.Generate(genCtx, request)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		a.metrics.RecordGenerationDuration(ctx, time.Since(startTime), false)
		return nil, &music.GenerationError{Op: "prompt", Err: err}
	}

	promptText := strings.TrimSpace(resp.Text)
	if promptText == "" {
		transaction.SetTag("success", "false")
		a.metrics.RecordGenerationDuration(ctx, time.Since(startTime), false)
		return nil, &music.GenerationError{Op: "prompt", Err: fmt.Errorf("model returned empty output")}
	}

	// Record metrics
	transaction.SetTag("success", "true")

	duration := time.Since(startTime)
	a.metrics.RecordGenerationDuration(ctx, duration, true)

	// Record token usage if available
	if resp.Usage != nil {
		if usage, ok := resp.Usage.(responses.ResponseUsage); ok {
			a.metrics.RecordTokenUsage(ctx, a.model,
				int(usage.TotalTokens),
				int(usage.InputTokens),
				int(usage.OutputTokens),
				int(usage.OutputTokensDetails.ReasoningTokens))
		}
	}

	log.Printf("✅ PROMPT COMPLETE: %d chars in %v", len(promptText), duration)

	return &Result{
		Prompt: promptText,
		Usage:  resp.Usage,
	}, nil
}

// Model returns the model the agent generates with
func (a *Agent) Model() string {
	return a.model
}

// Reload re-reads the instruction document from its configured source. The
// previous document keeps serving when the reload fails.
func (a *Agent) Reload() error {
	return a.instructions.Reload()
}
