package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/agents/promptwriter"
	"github.com/Conceptual-Machines/muse-api/internal/metrics"
	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/Conceptual-Machines/muse-api/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/openai/openai-go/responses"
)

type PromptHandler struct {
	agent *promptwriter.Agent
	cw    *metrics.Client
}

func NewPromptHandler(agent *promptwriter.Agent, cw *metrics.Client) *PromptHandler {
	return &PromptHandler{agent: agent, cw: cw}
}

type PromptResponse struct {
	Prompt          string                `json:"prompt"`
	RequestID       string                `json:"request_id"`
	Timestamp       string                `json:"timestamp"`
	InputParameters music.PresetSelection `json:"input_parameters"`
}

// Generate turns a preset selection into an ElevenLabs-ready music prompt
func (h *PromptHandler) Generate(c *gin.Context) {
	var selection music.PresetSelection
	if err := c.ShouldBindJSON(&selection); err != nil {
		log.Printf("❌ PROMPT: JSON binding error: %v", err)
		respondBindError(c, err)
		return
	}

	// Log incoming request
	log.Printf("📨 PROMPT: Received request")
	log.Printf("   Blueprint: %s", selection.ProjectBlueprint)
	log.Printf("   Profile: %s", selection.SoundProfile)
	log.Printf("   Delivery: %s", selection.DeliveryAndControl)
	log.Printf("   Instrumental: %v", selection.InstrumentalOnly)
	if selection.UserNarrative != nil {
		log.Printf("   Narrative length: %d", len(*selection.UserNarrative))
	}

	// Start Langfuse trace for observability
	lfClient := observability.GetClient()
	trace := lfClient.StartTrace(c.Request.Context(), "muse-prompt", map[string]interface{}{
		"project_blueprint":    string(selection.ProjectBlueprint),
		"sound_profile":        string(selection.SoundProfile),
		"delivery_and_control": string(selection.DeliveryAndControl),
		"instrumental_only":    selection.InstrumentalOnly,
	})
	defer trace.Finish()

	gen := trace.Generation("promptwriter", map[string]interface{}{
		"model": h.agent.Model(),
	})

	result, err := h.agent.Generate(c.Request.Context(), &selection)
	if err != nil {
		log.Printf("❌ PROMPT: Generation error: %v", err)
		gen.SetLevel("ERROR")
		gen.Output(err.Error())
		gen.Finish()
		respondError(c, err)
		return
	}

	gen.LogTextGeneration(h.agent.Model(), selection, result.Prompt, result.Usage)
	gen.Finish()

	// Record token usage in CloudWatch
	if h.cw != nil && result.Usage != nil {
		if usage, ok := result.Usage.(responses.ResponseUsage); ok {
			h.cw.RecordTokenUsage(h.agent.Model(),
				int(usage.TotalTokens),
				int(usage.InputTokens),
				int(usage.OutputTokens),
				int(usage.OutputTokensDetails.ReasoningTokens))
		}
	}

	log.Printf("✅ PROMPT: Generated %d chars", len(result.Prompt))

	c.JSON(http.StatusOK, PromptResponse{
		Prompt:          result.Prompt,
		RequestID:       c.GetString("request_id"),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		InputParameters: selection,
	})
}

// Reload forces a re-read of the instruction document so prompt authors can
// iterate without restarting the service
func (h *PromptHandler) Reload(c *gin.Context) {
	if err := h.agent.Reload(); err != nil {
		log.Printf("❌ PROMPT: Reload failed: %v", err)
		respondError(c, err)
		return
	}

	log.Printf("🔄 PROMPT: Instructions reloaded")
	c.JSON(http.StatusOK, gin.H{
		"status":     "reloaded",
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
