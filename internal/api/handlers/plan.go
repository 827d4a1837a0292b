package handlers

import (
	"log"
	"net/http"

	"github.com/Conceptual-Machines/muse-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planner *services.Planner
}

func NewPlanHandler(planner *services.Planner) *PlanHandler {
	return &PlanHandler{planner: planner}
}

type PlanGenerationRequest struct {
	Prompt        string `json:"prompt" binding:"required"`
	MusicLengthMs int    `json:"music_length_ms"`
}

// Generate drafts a composition plan for a free-text prompt. The response
// body is the bare plan so it can be fed straight back into /render.
func (h *PlanHandler) Generate(c *gin.Context) {
	var req PlanGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ PLAN: JSON binding error: %v", err)
		respondBindError(c, err)
		return
	}

	if req.MusicLengthMs == 0 {
		req.MusicLengthMs = services.DefaultMusicLengthMs
	}

	log.Printf("📨 PLAN: Received request (length: %dms, prompt: %d chars)", req.MusicLengthMs, len(req.Prompt))

	plan, err := h.planner.GeneratePlan(c.Request.Context(), req.Prompt, req.MusicLengthMs)
	if err != nil {
		log.Printf("❌ PLAN: Generation error: %v", err)
		respondError(c, err)
		return
	}

	log.Printf("✅ PLAN: Generated %d sections", len(plan.Sections))
	c.JSON(http.StatusOK, plan)
}
