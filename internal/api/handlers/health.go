package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/config"
	"github.com/Conceptual-Machines/muse-api/internal/llm"
	"github.com/Conceptual-Machines/muse-api/internal/storage"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	cfg   *config.Config
	store *storage.ContentStore
}

func NewHealthHandler(cfg *config.Config, store *storage.ContentStore) *HealthHandler {
	return &HealthHandler{cfg: cfg, store: store}
}

// HealthCheck reports the service's view of its dependencies: the LLM key
// for the configured prompt model, the ElevenLabs key, and whether the
// content store accepts writes. Any failing check degrades the status to 503.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	healthy := true
	checks := gin.H{}

	llmStatus := "configured"
	if h.llmKeyMissing() {
		llmStatus = "missing key"
		healthy = false
	}
	checks["llm"] = gin.H{"status": llmStatus, "model": h.cfg.PromptModel}

	elevenStatus := "configured"
	if h.cfg.ElevenLabsAPIKey == "" {
		elevenStatus = "missing key"
		healthy = false
	}
	checks["elevenlabs"] = gin.H{"status": elevenStatus}

	storeStatus := "writable"
	if err := h.probeContentStore(); err != nil {
		storeStatus = "unwritable"
		healthy = false
	}
	checks["content_store"] = gin.H{"status": storeStatus, "dir": h.store.Dir()}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready is the readiness probe
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ready":     true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Alive is the liveness probe
func (h *HealthHandler) Alive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) llmKeyMissing() bool {
	if llm.IsGeminiModel(h.cfg.PromptModel) {
		return h.cfg.GeminiAPIKey == ""
	}
	return h.cfg.OpenAIAPIKey == ""
}

// probeContentStore verifies writes actually succeed, not just that the
// directory exists
func (h *HealthHandler) probeContentStore() error {
	probe, err := os.CreateTemp(h.store.Dir(), ".healthcheck-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	if err := probe.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
