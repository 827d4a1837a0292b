package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/muse-api/internal/config"
	"github.com/Conceptual-Machines/muse-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store, err := storage.NewContentStore(t.TempDir())
	require.NoError(t, err)

	healthHandler := NewHealthHandler(cfg, store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/alive", healthHandler.Alive)

	return router
}

func getJSON(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealthCheck_Healthy(t *testing.T) {
	router := setupHealthRouter(t, &config.Config{
		PromptModel:      "gpt-5-mini",
		OpenAIAPIKey:     "sk-test",
		ElevenLabsAPIKey: "el-test",
	})

	w, body := getJSON(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	checks := body["checks"].(map[string]any)
	assert.Equal(t, "configured", checks["llm"].(map[string]any)["status"])
	assert.Equal(t, "configured", checks["elevenlabs"].(map[string]any)["status"])
	assert.Equal(t, "writable", checks["content_store"].(map[string]any)["status"])
}

func TestHealthCheck_DegradedWithoutKeys(t *testing.T) {
	router := setupHealthRouter(t, &config.Config{
		PromptModel: "gpt-5-mini",
	})

	w, body := getJSON(t, router, "/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])

	checks := body["checks"].(map[string]any)
	assert.Equal(t, "missing key", checks["llm"].(map[string]any)["status"])
	assert.Equal(t, "missing key", checks["elevenlabs"].(map[string]any)["status"])
}

func TestHealthCheck_GeminiModelUsesGeminiKey(t *testing.T) {
	router := setupHealthRouter(t, &config.Config{
		PromptModel:      "gemini-2.5-flash",
		GeminiAPIKey:     "gm-test",
		ElevenLabsAPIKey: "el-test",
	})

	w, body := getJSON(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	llmCheck := body["checks"].(map[string]any)["llm"].(map[string]any)
	assert.Equal(t, "configured", llmCheck["status"])
	assert.Equal(t, "gemini-2.5-flash", llmCheck["model"])
}

func TestProbes(t *testing.T) {
	router := setupHealthRouter(t, &config.Config{})

	w, body := getJSON(t, router, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ready"])

	w, body = getJSON(t, router, "/alive")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["alive"])
}
