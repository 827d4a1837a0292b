package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/api/middleware"
	"github.com/Conceptual-Machines/muse-api/internal/config"
	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMusicAPI stands in for the ElevenLabs music endpoint so end-to-end
// routing can be exercised without network access
func fakeMusicAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/music/plan" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(music.CompositionPlan{
			PositiveGlobalStyles: []string{"ambient"},
			NegativeGlobalStyles: []string{},
			Sections: []music.Section{
				{SectionName: "Opening", DurationMs: 15000},
				{SectionName: "Close", DurationMs: 15000},
			},
		})
		require.NoError(t, err)
	}))
}

func testConfig(t *testing.T, upstream string) *config.Config {
	t.Helper()
	return &config.Config{
		Environment:        "test",
		Port:               "0",
		OpenAIAPIKey:       "sk-test",
		PromptModel:        "gpt-5-mini",
		ReasoningMode:      "medium",
		PromptTimeout:      5 * time.Second,
		ElevenLabsAPIKey:   "el-test",
		ElevenLabsBaseURL:  upstream,
		PlanTimeout:        5 * time.Second,
		RenderTimeout:      5 * time.Second,
		ContentDir:         t.TempDir(),
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := SetupRouter(cfg, "test")
	require.NoError(t, err)
	return router
}

func TestRouterGeneratesRequestID(t *testing.T) {
	upstream := fakeMusicAPI(t)
	defer upstream.Close()
	router := newTestRouter(t, testConfig(t, upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouterHonorsInboundRequestID(t *testing.T) {
	upstream := fakeMusicAPI(t)
	defer upstream.Close()
	router := newTestRouter(t, testConfig(t, upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "caller-supplied-id", w.Header().Get("X-Request-ID"))
}

func TestRouterPlanEndToEnd(t *testing.T) {
	upstream := fakeMusicAPI(t)
	defer upstream.Close()
	router := newTestRouter(t, testConfig(t, upstream.URL))

	payload, err := json.Marshal(gin.H{"prompt": "calm ambient", "music_length_ms": 30000})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var plan music.CompositionPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	require.Len(t, plan.Sections, 2)
	assert.Equal(t, "Opening", plan.Sections[0].SectionName)
	assert.Equal(t, "Close", plan.Sections[1].SectionName)
}

func TestRouterServiceAuth(t *testing.T) {
	upstream := fakeMusicAPI(t)
	defer upstream.Close()
	cfg := testConfig(t, upstream.URL)
	cfg.ServiceTokenSecret = "shared-test-secret"
	router := newTestRouter(t, cfg)

	payload, err := json.Marshal(gin.H{"prompt": "calm ambient"})
	require.NoError(t, err)

	// Generation routes require a token once a secret is configured
	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A valid HS256 service token opens them up
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.ServiceClaims{
		Service: "test-suite",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(cfg.ServiceTokenSecret))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signed)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays public
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterDownloadUnknownArtifact(t *testing.T) {
	upstream := fakeMusicAPI(t)
	defer upstream.Close()
	router := newTestRouter(t, testConfig(t, upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/render/download/never.mp3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Not Found", resp["error"])
}
