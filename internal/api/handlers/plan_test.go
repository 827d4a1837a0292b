package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/Conceptual-Machines/muse-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPlanClient struct {
	calls        int
	lastPrompt   string
	lastLengthMs int
	plan         *music.CompositionPlan
	err          error
}

func (f *capturingPlanClient) CreatePlan(ctx context.Context, prompt string, musicLengthMs int) (*music.CompositionPlan, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastLengthMs = musicLengthMs
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

func setupPlanRouter(client services.PlanClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	planner := services.NewPlanner(client, 0, nil)
	planHandler := NewPlanHandler(planner)
	router.POST("/plan", planHandler.Generate)

	return router
}

func TestPlanHandler_Generate(t *testing.T) {
	client := &capturingPlanClient{plan: &music.CompositionPlan{
		PositiveGlobalStyles: []string{"synthwave", "retro"},
		NegativeGlobalStyles: []string{"acoustic"},
		Sections: []music.Section{
			{SectionName: "Intro", DurationMs: 5000},
			{SectionName: "Verse", DurationMs: 15000, Lines: []string{"neon lights"}},
			{SectionName: "Outro", DurationMs: 10000},
		},
	}}
	router := setupPlanRouter(client)

	w := postJSON(t, router, "/plan", gin.H{"prompt": "retro synthwave", "music_length_ms": 30000})
	require.Equal(t, http.StatusOK, w.Code)

	// The response is the bare plan, ready to feed back into /render.
	var plan music.CompositionPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, []string{"synthwave", "retro"}, plan.PositiveGlobalStyles)
	require.Len(t, plan.Sections, 3)
	assert.Equal(t, "Intro", plan.Sections[0].SectionName)
	assert.Equal(t, "Verse", plan.Sections[1].SectionName)
	assert.Equal(t, "Outro", plan.Sections[2].SectionName)

	assert.Equal(t, "retro synthwave", client.lastPrompt)
	assert.Equal(t, 30000, client.lastLengthMs)
}

func TestPlanHandler_DefaultLength(t *testing.T) {
	client := &capturingPlanClient{plan: &music.CompositionPlan{}}
	router := setupPlanRouter(client)

	w := postJSON(t, router, "/plan", gin.H{"prompt": "ambient pads"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.DefaultMusicLengthMs, client.lastLengthMs)
}

func TestPlanHandler_RejectsOutOfRangeLength(t *testing.T) {
	client := &capturingPlanClient{plan: &music.CompositionPlan{}}
	router := setupPlanRouter(client)

	for _, lengthMs := range []int{999, 300001, -1} {
		w := postJSON(t, router, "/plan", gin.H{"prompt": "anything", "music_length_ms": lengthMs})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, "length %d should be rejected", lengthMs)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, errValidation, resp.Error)
		assert.Contains(t, resp.Message, "music_length_ms")
	}
	assert.Equal(t, 0, client.calls, "invalid lengths must never reach the client")
}

func TestPlanHandler_RejectsMissingPrompt(t *testing.T) {
	client := &capturingPlanClient{plan: &music.CompositionPlan{}}
	router := setupPlanRouter(client)

	w := postJSON(t, router, "/plan", gin.H{"music_length_ms": 30000})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, client.calls)
}

func TestPlanHandler_HidesUpstreamFailureDetail(t *testing.T) {
	client := &capturingPlanClient{err: assert.AnError}
	router := setupPlanRouter(client)

	w := postJSON(t, router, "/plan", gin.H{"prompt": "anything", "music_length_ms": 30000})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errGeneration, resp.Error)
	assert.Equal(t, msgGeneration, resp.Message)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
