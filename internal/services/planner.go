package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/metrics"
	"github.com/Conceptual-Machines/muse-api/internal/music"
)

// Music length bounds accepted by the plan endpoint, in milliseconds
const (
	MinMusicLengthMs = 1000
	MaxMusicLengthMs = 300000

	// DefaultMusicLengthMs applies when a caller omits the length
	DefaultMusicLengthMs = 30000
)

// PlanClient is the slice of the music API the planner depends on
type PlanClient interface {
	CreatePlan(ctx context.Context, prompt string, musicLengthMs int) (*music.CompositionPlan, error)
}

// Planner turns a free-text prompt into a structured composition plan via
// the music API. Input is validated before any network call happens, and
// upstream responses are reshaped defensively: missing fields become empty
// values, section order stays exactly as received.
type Planner struct {
	client  PlanClient
	timeout time.Duration
	metrics *metrics.SentryMetrics
	cw      *metrics.Client
}

// NewPlanner creates a planner backed by the given plan client. cw may come
// from a disabled environment; recording is a no-op there.
func NewPlanner(client PlanClient, timeout time.Duration, cw *metrics.Client) *Planner {
	return &Planner{
		client:  client,
		timeout: timeout,
		metrics: metrics.NewSentryMetrics(),
		cw:      cw,
	}
}

// GeneratePlan requests a composition plan for the prompt. musicLengthMs
// must be within [MinMusicLengthMs, MaxMusicLengthMs].
func (p *Planner) GeneratePlan(ctx context.Context, prompt string, musicLengthMs int) (*music.CompositionPlan, error) {
	// Validate before touching the network
	if strings.TrimSpace(prompt) == "" {
		return nil, &music.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	if musicLengthMs < MinMusicLengthMs || musicLengthMs > MaxMusicLengthMs {
		return nil, &music.ValidationError{
			Field:  "music_length_ms",
			Reason: fmt.Sprintf("must be between %d and %d", MinMusicLengthMs, MaxMusicLengthMs),
		}
	}

	startTime := time.Now()
	log.Printf("📋 PLAN REQUEST STARTED (length: %dms, prompt: %d chars)", musicLengthMs, len(prompt))

	planCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		planCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	plan, err := p.client.CreatePlan(planCtx, prompt, musicLengthMs)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("❌ PLAN REQUEST FAILED after %v: %v", duration, err)
		p.metrics.RecordGenerationDuration(ctx, duration, false)
		p.recordCloudWatch(duration, false)
		return nil, &music.GenerationError{Op: "plan", Err: err}
	}

	// Whatever fields the API omitted stay usable zero values; section order
	// is kept exactly as received.
	plan.Normalize()

	p.metrics.RecordGenerationDuration(ctx, duration, true)
	p.recordCloudWatch(duration, true)
	log.Printf("✅ PLAN REQUEST COMPLETED in %v (%d sections)", duration, len(plan.Sections))
	return plan, nil
}

func (p *Planner) recordCloudWatch(duration time.Duration, success bool) {
	if p.cw != nil {
		p.cw.RecordGenerationDuration(duration, success)
	}
}
