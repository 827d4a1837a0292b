package services

import (
	"context"
	"log"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/elevenmusic"
	"github.com/Conceptual-Machines/muse-api/internal/metrics"
	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/Conceptual-Machines/muse-api/internal/storage"
)

// RenderClient is the slice of the music API the renderer depends on
type RenderClient interface {
	ComposeDetailed(ctx context.Context, plan *music.CompositionPlan) (*elevenmusic.DetailedRender, error)
}

// Renderer turns a composition plan into a persisted audio artifact. Every
// call produces a fresh artifact; repeated identical plans never share a
// file. Upstream failures surface as GenerationError, local write failures
// as StorageError, so the two are distinguishable at the boundary.
type Renderer struct {
	client  RenderClient
	store   *storage.ContentStore
	archive *storage.Archive
	timeout time.Duration
	metrics *metrics.SentryMetrics
	cw      *metrics.Client
}

// NewRenderer creates a renderer that persists audio through store and
// optionally mirrors it through archive
func NewRenderer(client RenderClient, store *storage.ContentStore, archive *storage.Archive, timeout time.Duration, cw *metrics.Client) *Renderer {
	return &Renderer{
		client:  client,
		store:   store,
		archive: archive,
		timeout: timeout,
		metrics: metrics.NewSentryMetrics(),
		cw:      cw,
	}
}

// Render sends the plan to the music API and persists the returned audio
// under the content store. The artifact's size always comes from a stat of
// the written file, never from upstream-reported numbers.
func (r *Renderer) Render(ctx context.Context, plan *music.CompositionPlan) (*music.RenderArtifact, error) {
	startTime := time.Now()
	log.Printf("🎧 RENDER REQUEST STARTED (%d sections)", len(plan.Sections))

	renderCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result, err := r.client.ComposeDetailed(renderCtx, plan)
	if err != nil {
		duration := time.Since(startTime)
		log.Printf("❌ RENDER REQUEST FAILED after %v: %v", duration, err)
		r.recordMetrics(ctx, 0, duration, false)
		return nil, &music.GenerationError{Op: "render", Err: err}
	}

	filename, path, err := r.store.Persist(result.Filename, result.Audio)
	if err != nil {
		duration := time.Since(startTime)
		log.Printf("❌ RENDER PERSIST FAILED after %v: %v", duration, err)
		r.recordMetrics(ctx, 0, duration, false)
		return nil, err
	}

	// Size comes from the written file, not the upstream response
	size, err := r.store.Size(path)
	if err != nil {
		return nil, err
	}

	artifact := &music.RenderArtifact{
		Filename:     filename,
		StoragePath:  path,
		SizeBytes:    size,
		ContentType:  music.AudioContentType,
		PlanEcho:     result.Plan,
		SongMetadata: result.SongMetadata,
	}

	duration := time.Since(startTime)
	r.recordMetrics(ctx, size, duration, true)

	if r.archive.Enabled() {
		audio := result.Audio
		go func() {
			// Fire-and-forget: the response never waits on the archive
			if archiveErr := r.archive.Store(context.Background(), filename, audio, music.AudioContentType); archiveErr != nil {
				log.Printf("⚠️  S3 archive failed for %s: %v", filename, archiveErr)
			}
		}()
	}

	log.Printf("✅ RENDER REQUEST COMPLETED in %v (file: %s, %d bytes)", duration, filename, size)
	return artifact, nil
}

// Resolve maps a filename to its stored path. ok=false is the normal
// not-found outcome, never an error.
func (r *Renderer) Resolve(filename string) (string, bool) {
	return r.store.Resolve(filename)
}

func (r *Renderer) recordMetrics(ctx context.Context, size int64, duration time.Duration, success bool) {
	r.metrics.RecordRenderResult(ctx, size, duration, success)
	if r.cw != nil {
		r.cw.RecordAudioRender(size, duration, success)
	}
}
