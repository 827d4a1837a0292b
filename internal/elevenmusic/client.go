package elevenmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/getsentry/sentry-go"
)

const (
	// DefaultBaseURL is the public ElevenLabs API host
	DefaultBaseURL = "https://api.elevenlabs.io"

	planPath     = "/v1/music/plan"
	detailedPath = "/v1/music/detailed"

	apiKeyHeader = "xi-api-key"

	// Upstream error bodies are kept for logs and wrapped errors only, never
	// forwarded to callers verbatim
	maxErrorBodyChars = 300
)

// Client is a thin REST client for the ElevenLabs Music API. There is no Go
// SDK for this surface, so the two endpoints muse needs are implemented
// directly against the wire format
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a music API client. baseURL may be empty to use the
// public host; tests and proxies override it
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// planRequest is the wire shape for composition plan creation
type planRequest struct {
	Prompt        string `json:"prompt"`
	MusicLengthMs int    `json:"music_length_ms"`
}

// detailedRequest is the wire shape for a detailed compose call
type detailedRequest struct {
	CompositionPlan *music.CompositionPlan `json:"composition_plan"`
}

// detailedMetadata is the JSON part of a multipart compose response
type detailedMetadata struct {
	CompositionPlan *music.CompositionPlan `json:"composition_plan"`
	SongMetadata    map[string]any         `json:"song_metadata"`
}

// DetailedRender is the parsed result of a compose_detailed call
type DetailedRender struct {
	Filename     string                 // server-chosen filename from the audio part
	Audio        []byte                 // raw audio bytes
	ContentType  string                 // audio part media type
	Plan         *music.CompositionPlan // final plan echoed by the API, when present
	SongMetadata map[string]any         // song metadata from the JSON part, when present
}

// CreatePlan asks the music API to draft a composition plan for a prompt
func (c *Client) CreatePlan(ctx context.Context, prompt string, musicLengthMs int) (*music.CompositionPlan, error) {
	startTime := time.Now()
	log.Printf("🎼 ELEVENMUSIC PLAN REQUEST STARTED (prompt: %d chars, length: %dms)", len(prompt), musicLengthMs)

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "elevenmusic.plan")
	defer transaction.Finish()

	transaction.SetTag("provider", "elevenlabs")
	transaction.SetData("music_length_ms", musicLengthMs)

	body, err := json.Marshal(planRequest{Prompt: prompt, MusicLengthMs: musicLengthMs})
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("encode plan request: %w", err)
	}

	span := transaction.StartChild("elevenmusic.api_call")
	respBody, err := c.postJSON(ctx, planPath, body)
	span.Finish()

	if err != nil {
		log.Printf("❌ ELEVENMUSIC PLAN FAILED after %v: %v", time.Since(startTime), err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}

	var plan music.CompositionPlan
	if err := json.Unmarshal(respBody, &plan); err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("decode plan response: %w", err)
	}

	log.Printf("✅ ELEVENMUSIC PLAN COMPLETED in %v (%d sections)", time.Since(startTime), len(plan.Sections))
	transaction.SetTag("success", "true")
	return &plan, nil
}

// ComposeDetailed renders audio for a composition plan. The API answers with
// a multipart/mixed body: an audio part that carries the server-chosen
// filename in its Content-Disposition, and a JSON part with the final plan
// and song metadata. A plain audio body is accepted as the degenerate case
func (c *Client) ComposeDetailed(ctx context.Context, plan *music.CompositionPlan) (*DetailedRender, error) {
	startTime := time.Now()
	log.Printf("🎧 ELEVENMUSIC RENDER REQUEST STARTED (%d sections)", len(plan.Sections))

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "elevenmusic.compose")
	defer transaction.Finish()

	transaction.SetTag("provider", "elevenlabs")
	transaction.SetData("section_count", len(plan.Sections))

	body, err := json.Marshal(detailedRequest{CompositionPlan: plan})
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("encode render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+detailedPath, bytes.NewReader(body))
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	span := transaction.StartChild("elevenmusic.api_call")
	apiStartTime := time.Now()
	resp, err := c.httpClient.Do(req)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ ELEVENMUSIC RENDER FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("music API request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("⚠️  Failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("music API error %d: %s", resp.StatusCode, truncate(string(errBody), maxErrorBodyChars))
		log.Printf("❌ ELEVENMUSIC RENDER FAILED after %v: %v", apiDuration, apiErr)
		transaction.SetTag("success", "false")
		sentry.CaptureException(apiErr)
		return nil, apiErr
	}

	log.Printf("⏱️  ELEVENMUSIC API CALL COMPLETED in %v", apiDuration)

	render, err := c.parseDetailedResponse(resp)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}

	log.Printf("✅ ELEVENMUSIC RENDER COMPLETED in %v (file: %s, %d bytes)",
		time.Since(startTime), render.Filename, len(render.Audio))
	transaction.SetTag("success", "true")
	return render, nil
}

// postJSON sends a JSON POST and returns the response body for 200s; other
// statuses become errors carrying a bounded body excerpt
func (c *Client) postJSON(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("music API request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("⚠️  Failed to close response body: %v", closeErr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("music API error %d: %s", resp.StatusCode, truncate(string(respBody), maxErrorBodyChars))
	}

	return respBody, nil
}

// parseDetailedResponse splits a compose_detailed response into audio and
// metadata
func (c *Client) parseDetailedResponse(resp *http.Response) (*DetailedRender, error) {
	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("parse response content type: %w", err)
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		// Degenerate case: the whole body is the audio stream
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read audio body: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("music API response did not include audio")
		}
		render := &DetailedRender{Audio: data, ContentType: mediaType}
		if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
			if _, dparams, dErr := mime.ParseMediaType(disposition); dErr == nil {
				render.Filename = dparams["filename"]
			}
		}
		return render, nil
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("multipart response missing boundary")
	}

	render := &DetailedRender{}
	reader := multipart.NewReader(resp.Body, boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart response: %w", err)
		}

		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if partType == "application/json" {
			var meta detailedMetadata
			if decodeErr := json.NewDecoder(part).Decode(&meta); decodeErr != nil {
				log.Printf("⚠️  Failed to decode render metadata part: %v", decodeErr)
				continue
			}
			render.Plan = meta.CompositionPlan
			render.SongMetadata = meta.SongMetadata
			continue
		}

		// Anything non-JSON is the audio part; its disposition names the file
		data, readErr := io.ReadAll(part)
		if readErr != nil {
			return nil, fmt.Errorf("read audio part: %w", readErr)
		}
		render.Audio = data
		render.ContentType = partType
		render.Filename = part.FileName()
	}

	if len(render.Audio) == 0 {
		return nil, fmt.Errorf("music API response did not include audio")
	}

	return render, nil
}

// truncate truncates a string to maxLen characters
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
