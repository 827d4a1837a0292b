package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/Conceptual-Machines/muse-api/internal/services"
	"github.com/gin-gonic/gin"
)

type RenderHandler struct {
	renderer *services.Renderer
}

func NewRenderHandler(renderer *services.Renderer) *RenderHandler {
	return &RenderHandler{renderer: renderer}
}

type RenderResponse struct {
	Filename        string                 `json:"filename"`
	FilePath        string                 `json:"file_path"`
	DownloadURL     string                 `json:"download_url"`
	ContentType     string                 `json:"content_type"`
	FileSizeBytes   int64                  `json:"file_size_bytes"`
	CompositionPlan *music.CompositionPlan `json:"composition_plan,omitempty"`
	SongMetadata    map[string]any         `json:"song_metadata,omitempty"`
	RequestID       string                 `json:"request_id"`
	Timestamp       string                 `json:"timestamp"`
}

// Render turns a composition plan into stored audio and answers with the
// artifact handle
func (h *RenderHandler) Render(c *gin.Context) {
	var plan music.CompositionPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		log.Printf("❌ RENDER: JSON binding error: %v", err)
		respondBindError(c, err)
		return
	}

	log.Printf("📨 RENDER: Received plan (%d sections)", len(plan.Sections))

	artifact, err := h.renderer.Render(c.Request.Context(), &plan)
	if err != nil {
		log.Printf("❌ RENDER: %v", err)
		respondError(c, err)
		return
	}

	log.Printf("✅ RENDER: Stored %s (%d bytes)", artifact.Filename, artifact.SizeBytes)

	c.JSON(http.StatusOK, RenderResponse{
		Filename:        artifact.Filename,
		FilePath:        artifact.StoragePath,
		DownloadURL:     "/render/download/" + artifact.Filename,
		ContentType:     artifact.ContentType,
		FileSizeBytes:   artifact.SizeBytes,
		CompositionPlan: artifact.PlanEcho,
		SongMetadata:    artifact.SongMetadata,
		RequestID:       c.GetString("request_id"),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	})
}

// Download serves a stored artifact as an attachment. An unknown filename is
// a plain 404, not a failure.
func (h *RenderHandler) Download(c *gin.Context) {
	filename := c.Param("filename")

	path, ok := h.renderer.Resolve(filename)
	if !ok {
		writeError(c, http.StatusNotFound, errNotFound, msgAudioNotFound)
		return
	}

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", music.AudioContentType)
	c.FileAttachment(path, filepath.Base(path))
}

// Stream serves a stored artifact inline for in-browser playback
func (h *RenderHandler) Stream(c *gin.Context) {
	filename := c.Param("filename")

	path, ok := h.renderer.Resolve(filename)
	if !ok {
		writeError(c, http.StatusNotFound, errNotFound, msgAudioNotFound)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		respondError(c, &music.StorageError{Op: "open", Path: path, Err: err})
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("⚠️  Failed to close audio file: %v", closeErr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		respondError(c, &music.StorageError{Op: "stat", Path: path, Err: err})
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), music.AudioContentType, file, map[string]string{
		"Content-Disposition": `inline; filename="` + filepath.Base(path) + `"`,
	})
}
