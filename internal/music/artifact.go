package music

// AudioContentType is the MIME type of every rendered artifact
const AudioContentType = "audio/mpeg"

// RenderArtifact describes one persisted render: the stored audio file plus
// whatever enriched metadata the render API attached. SizeBytes is always
// measured from disk, never copied from the upstream response.
type RenderArtifact struct {
	Filename     string
	StoragePath  string
	SizeBytes    int64
	ContentType  string
	PlanEcho     *CompositionPlan
	SongMetadata map[string]any
}
