package handlers

const (
	// Error names in the uniform error body
	errValidation    = "Validation Error"
	errConfiguration = "Configuration Error"
	errGeneration    = "Generation Error"
	errStorage       = "Storage Error"
	errInternal      = "Internal Server Error"
	errNotFound      = "Not Found"

	// Outward-facing messages. Upstream detail never travels in these;
	// operators correlate through request_id in the logs.
	msgConfiguration = "Prompt instructions not available. Please contact support."
	msgGeneration    = "Music generation failed. Please try again later."
	msgStorage       = "Could not store the rendered audio. Please try again later."
	msgInternal      = "An unexpected error occurred. Please try again later."
	msgAudioNotFound = "Audio file not found"
)
