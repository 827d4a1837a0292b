package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
// Note: This is a stateless configuration - no database needed. muse-api
// keeps no state beyond the rendered-audio content directory.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API keys
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Prompt-writer agent
	PromptModel      string        // model the prompt agent runs on (gpt-* or gemini-*)
	ReasoningMode    string        // reasoning effort for gpt-5 family models
	InstructionsPath string        // optional on-disk override for the instruction document
	PromptTimeout    time.Duration // per-call timeout for the agent call

	// ElevenLabs music API
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string // override for tests and proxies
	PlanTimeout       time.Duration
	RenderTimeout     time.Duration

	// Content store for rendered audio
	ContentDir string

	// Optional S3 archive for rendered audio (disabled when bucket is empty)
	S3ArchiveBucket string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// CORS
	CORSAllowedOrigins []string

	// Service-to-service auth; empty secret disables the check
	ServiceTokenSecret string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		PromptModel:      getEnv("MUSE_PROMPT_MODEL", "gpt-5-mini"),
		ReasoningMode:    getEnv("MUSE_REASONING_MODE", "medium"),
		InstructionsPath: getEnv("MUSE_INSTRUCTIONS_PATH", ""),
		PromptTimeout:    getEnvDuration("MUSE_PROMPT_TIMEOUT", 120*time.Second),

		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsBaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		PlanTimeout:       getEnvDuration("MUSE_PLAN_TIMEOUT", 60*time.Second),
		RenderTimeout:     getEnvDuration("MUSE_RENDER_TIMEOUT", 300*time.Second),

		ContentDir: getEnv("MUSE_CONTENT_DIR", "output/music"),

		S3ArchiveBucket: getEnv("MUSE_S3_ARCHIVE_BUCKET", ""),
		S3Region:        getEnv("AWS_REGION", "us-east-1"),
		S3AccessKey:     getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnvBool("LANGFUSE_ENABLED", false),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		ServiceTokenSecret: getEnv("MUSE_SERVICE_TOKEN_SECRET", ""),
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
