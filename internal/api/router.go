package api

import (
	"context"

	"github.com/Conceptual-Machines/muse-api/internal/agents/promptwriter"
	"github.com/Conceptual-Machines/muse-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/muse-api/internal/api/middleware"
	"github.com/Conceptual-Machines/muse-api/internal/config"
	"github.com/Conceptual-Machines/muse-api/internal/elevenmusic"
	"github.com/Conceptual-Machines/muse-api/internal/llm"
	"github.com/Conceptual-Machines/muse-api/internal/logger"
	"github.com/Conceptual-Machines/muse-api/internal/metrics"
	"github.com/Conceptual-Machines/muse-api/internal/services"
	"github.com/Conceptual-Machines/muse-api/internal/storage"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, version string) (*gin.Engine, error) {
	ctx := context.Background()

	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// CloudWatch metrics (self-disabling outside production)
	cwMetrics, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		logger.Warn("CloudWatch metrics unavailable", logger.Fields{"error": err.Error()})
	} else {
		apimiddleware.SetCloudWatchMetrics(cwMetrics)
	}

	// Content store for rendered audio
	store, err := storage.NewContentStore(cfg.ContentDir)
	if err != nil {
		return nil, err
	}

	// Optional S3 archive for rendered audio
	archive, err := storage.NewArchive(ctx, cfg.S3ArchiveBucket, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		return nil, err
	}

	// ElevenLabs music API client, shared by planner and renderer
	musicClient := elevenmusic.NewClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsBaseURL)

	// Prompt agent with the provider the configured model routes to. A
	// missing key is not fatal at startup; /health reports it and the
	// prompt endpoint fails cleanly until keys arrive.
	var agent *promptwriter.Agent
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	provider, err := factory.GetProvider(ctx, cfg.PromptModel)
	if err != nil {
		logger.Warn("LLM provider not ready", logger.Fields{
			"error": err.Error(),
			"model": cfg.PromptModel,
		})
		agent = promptwriter.NewAgent(cfg)
	} else {
		agent = promptwriter.NewAgentWithProvider(cfg, provider)
	}

	planner := services.NewPlanner(musicClient, cfg.PlanTimeout, cwMetrics)
	renderer := services.NewRenderer(musicClient, store, archive, cfg.RenderTimeout, cwMetrics)

	// Health and probes
	healthHandler := handlers.NewHealthHandler(cfg, store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/alive", healthHandler.Alive)

	// Service descriptor
	homeHandler := handlers.NewHomeHandler(version, cfg.Environment)
	router.GET("/", homeHandler.Root)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg.Environment)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Artifact retrieval stays public so rendered audio can be fetched
	// directly by browsers and audio players
	renderHandler := handlers.NewRenderHandler(renderer)
	router.GET("/render/download/:filename", renderHandler.Download)
	router.GET("/render/stream/:filename", renderHandler.Stream)

	// Generation routes (service-token protected when a secret is set)
	protected := router.Group("/")
	protected.Use(apimiddleware.ServiceAuth(cfg.ServiceTokenSecret))
	{
		promptHandler := handlers.NewPromptHandler(agent, cwMetrics)
		protected.POST("/prompt", promptHandler.Generate)
		protected.POST("/prompt/reload", promptHandler.Reload)

		planHandler := handlers.NewPlanHandler(planner)
		protected.POST("/plan", planHandler.Generate)

		protected.POST("/render", renderHandler.Render)
	}

	return router, nil
}
