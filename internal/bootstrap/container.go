package bootstrap

import (
	"context"
	"log"

	"design-memory-be/internal/config"
	"design-memory-be/internal/controller"
	"design-memory-be/internal/handler"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/pkg/ratelimit"
	"design-memory-be/internal/pkg/serverutils"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/internal/seed"
	"design-memory-be/internal/service"
	"design-memory-be/internal/websocket"
	"design-memory-be/pkg/events"
	"design-memory-be/pkg/llm/factory"
	"design-memory-be/pkg/memory/agent"
	"design-memory-be/pkg/memory/generation"
	"design-memory-be/pkg/memory/history"
	"design-memory-be/pkg/memory/learning"
	"design-memory-be/pkg/memory/retrieval"
	pktNats "design-memory-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ProjectController   controller.IProjectController
	FeedbackController  controller.IFeedbackController
	AssistantController controller.IAssistantController
	DemoController      controller.IDemoController

	// Streaming chat
	ChatStreamHandler *handler.ChatStreamHandler
	WebSocketHub      *websocket.Hub

	// Middleware
	JwtMiddleware fiber.Handler
	// TurnLimiter is nil when Redis is not configured.
	TurnLimiter fiber.Handler

	Logger logger.ILogger

	closers []func()
}

// Close releases the broker and cache connections.
func (c *Container) Close() {
	for _, fn := range c.closers {
		fn()
	}
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	turnLogger := logger.NewIsolatedLogger(cfg.App.TurnLogFilePath)

	c := &Container{Logger: sysLogger}

	// 2. Design memory core
	store := history.NewStore(learning.NewLearner())
	resolver := retrieval.NewResolver(uowFactory, store)
	responder := newResponder(cfg, sysLogger)

	// 3. Infrastructure
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, domain events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = events.NewBusPublisher(natsPub, sysLogger)
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		rdb = newRedis(ctx, cfg.App.RedisURL, sysLogger)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	if rdb != nil {
		limiter, err := ratelimit.NewFixedWindowLimiter(rdb, "agent_turn", cfg.RateLimit.AgentTurns, cfg.RateLimit.AgentWindow)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Agent rate limiting disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.TurnLimiter = ratelimit.Middleware(limiter, sysLogger)
		}
	}

	orchestrator := agent.NewOrchestrator(uowFactory, store, resolver, responder, publisher, turnLogger, agent.Config{
		GenerationTimeout: cfg.Ai.GenerationTimeout,
		ImageBaseURL:      cfg.App.ImageBaseURL,
	})

	// 4. Services
	authService := service.NewAuthService(uowFactory, cfg.Auth.JwtSecret, cfg.Auth.TokenTTL, sysLogger)
	projectService := service.NewProjectService(uowFactory, store, publisher, sysLogger)
	feedbackService := service.NewFeedbackService(uowFactory, store, publisher, sysLogger)
	assistantService := service.NewAssistantService(resolver, responder, orchestrator, cfg.Ai.GenerationTimeout, sysLogger)
	demoService := service.NewDemoService(seed.NewDemo(uowFactory, store, sysLogger), resolver)

	// 5. Streaming chat
	wsLogger := logger.NewIsolatedLogger("logs/chat_stream.log")
	hub := websocket.NewHub(rdb, wsLogger)
	go hub.Run(ctx)

	c.WebSocketHub = hub
	c.ChatStreamHandler = handler.NewChatStreamHandler(ctx, uowFactory, store, orchestrator, hub, cfg.Auth.JwtSecret, wsLogger)

	// 6. Controllers
	c.JwtMiddleware = serverutils.JwtMiddleware(cfg.Auth.JwtSecret)
	c.AuthController = controller.NewAuthController(authService)
	c.ProjectController = controller.NewProjectController(projectService, feedbackService)
	c.FeedbackController = controller.NewFeedbackController(feedbackService)
	c.AssistantController = controller.NewAssistantController(assistantService)
	c.DemoController = controller.NewDemoController(demoService)

	return c
}

// newResponder selects the generation strategy; the mock needs no provider.
func newResponder(cfg *config.Config, sysLogger logger.ILogger) generation.Responder {
	if cfg.Ai.MockLLM || cfg.Ai.LLMProvider == "mock" {
		sysLogger.Info("BOOTSTRAP", "Using mock responder", nil)
		return generation.NewMockResponder()
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})
	return generation.NewLLMResponder(generation.NewLLMGenerator(llmProvider), cfg.Ai.MaxTokens)
}

func newRedis(ctx context.Context, url string, sysLogger logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	return rdb
}
