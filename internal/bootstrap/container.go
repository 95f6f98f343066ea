package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/implementation"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm/factory"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/rag"
	"ai-docchat-be/pkg/rag/ground"
	"ai-docchat-be/pkg/rag/rerank"
	"ai-docchat-be/pkg/rag/rewrite"
	"ai-docchat-be/pkg/rag/route"
	"ai-docchat-be/pkg/rag/search"
	"ai-docchat-be/pkg/rag/synth"
	"ai-docchat-be/pkg/websearch"
)

// chatAnsweredTopic is the in-process bus topic for answered-chat analytics.
const chatAnsweredTopic = "CHAT_ANSWERED"

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIAPIKey,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmBaseURL := cfg.Ai.OpenAIBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS (optional mirror for answered-chat events)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis (web search result cache; degrades to in-memory)
	var searchCache websearch.ResultCache
	cacheTTL := time.Duration(cfg.WebSearch.CacheTTLMin) * time.Minute
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory search cache", err)
		searchCache = websearch.NewMemoryCache(cacheTTL)
	} else {
		searchCache = websearch.NewRedisCache(rdb, cacheTTL)
	}

	// 5. Repositories
	pageRepo := implementation.NewDocumentPageRepository(db)
	documentRepo := implementation.NewDocumentRepository(db)

	// 6. RAG Pipeline
	webProvider := websearch.NewProvider(
		cfg.WebSearch.Provider,
		cfg.WebSearch.TavilyAPIKey,
		cfg.WebSearch.SerperAPIKey,
		cfg.WebSearch.Enabled,
		cfg.WebSearch.MaxResults,
		sysLogger,
	)
	log.Printf("[INFO] Using Web Search Provider: %s", webProvider.Name())
	webSearch := websearch.NewSafe(
		websearch.NewCached(webProvider, searchCache),
		time.Duration(cfg.WebSearch.TimeoutSeconds)*time.Second,
		sysLogger,
	)

	synthesizer := synth.NewSynthesizer(
		llmProvider,
		synth.NewFileImageLoader(cfg.App.MediaRoot),
		sysLogger,
	)

	orchestrator := rag.NewOrchestrator(
		rewrite.NewRewriter(llmProvider, sysLogger),
		route.NewHeuristic(),
		search.NewRetriever(pageRepo, embeddingProvider, cfg.Ai.EmbeddingDim, sysLogger),
		rerank.NewReranker(llmProvider, sysLogger),
		ground.NewLoop(synthesizer, sysLogger),
		synthesizer,
		webSearch,
		sysLogger,
	)

	// 7. Services
	publisherService := service.NewPublisherService(chatAnsweredTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, chatAnsweredTopic, sysLogger)

	chatService := service.NewChatService(orchestrator, publisherService, natsPub, sysLogger)
	documentService := service.NewDocumentService(documentRepo)

	// 8. Controllers
	return &Container{
		ChatController:     controller.NewChatController(chatService, sysLogger),
		DocumentController: controller.NewDocumentController(documentService),
		ConsumerService:    consumerService,
	}
}
