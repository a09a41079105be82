package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"workmate-bot/internal/config"
	"workmate-bot/internal/controller"
	"workmate-bot/internal/pkg/logger"
	"workmate-bot/internal/service"
	"workmate-bot/pkg/ai"
	"workmate-bot/pkg/convo"
	"workmate-bot/pkg/embedding"
	"workmate-bot/pkg/intent"
	"workmate-bot/pkg/knowledge"
	"workmate-bot/pkg/lang"
	"workmate-bot/pkg/llm/factory"
	"workmate-bot/pkg/messenger"
	"workmate-bot/pkg/salary"
	"workmate-bot/pkg/translate"
)

type Container struct {
	// Controllers
	WebhookController   controller.IWebhookController
	KnowledgeController controller.IKnowledgeController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for startup tasks
	KnowledgeIndex *knowledge.Index
	Logger         logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Model providers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	embeddingProvider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	capabilities := ai.NewCapabilities(llmProvider, cfg.Ai.VisionModel)

	// 4. Domain components
	stateStore := convo.NewCacheStore()
	langStore := lang.NewCacheStore()
	registry := lang.NewRegistry(
		capabilities,
		capabilities,
		langStore,
		cfg.Assistant.DefaultLanguage,
		cfg.Assistant.NativeLanguage,
		sysLogger,
	)

	salaryEngine := salary.NewEngine()
	resolver := intent.NewResolver(capabilities, salaryEngine, sysLogger)
	translateRouter := translate.NewRouter(capabilities, sysLogger)

	docStore := knowledge.NewFSDocumentStore(cfg.Knowledge.DocsDir)
	index := knowledge.NewIndex(docStore, embeddingProvider, llmProvider, knowledge.Options{
		ChunkSize:     cfg.Knowledge.ChunkSize,
		ChunkOverlap:  cfg.Knowledge.ChunkOverlap,
		EmbedBatch:    cfg.Knowledge.EmbedBatch,
		TopK:          cfg.Knowledge.TopK,
		ContextBudget: cfg.Knowledge.ContextBudget,
	}, sysLogger)

	// 5. Transport
	graphClient := messenger.NewClient(
		cfg.Webhook.GraphBaseURL,
		cfg.Webhook.AccessToken,
		cfg.Webhook.PhoneNumberID,
		sysLogger,
	)

	// 6. Services
	assistantService := service.NewAssistantService(
		stateStore,
		registry,
		resolver,
		salaryEngine,
		index,
		translateRouter,
		capabilities,
		graphClient,
		graphClient,
		cfg.Assistant.HistoryLimit,
		sysLogger,
	)

	publisherService := service.NewPublisherService(cfg.Webhook.InboundTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Webhook.InboundTopic,
		assistantService,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		WebhookController:   controller.NewWebhookController(publisherService, cfg.Webhook.VerifyToken, sysLogger),
		KnowledgeController: controller.NewKnowledgeController(index),

		ConsumerService: consumerService,
		KnowledgeIndex:  index,
		Logger:          sysLogger,
	}
}
