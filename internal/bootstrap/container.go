package bootstrap

import (
	"log"

	"fsnb-matcher-be/internal/config"
	"fsnb-matcher-be/internal/controller"
	"fsnb-matcher-be/internal/pkg/logger"
	"fsnb-matcher-be/internal/repository/memory"
	"fsnb-matcher-be/internal/repository/unitofwork"
	"fsnb-matcher-be/internal/service"
	"fsnb-matcher-be/internal/websocket"
	"fsnb-matcher-be/pkg/embedding"
	pktNats "fsnb-matcher-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const commitEventsTopic = "review.commits"

type Container struct {
	// Controllers
	MatchController    controller.IMatchController
	ReviewController   controller.IReviewController
	TrainingController controller.ITrainingController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider, selected by config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	// NATS (optional; commit events are forwarded best-effort)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// Per-session write serialization
	sessionLocks := memory.NewSessionLockRegistry()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, commitEventsTopic)
	consumerService := service.NewConsumerService(pubSub, commitEventsTopic, natsPub, sysLogger)

	matcherService := service.NewMatcherService(uowFactory, embeddingProvider, cfg.Matcher, sysLogger)
	reportService := service.NewReportService()
	reviewService := service.NewReviewService(
		uowFactory,
		matcherService,
		reportService,
		publisherService,
		sessionLocks,
		wsHub,
		cfg.Matcher,
		sysLogger,
	)
	trainingService := service.NewTrainingService(uowFactory, sysLogger)

	// 4. Controllers
	return &Container{
		MatchController:    controller.NewMatchController(matcherService, reportService),
		ReviewController:   controller.NewReviewController(reviewService),
		TrainingController: controller.NewTrainingController(trainingService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
