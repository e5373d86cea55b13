package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"deepdocs/internal/ai"
	appsvc "deepdocs/internal/app"
	"deepdocs/internal/bootstrap"
	"deepdocs/internal/cache"
	"deepdocs/internal/extract"
	"deepdocs/internal/platform/rabbitmq"
	"deepdocs/internal/repository"
	"deepdocs/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	cfg := app.Config
	convRepo := repository.NewConversationRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	docRepo := repository.NewDocumentRepository(app.MySQL)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, cfg.RabbitMQ.MessagePersistQueue)

	aiClient := ai.NewClient()
	completion := ai.NewCompletionService(aiClient, ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	embedding := ai.NewEmbeddingService(aiClient, ai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmbeddingModel,
	})

	retriever := appsvc.NewRetriever(
		embedding,
		app.Pinecone,
		time.Duration(cfg.RAG.QueryTimeoutSeconds)*time.Second,
	)
	memory := appsvc.NewMemoryStore(cfg.RAG.MemoryMaxTurns)
	answers := appsvc.NewAnswerService(
		retriever,
		completion,
		memory,
		cfg.RAG.ContextBudget,
		cfg.RAG.HistoryTurns,
		cfg.RAG.TopKPerNamespace,
		cfg.RAG.TopKOverall,
	)
	docService := appsvc.NewDocumentService(
		docRepo,
		convRepo,
		app.Files,
		appsvc.ExtractorFunc(extract.Extract),
		embedding,
		app.Pinecone,
		cfg.RAG.ChunkSize,
		cfg.RAG.ChunkOverlap,
	)
	convService := appsvc.NewConversationService(
		convRepo,
		messageRepo,
		docService,
		answers,
		memory,
		publisher,
		historyCache,
		cfg.RAG.HistoryTurns*2,
	)

	conversationHandler := handler.NewConversationHandler(convService)
	documentHandler := handler.NewDocumentHandler(docService, cfg.Uploads.MaxSizeMB)

	v1 := router.Group("/api/v1")
	conversations := v1.Group("/conversations")
	conversations.POST("", conversationHandler.Create)
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id", conversationHandler.Get)
	conversations.PATCH("/:id", conversationHandler.Rename)
	conversations.DELETE("/:id", conversationHandler.Delete)
	conversations.POST("/:id/query", conversationHandler.Query)
	conversations.GET("/:id/history", conversationHandler.GetHistory)
	conversations.GET("/:id/memory", conversationHandler.GetMemory)
	conversations.DELETE("/:id/memory", conversationHandler.ClearMemory)
	conversations.POST("/:id/documents", documentHandler.Upload)
	conversations.GET("/:id/documents", documentHandler.List)
	conversations.GET("/:id/documents/:doc_id", documentHandler.Download)
	conversations.DELETE("/:id/documents/:doc_id", documentHandler.Delete)

	return router
}
