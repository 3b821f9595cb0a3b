package main

import (
	"context"
	"log"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/config"
	"github.com/agentciril/portfolio-chat/controller"
	"github.com/agentciril/portfolio-chat/llm"
	"github.com/agentciril/portfolio-chat/services"
	"github.com/agentciril/portfolio-chat/store"
	"github.com/agentciril/portfolio-chat/vectorstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("FATAL: failed to build logger: %v", err)
	}
	defer logger.Sync()

	llmClient, err := llm.New(cfg.Provider, llm.Config{
		APIKey:     cfg.APIKey(),
		ChatModel:  cfg.ChatModel,
		EmbedModel: cfg.EmbedModel,
	})
	if err != nil {
		logger.Fatal("failed to create llm client", zap.String("provider", cfg.Provider), zap.Error(err))
	}
	logger.Info("llm client ready", zap.String("provider", cfg.Provider))

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		logger.Fatal("failed to create chroma client", zap.Error(err))
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			logger.Warn("failed to close chroma client", zap.Error(err))
		}
	}()

	collection, err := getOrCreateCollection(chromaClient, cfg.CollectionName)
	if err != nil {
		logger.Fatal("failed to get or create collection",
			zap.String("collection", cfg.CollectionName), zap.Error(err))
	}
	corpus := vectorstore.NewChromaStore(collection, llmClient, logger.Named("vectorstore"))

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer db.Close()

	profiles := store.NewProfileStore(db, logger.Named("profiles"))
	messages := store.NewMessageStore(db, logger.Named("messages"))

	ingest := services.NewIngestService(corpus, logger.Named("ingest"))
	retrieval := services.NewRetrievalService(corpus, logger.Named("retrieval"))
	generator := services.NewGenerateService(llmClient, logger.Named("generate"))

	chatController := controller.NewChatController(retrieval, generator, ingest, profiles, messages, logger.Named("chat"))
	profileController := controller.NewProfileController(profiles, ingest, logger.Named("profile"))

	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Portfolio Chat API",
			"version": "1.0.0",
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", chatController.Chat)
		apiV1.GET("/history", chatController.History)
		apiV1.GET("/profile", profileController.GetProfile)
		apiV1.PUT("/profile", profileController.UpdateProfile)
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zapCfg.Build()
}

func getOrCreateCollection(client chromago.Client, name string) (chromago.Collection, error) {
	return client.GetOrCreateCollection(
		context.Background(),
		name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "portfolio chat corpus"),
			),
		),
	)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
