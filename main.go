package main

import (
	"log"
	"path/filepath"

	api "workmind-backend/cmd/api"
	authUsecase "workmind-backend/internal/auth/usecase"
	habitRepo "workmind-backend/internal/habit/repository"
	habitUsecase "workmind-backend/internal/habit/usecase"
	messageRepo "workmind-backend/internal/message/repository"
	messageUsecase "workmind-backend/internal/message/usecase"
	taskRepo "workmind-backend/internal/task/repository"
	taskUsecase "workmind-backend/internal/task/usecase"
	"workmind-backend/pkg/ai"
	"workmind-backend/pkg/chroma"
	"workmind-backend/pkg/config"
	"workmind-backend/pkg/crypto"
	"workmind-backend/pkg/database"
	slackpkg "workmind-backend/pkg/slack"
)

// chatServiceAdapter narrows *slackpkg.Service to the engine's ChatService:
// the fetch methods are promoted as-is, Channels is re-typed to the
// iterator interface.
type chatServiceAdapter struct {
	*slackpkg.Service
}

func (a *chatServiceAdapter) Channels() messageUsecase.ChannelIterator {
	return a.Service.Channels()
}

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.SlackToken == "" {
		log.Fatal("SLACK_TOKEN is required")
	}

	// Validate the encryption key before touching any network client, so a
	// bad key fails the process immediately instead of mid-sync
	var cipher *crypto.FieldCipher
	if cfg.EncryptionKey != "" {
		var err error
		cipher, err = crypto.NewFieldCipher(cfg.EncryptionKey)
		if err != nil {
			log.Fatal("Invalid MESSAGE_ENCRYPTION_KEY: ", err)
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Initialize clients
	slackService := slackpkg.NewService(cfg.SlackToken, cfg.PageDelay)

	embeddingService, err := ai.NewEmbeddingService(ai.Config{
		Provider:      ai.ProviderType(cfg.EmbeddingProvider),
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize embedding service: ", err)
	}

	chromaClient, err := chroma.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Chroma client: ", err)
	}

	// Initialize repositories (dependency injection)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	habitRepository := habitRepo.NewGormHabitRepository(db)

	plainStateRepo, err := messageRepo.NewFileSyncStateRepository(filepath.Join(cfg.StateDir, "sync_state.json"))
	if err != nil {
		log.Fatal("Failed to initialize sync state store: ", err)
	}

	// Initialize use cases (dependency injection)
	chatService := &chatServiceAdapter{Service: slackService}

	plainMessageUc := messageUsecase.NewMessageUsecase(chatService, embeddingService, chromaClient, plainStateRepo, messageUsecase.VariantConfig{
		Collection:        "messages",
		ThreadConcurrency: cfg.ThreadConcurrency,
	})

	var encryptedMessageUc messageUsecase.MessageUsecase
	if cipher != nil {
		encryptedStateRepo, err := messageRepo.NewFileSyncStateRepository(filepath.Join(cfg.StateDir, "sync_state_encrypted.json"))
		if err != nil {
			log.Fatal("Failed to initialize encrypted sync state store: ", err)
		}
		encryptedMessageUc = messageUsecase.NewMessageUsecase(chatService, embeddingService, chromaClient, encryptedStateRepo, messageUsecase.VariantConfig{
			Collection:        "messages_encrypted",
			Variant:           "enc",
			Cipher:            cipher,
			ThreadConcurrency: cfg.ThreadConcurrency,
		})
	}

	authUsecaseInstance := authUsecase.NewAuthUsecase(cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository)
	habitUsecaseInstance := habitUsecase.NewHabitUsecase(habitRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(cfg, authUsecaseInstance, plainMessageUc, encryptedMessageUc, taskUsecaseInstance, habitUsecaseInstance)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
