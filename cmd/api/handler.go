package api

import (
	"log"

	authUsecasePkg "workmind-backend/internal/auth/usecase"
	habitDelivery "workmind-backend/internal/habit/delivery"
	habitUsecasePkg "workmind-backend/internal/habit/usecase"
	messageDelivery "workmind-backend/internal/message/delivery"
	messageUsecasePkg "workmind-backend/internal/message/usecase"
	taskDelivery "workmind-backend/internal/task/delivery"
	taskUsecasePkg "workmind-backend/internal/task/usecase"
	"workmind-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecasePkg.AuthUsecase
	config         *config.Config
	messageHandler *messageDelivery.MessageHandler
	taskHandler    *taskDelivery.TaskHandler
	habitHandler   *habitDelivery.HabitHandler
}

// NewHandler wires the delivery layer. The encrypted message usecase may be
// nil; requests targeting it are then rejected at the handler.
func NewHandler(cfg *config.Config, authUc authUsecasePkg.AuthUsecase, plainMessageUc, encryptedMessageUc messageUsecasePkg.MessageUsecase, taskUc taskUsecasePkg.TaskUsecase, habitUc habitUsecasePkg.HabitUsecase) *Handler {
	if encryptedMessageUc != nil {
		log.Println("Encrypted message pipeline enabled")
	}

	return &Handler{
		authUsecase:    authUc,
		config:         cfg,
		messageHandler: messageDelivery.NewMessageHandler(plainMessageUc, encryptedMessageUc),
		taskHandler:    taskDelivery.NewTaskHandler(taskUc),
		habitHandler:   habitDelivery.NewHabitHandler(habitUc),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.messageHandler, h.taskHandler, h.habitHandler)

	return r.Run(addr)
}
