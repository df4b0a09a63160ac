package api

import (
	"net/http"

	"workmind-backend/internal/auth/delivery"
	authUsecase "workmind-backend/internal/auth/usecase"
	habitDelivery "workmind-backend/internal/habit/delivery"
	messageDelivery "workmind-backend/internal/message/delivery"
	taskDelivery "workmind-backend/internal/task/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, messageHandler *messageDelivery.MessageHandler, taskHandler *taskDelivery.TaskHandler, habitHandler *habitDelivery.HabitHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Message sync and search routes (protected)
		messages := api.Group("/messages")
		messages.Use(delivery.AuthMiddleware(authUsecase))
		{
			messages.POST("/sync", messageHandler.Sync)
			messages.GET("/search", messageHandler.Search)
			messages.GET("/context", messageHandler.Context)
			messages.GET("/status", messageHandler.Status)
			messages.DELETE("/state", messageHandler.ResetState)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(delivery.AuthMiddleware(authUsecase))
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/overdue", taskHandler.GetOverdueTasks)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Habit routes (protected)
		habits := api.Group("/habits")
		habits.Use(delivery.AuthMiddleware(authUsecase))
		{
			habits.GET("", habitHandler.GetHabits)
			habits.POST("", habitHandler.CreateHabit)
			habits.GET("/:id", habitHandler.GetHabitByID)
			habits.PATCH("/:id", habitHandler.UpdateHabit)
			habits.DELETE("/:id", habitHandler.DeleteHabit)
			habits.POST("/:id/checkin", habitHandler.CheckIn)
		}
	}
}
