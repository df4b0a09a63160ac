package delivery

import (
	"net/http"

	"workmind-backend/internal/habit/usecase"

	"github.com/gin-gonic/gin"
)

// HabitHandler handles habit-related HTTP requests
type HabitHandler struct {
	habitUsecase usecase.HabitUsecase
}

// NewHabitHandler creates a new HabitHandler
func NewHabitHandler(habitUsecase usecase.HabitUsecase) *HabitHandler {
	return &HabitHandler{habitUsecase: habitUsecase}
}

// CreateHabitRequest represents the request body for creating a habit
type CreateHabitRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Cadence     string `json:"cadence"`
}

// UpdateHabitRequest represents the request body for updating a habit
type UpdateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cadence     *string `json:"cadence"`
	Archived    *bool   `json:"archived"`
}

// GetHabits lists habits with their streaks
// GET /api/habits?archived=true
func (h *HabitHandler) GetHabits(c *gin.Context) {
	includeArchived := c.Query("archived") == "true"

	habits, err := h.habitUsecase.GetHabits(includeArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habits": habits,
		"total":  len(habits),
	})
}

// GetHabitByID returns a habit with its streaks
// GET /api/habits/:id
func (h *HabitHandler) GetHabitByID(c *gin.Context) {
	habit, err := h.habitUsecase.GetHabitByID(c.Param("id"))
	if err != nil {
		if err.Error() == "habit not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// CreateHabit creates a new habit
// POST /api/habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.habitUsecase.CreateHabit(usecase.HabitCreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Cadence:     req.Cadence,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// UpdateHabit updates a habit
// PATCH /api/habits/:id
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var req UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.habitUsecase.UpdateHabit(c.Param("id"), usecase.HabitUpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Cadence:     req.Cadence,
		Archived:    req.Archived,
	})
	if err != nil {
		if err.Error() == "habit not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// DeleteHabit deletes a habit and its check-ins
// DELETE /api/habits/:id
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	if err := h.habitUsecase.DeleteHabit(c.Param("id")); err != nil {
		if err.Error() == "habit not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "habit deleted"})
}

// CheckIn records today's completion
// POST /api/habits/:id/checkin
func (h *HabitHandler) CheckIn(c *gin.Context) {
	checkIn, created, err := h.habitUsecase.CheckIn(c.Param("id"))
	if err != nil {
		if err.Error() == "habit not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"check_in": checkIn,
		"created":  created,
	})
}
