package usecase

import (
	"workmind-backend/internal/habit/domain"
)

// HabitCreateRequest carries the fields for creating a habit
type HabitCreateRequest struct {
	Name        string
	Description string
	Cadence     string
}

// HabitUpdateRequest carries optional field updates; nil means "leave as is"
type HabitUpdateRequest struct {
	Name        *string
	Description *string
	Cadence     *string
	Archived    *bool
}

// HabitUsecase defines the habit business logic
type HabitUsecase interface {
	CreateHabit(req HabitCreateRequest) (*domain.Habit, error)
	GetHabits(includeArchived bool) ([]*domain.HabitWithStreak, error)
	GetHabitByID(habitID string) (*domain.HabitWithStreak, error)
	UpdateHabit(habitID string, updates HabitUpdateRequest) (*domain.Habit, error)
	DeleteHabit(habitID string) error

	// CheckIn records today's completion. Checking in twice on the same
	// day is a no-op; the second call reports created=false.
	CheckIn(habitID string) (*domain.CheckIn, bool, error)
}
