package repository

import (
	"workmind-backend/internal/habit/domain"
)

// HabitRepository defines the interface for habit data access
type HabitRepository interface {
	// CreateHabit creates a new habit
	CreateHabit(habit *domain.Habit) error

	// FindHabitByID finds a habit by its ID
	FindHabitByID(id string) (*domain.Habit, error)

	// FindHabits lists habits, optionally including archived ones
	FindHabits(includeArchived bool) ([]*domain.Habit, error)

	// UpdateHabit updates an existing habit
	UpdateHabit(habit *domain.Habit) error

	// DeleteHabit deletes a habit and its check-ins
	DeleteHabit(id string) error

	// CreateCheckIn records a completion; returns the existing record
	// unchanged if the habit is already checked in on that date
	CreateCheckIn(checkIn *domain.CheckIn) (*domain.CheckIn, bool, error)

	// FindCheckIns lists a habit's check-ins, newest first
	FindCheckIns(habitID string) ([]*domain.CheckIn, error)
}
