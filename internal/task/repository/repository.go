package repository

import (
	"time"

	"workmind-backend/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *domain.Task) error

	// FindByID finds a task by its ID
	FindByID(id string) (*domain.Task, error)

	// Find lists tasks with an optional status filter
	Find(status *domain.TaskStatus, limit, offset int) ([]*domain.Task, int64, error)

	// FindDueBefore lists uncompleted tasks due before the given time
	FindDueBefore(t time.Time) ([]*domain.Task, error)

	// Update updates an existing task
	Update(task *domain.Task) error

	// Delete deletes a task by ID
	Delete(id string) error
}
