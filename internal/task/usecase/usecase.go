package usecase

import (
	"workmind-backend/internal/task/domain"
)

// TaskCreateRequest carries the fields for creating a task. Timestamps are
// RFC3339 strings; unparseable values are ignored.
type TaskCreateRequest struct {
	Title           string
	Description     string
	SourceChannelID string
	SourceTimestamp string
	DueDate         *string
	Priority        string
}

// TaskUpdateRequest carries optional field updates; nil means "leave as is"
// and an empty DueDate string clears the due date.
type TaskUpdateRequest struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
}

// TaskUsecase defines the task business logic
type TaskUsecase interface {
	CreateTask(req TaskCreateRequest) (*domain.Task, error)
	GetTaskByID(taskID string) (*domain.Task, error)
	GetTasks(status *string, limit, offset int) ([]*domain.Task, int64, error)
	GetOverdueTasks() ([]*domain.Task, error)
	UpdateTask(taskID string, updates TaskUpdateRequest) (*domain.Task, error)
	DeleteTask(taskID string) error
}
