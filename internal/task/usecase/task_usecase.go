package usecase

import (
	"errors"
	"strings"
	"time"

	"workmind-backend/internal/task/domain"
	"workmind-backend/internal/task/repository"

	"github.com/google/uuid"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository) TaskUsecase {
	return &taskUsecase{taskRepo: taskRepo}
}

func (u *taskUsecase) CreateTask(req TaskCreateRequest) (*domain.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}

	task := &domain.Task{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		SourceChannelID: req.SourceChannelID,
		SourceTimestamp: req.SourceTimestamp,
		Priority:        parsePriority(req.Priority),
		Status:          domain.TaskStatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if req.DueDate != nil && *req.DueDate != "" {
		if t, err := time.Parse(time.RFC3339, *req.DueDate); err == nil {
			task.DueDate = &t
		}
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) GetTaskByID(taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	return task, nil
}

func (u *taskUsecase) GetTasks(status *string, limit, offset int) ([]*domain.Task, int64, error) {
	var statusFilter *domain.TaskStatus
	if status != nil && *status != "" {
		s := domain.TaskStatus(*status)
		statusFilter = &s
	}
	return u.taskRepo.Find(statusFilter, limit, offset)
}

func (u *taskUsecase) GetOverdueTasks() ([]*domain.Task, error) {
	return u.taskRepo.FindDueBefore(time.Now())
}

func (u *taskUsecase) UpdateTask(taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil && strings.TrimSpace(*updates.Title) != "" {
		task.Title = strings.TrimSpace(*updates.Title)
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Priority != nil {
		task.Priority = parsePriority(*updates.Priority)
	}
	if updates.Status != nil {
		newStatus := domain.TaskStatus(*updates.Status)
		if newStatus != task.Status {
			task.Status = newStatus
			if newStatus == domain.TaskStatusCompleted {
				now := time.Now()
				task.CompletedAt = &now
			} else {
				task.CompletedAt = nil
			}
		}
	}
	if updates.DueDate != nil {
		if *updates.DueDate == "" {
			task.DueDate = nil
		} else if t, err := time.Parse(time.RFC3339, *updates.DueDate); err == nil {
			task.DueDate = &t
		}
	}

	task.UpdatedAt = time.Now()
	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) DeleteTask(taskID string) error {
	task, err := u.GetTaskByID(taskID)
	if err != nil {
		return err
	}
	return u.taskRepo.Delete(task.ID)
}

func parsePriority(p string) domain.Priority {
	switch domain.Priority(strings.ToLower(p)) {
	case domain.PriorityHigh:
		return domain.PriorityHigh
	case domain.PriorityLow:
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}
