package domain

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task is a to-do item, created manually or pinned from an indexed chat
// message. SourceChannelID/SourceTimestamp link back to the message it came
// from, which is enough to pull its conversation context later.
type Task struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	Title           string     `json:"title" gorm:"not null"`
	Description     string     `json:"description,omitempty"`
	SourceChannelID string     `json:"source_channel_id,omitempty" gorm:"index"`
	SourceTimestamp string     `json:"source_timestamp,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Priority        Priority   `json:"priority" gorm:"default:medium"`
	Status          TaskStatus `json:"status" gorm:"default:pending"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
