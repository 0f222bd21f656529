package models

import (
	"errors"
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

var (
	ErrEmptyTitle    = errors.New("title must not be empty")
	ErrUnknownStatus = errors.New("unknown task status")
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == TaskPending || s == TaskCompleted
}

// Task is a back-office to-do item.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate checks the fields a client may edit.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Status.Valid() {
		return ErrUnknownStatus
	}
	return nil
}

// TaskDraft is a task that has not been created yet.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
