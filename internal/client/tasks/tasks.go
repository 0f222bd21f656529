// Package tasks mirrors the server's task list and answers filtered,
// sorted and paginated views of it.
package tasks

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/fooddelivery/internal/client/client"
	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/logging"
)

// PageSize is the number of tasks on one page.
const PageSize = 5

// StatusFilter selects tasks by status. The empty value means all.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = StatusFilter(models.TaskPending)
	StatusCompleted StatusFilter = StatusFilter(models.TaskCompleted)
)

// SortKey orders a view. The empty value sorts by creation time.
type SortKey string

const (
	SortByTitle     SortKey = "title"
	SortByCreatedAt SortKey = "createdAt"
	SortByStatus    SortKey = "status"
)

// Query describes one view of the list. Page is 1-based; values below 1
// are treated as 1.
type Query struct {
	Search string
	Status StatusFilter
	SortBy SortKey
	Page   int
}

// Page is one page of a view.
type Page struct {
	Tasks      []models.Task
	Page       int
	TotalPages int
}

type Store struct {
	api client.TaskAPI
	log logging.Logger

	mu    sync.RWMutex
	tasks []models.Task
}

func New(api client.TaskAPI, log logging.Logger) *Store {
	return &Store{api: api, log: log.With("store", "tasks")}
}

// Fetch replaces the local list. On failure the list is kept.
func (s *Store) Fetch(ctx context.Context) error {
	list, err := s.api.ListTasks(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to fetch tasks", "op", "fetch", "error", err)
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	s.mu.Lock()
	s.tasks = list
	s.mu.Unlock()
	return nil
}

// Create adds a task on the server and appends the returned record.
func (s *Store) Create(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	if err := draft.Validate(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", client.ErrInvalidRequest, err)
	}
	task, err := s.api.CreateTask(ctx, draft)
	if err != nil {
		s.log.Error(ctx, "failed to create task", "op", "create", "error", err)
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return task, nil
}

// Update sends task and replaces the local record with the server's answer.
func (s *Store) Update(ctx context.Context, task models.Task) (models.Task, error) {
	if err := task.Validate(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", client.ErrInvalidRequest, err)
	}
	updated, err := s.api.UpdateTask(ctx, task)
	if err != nil {
		s.log.Error(ctx, "failed to update task", "op", "update", "id", task.ID, "error", err)
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	s.mu.Lock()
	if i := s.index(task.ID); i >= 0 {
		s.tasks[i] = updated
	}
	s.mu.Unlock()
	return updated, nil
}

// Complete marks task id as completed.
func (s *Store) Complete(ctx context.Context, id int64) (models.Task, error) {
	task, ok := s.Task(id)
	if !ok {
		return models.Task{}, fmt.Errorf("task %d: %w", id, client.ErrNotFound)
	}
	task.Status = models.TaskCompleted
	return s.Update(ctx, task)
}

// Delete removes task id on the server, then locally.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.log.Error(ctx, "failed to delete task", "op", "delete", "id", id, "error", err)
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.mu.Lock()
	if i := s.index(id); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) Task(id int64) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// Query filters by a case-insensitive title search and status, sorts, and
// cuts out the requested page. A page past the end is empty.
func (s *Store) Query(q Query) Page {
	s.mu.RLock()
	view := slices.Clone(s.tasks)
	s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	view = slices.DeleteFunc(view, func(t models.Task) bool {
		if !strings.Contains(strings.ToLower(t.Title), search) {
			return true
		}
		return q.Status != "" && q.Status != StatusAll && StatusFilter(t.Status) != q.Status
	})

	switch q.SortBy {
	case SortByTitle:
		slices.SortStableFunc(view, func(a, b models.Task) int {
			return cmp.Or(
				cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)),
				cmp.Compare(a.Title, b.Title),
			)
		})
	case SortByStatus:
		slices.SortStableFunc(view, func(a, b models.Task) int { return cmp.Compare(a.Status, b.Status) })
	default:
		slices.SortStableFunc(view, func(a, b models.Task) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}

	page := max(q.Page, 1)
	totalPages := (len(view) + PageSize - 1) / PageSize
	from := min((page-1)*PageSize, len(view))
	to := min(from+PageSize, len(view))

	return Page{Tasks: view[from:to], Page: page, TotalPages: totalPages}
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}
