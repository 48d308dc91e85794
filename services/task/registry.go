// Package task tracks scrape tasks through their lifecycle so callers can
// poll identifiers instead of holding a connection open for a whole crawl.
package task

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"productworker/internal/scrape"
	"productworker/pkg/errors"
)

// Status enumerates the task lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is one tracked scrape request with its progress and outcome.
type Task struct {
	ID        string               `json:"id"`
	Status    Status               `json:"status"`
	Progress  int                  `json:"progress"`
	Request   scrape.ScrapeRequest `json:"request"`
	Result    *scrape.Result       `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Registry is an in-memory task table guarded by a RWMutex.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Create registers a new pending task for the request and returns its id.
func (r *Registry) Create(req scrape.ScrapeRequest) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	now := time.Now()
	r.tasks[id] = &Task{
		ID:        id,
		Status:    StatusPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id
}

// Start marks the task running.
func (r *Registry) Start(id string) error {
	return r.update(id, func(t *Task) {
		t.Status = StatusRunning
	})
}

// UpdateProgress records completion percentage from pages done over total.
func (r *Registry) UpdateProgress(id string, pagesDone, pagesTotal int) error {
	return r.update(id, func(t *Task) {
		if pagesTotal <= 0 {
			return
		}
		pct := pagesDone * 100 / pagesTotal
		if pct > 100 {
			pct = 100
		}
		t.Progress = pct
	})
}

// Complete stores the result and marks the task completed.
func (r *Registry) Complete(id string, result *scrape.Result) error {
	return r.update(id, func(t *Task) {
		t.Status = StatusCompleted
		t.Progress = 100
		t.Result = result
	})
}

// Fail marks the task failed with the given error.
func (r *Registry) Fail(id string, err error) error {
	return r.update(id, func(t *Task) {
		t.Status = StatusFailed
		if err != nil {
			t.Error = err.Error()
		}
	})
}

// Get returns a copy of the task.
func (r *Registry) Get(id string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return Task{}, errors.NewValidation(id, "task not found")
	}
	return *t, nil
}

// List returns copies of all tasks, newest first.
func (r *Registry) List() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *Registry) update(id string, fn func(*Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return errors.NewValidation(id, "task not found")
	}
	fn(t)
	t.UpdatedAt = time.Now()
	return nil
}
