// Package tasks tracks background import jobs and their progress in memory.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Annany2002/domain-ledger/internal/metrics"
)

var ErrTaskNotFound = errors.New("task not found")

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Task is a snapshot of a background job.
type Task struct {
	ID         uuid.UUID
	Title      string
	Total      int
	Processed  int
	Failed     int
	Status     Status
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time

	firstErr error
}

// Job does the work of a task. It must call report once per processed item,
// passing the item's error or nil.
type Job func(ctx context.Context, report func(error)) error

// Registry holds every task started since process start, minus pruned ones.
type Registry struct {
	mu        sync.RWMutex
	tasks     map[uuid.UUID]*Task
	retention time.Duration
	log       *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a registry. Finished tasks older than retention are
// dropped whenever a new task starts; a zero retention keeps them forever.
func NewRegistry(retention time.Duration, log *logrus.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		tasks:     make(map[uuid.UUID]*Task),
		retention: retention,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start registers a pending task of total items and runs job on its own goroutine.
func (r *Registry) Start(title string, total int, job Job) uuid.UUID {
	task := &Task{
		ID:        uuid.New(),
		Title:     title,
		Total:     total,
		Status:    StatusPending,
		StartedAt: time.Now(),
	}

	r.mu.Lock()
	r.pruneLocked(task.StartedAt)
	r.tasks[task.ID] = task
	r.mu.Unlock()

	r.log.Infof("Tasks: started task %s (%s, %d items)", task.ID, title, total)

	r.wg.Add(1)
	metrics.ImportTasksRunning.Inc()
	go func() {
		defer r.wg.Done()
		defer metrics.ImportTasksRunning.Dec()

		err := job(r.ctx, func(itemErr error) { r.advance(task.ID, itemErr) })
		r.finish(task.ID, err)
	}()

	return task.ID
}

// Get returns a copy of the task with the given id.
func (r *Registry) Get(id uuid.UUID) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *task, nil
}

// Shutdown cancels running jobs and waits for them to return or for ctx to expire.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every started job has returned.
func (r *Registry) Wait() {
	r.wg.Wait()
}

func (r *Registry) advance(id uuid.UUID, itemErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.Status != StatusPending {
		return
	}
	task.Processed++
	if itemErr != nil {
		task.Failed++
		if task.firstErr == nil {
			task.firstErr = itemErr
		}
		r.log.Warnf("Tasks: task %s item failed: %v", id, itemErr)
	}
}

func (r *Registry) finish(id uuid.UUID, jobErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return
	}
	task.FinishedAt = time.Now()

	switch {
	case jobErr != nil:
		task.Status = StatusError
		task.Err = jobErr.Error()
	case task.Failed > 0:
		task.Status = StatusError
		task.Err = fmt.Sprintf("%d of %d rows failed: %v", task.Failed, task.Total, task.firstErr)
	default:
		task.Status = StatusDone
	}

	metrics.ImportTasks.WithLabelValues(string(task.Status)).Inc()
	r.log.Infof("Tasks: task %s finished with status %s (%d/%d processed, %d failed)",
		id, task.Status, task.Processed, task.Total, task.Failed)
}

func (r *Registry) pruneLocked(now time.Time) {
	if r.retention <= 0 {
		return
	}
	for id, task := range r.tasks {
		if task.Status != StatusPending && now.Sub(task.FinishedAt) > r.retention {
			delete(r.tasks, id)
		}
	}
}
