package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
)

// DefaultTasksKey is the storage key holding the encoded task list.
const DefaultTasksKey = "com.tasksOfToday.tasks"

// TaskStore persists the whole task list as one value.
//
// None of the methods report errors: a missing or unreadable list loads as
// empty, and a failed save is logged and dropped.
type TaskStore interface {
	LoadAll(ctx context.Context) []models.Task
	SaveAll(ctx context.Context, tasks []models.Task)
	Upsert(ctx context.Context, task models.Task)
	Get(ctx context.Context, id string) (models.Task, bool)
	// Update loads the task with id, hands it to fn and saves the result,
	// all as one step. It returns ErrNotFound for an unknown id; an error
	// from fn is returned unchanged and nothing is saved.
	Update(ctx context.Context, id string, fn func(*models.Task) error) (models.Task, error)
}

// BlobStore is a TaskStore that encodes the task list as a JSON array under
// a single KV key. Each call holds mu for its full duration, so a load is
// never interleaved with a save.
type BlobStore struct {
	mu     sync.Mutex
	kv     KV
	key    string
	logger *slog.Logger
}

func NewBlobStore(kv KV, key string, logger *slog.Logger) *BlobStore {
	if key == "" {
		key = DefaultTasksKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobStore{kv: kv, key: key, logger: logger}
}

func (s *BlobStore) LoadAll(ctx context.Context) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *BlobStore) SaveAll(ctx context.Context, tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(ctx, tasks)
}

// Upsert replaces the task with the same ID in place, or appends it.
func (s *BlobStore) Upsert(ctx context.Context, task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.loadLocked(ctx)
	replaced := false
	for i := range tasks {
		if tasks[i].ID() == task.ID() {
			tasks[i] = task
			replaced = true
			break
		}
	}
	if !replaced {
		tasks = append(tasks, task)
	}
	s.saveLocked(ctx, tasks)
}

func (s *BlobStore) Update(ctx context.Context, id string, fn func(*models.Task) error) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.loadLocked(ctx)
	for i := range tasks {
		if tasks[i].ID() != id {
			continue
		}
		t := tasks[i]
		if err := fn(&t); err != nil {
			return models.Task{}, err
		}
		if t.ID() != id {
			return models.Task{}, fmt.Errorf("update %s: task id changed to %s", id, t.ID())
		}
		tasks[i] = t
		s.saveLocked(ctx, tasks)
		return t, nil
	}
	return models.Task{}, ErrNotFound
}

func (s *BlobStore) Get(ctx context.Context, id string) (models.Task, bool) {
	for _, t := range s.LoadAll(ctx) {
		if t.ID() == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (s *BlobStore) loadLocked(ctx context.Context) []models.Task {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []models.Task{}
	}
	if err != nil {
		s.logger.Warn("failed to read tasks", "key", s.key, "error", err)
		return []models.Task{}
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Warn("discarding unreadable task list", "key", s.key, "error", err)
		return []models.Task{}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks
}

func (s *BlobStore) saveLocked(ctx context.Context, tasks []models.Task) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Error("failed to encode tasks", "error", err)
		return
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		s.logger.Error("failed to save tasks", "key", s.key, "error", err)
	}
}
