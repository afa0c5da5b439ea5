// Package tasks is the compose and list flow shared by the terminal UI, the
// HTTP API and the CLI.
package tasks

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/store"
)

var ErrTaskNotFound = errors.New("task not found")

// Service wires the form boundary to the store and the reminder scheduler.
type Service struct {
	store     store.TaskStore
	scheduler reminder.Rescheduler
	logger    *slog.Logger
}

// NewService creates a Service. scheduler may be nil to disable reminders.
func NewService(st store.TaskStore, scheduler reminder.Rescheduler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, scheduler: scheduler, logger: logger}
}

// List returns every task in stored order, or by urgency when byUrgency is set.
func (s *Service) List(ctx context.Context, byUrgency bool) []models.Task {
	all := s.store.LoadAll(ctx)
	if byUrgency {
		models.SortByUrgency(all)
	}
	return all
}

func (s *Service) Get(ctx context.Context, id string) (models.Task, error) {
	t, ok := s.store.Get(ctx, id)
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	return t, nil
}

// Compose validates the form, builds a new task or edits editing, stores it,
// hands it to onCompose (when non-nil) and reschedules its reminder. A
// validation failure returns a *ValidationError and touches nothing. An edit
// is applied to the stored copy of editing, not to editing itself.
func (s *Service) Compose(ctx context.Context, form Form, editing *models.Task, onCompose func(models.Task)) (models.Task, error) {
	if editing != nil {
		return s.Edit(ctx, editing.ID(), form, onCompose)
	}

	t, err := form.Build(nil)
	if err != nil {
		return models.Task{}, err
	}
	s.store.Upsert(ctx, t)
	s.composed(t, false, onCompose)
	return t, nil
}

// Edit applies form to the stored task with id.
func (s *Service) Edit(ctx context.Context, id string, form Form, onCompose func(models.Task)) (models.Task, error) {
	return s.Patch(ctx, id, func(Form) Form { return form }, onCompose)
}

// Patch builds the edit form from the stored task, passes it through apply
// and saves the result. The read and the write happen under one store
// update.
func (s *Service) Patch(ctx context.Context, id string, apply func(Form) Form, onCompose func(models.Task)) (models.Task, error) {
	t, err := s.update(ctx, id, func(t *models.Task) error {
		built, err := apply(FormFromTask(*t)).Build(t)
		if err != nil {
			return err
		}
		*t = built
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	s.composed(t, true, onCompose)
	return t, nil
}

func (s *Service) composed(t models.Task, edit bool, onCompose func(models.Task)) {
	if onCompose != nil {
		onCompose(t)
	}
	if s.scheduler != nil {
		s.scheduler.Reschedule(t)
	}
	s.logger.Info("task composed",
		"task_id", t.ID(),
		"edit", edit,
		"priority", t.Priority.String(),
	)
}

// ToggleComplete flips completion of the stored task and persists it.
func (s *Service) ToggleComplete(ctx context.Context, id string) (models.Task, error) {
	return s.update(ctx, id, func(t *models.Task) error {
		t.Toggle()
		return nil
	})
}

// SetComplete sets completion of the stored task and persists it.
func (s *Service) SetComplete(ctx context.Context, id string, complete bool) (models.Task, error) {
	return s.update(ctx, id, func(t *models.Task) error {
		t.SetComplete(complete)
		return nil
	})
}

func (s *Service) update(ctx context.Context, id string, fn func(*models.Task) error) (models.Task, error) {
	t, err := s.store.Update(ctx, id, fn)
	if errors.Is(err, store.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	return t, err
}
