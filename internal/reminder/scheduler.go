package reminder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
)

// LeadTime is how long before a task's due date its reminder fires.
const LeadTime = 5 * time.Minute

const (
	reminderTitle    = "Task Reminder"
	reminderSubtitle = "Remember get this DONE"
	dueLayout        = "Jan 2, 2006 at 3:04 PM"
)

// Rescheduler is what the compose flow needs from a scheduler.
type Rescheduler interface {
	Reschedule(task models.Task)
}

// Scheduler keeps at most one pending reminder per task in a Center.
type Scheduler struct {
	center Center
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduler(center Center, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{center: center, logger: logger, now: time.Now}
}

// Reschedule cancels the task's pending reminder and, when dueDate minus
// LeadTime is still ahead, registers a new one for that moment. Registration
// errors are logged only.
func (s *Scheduler) Reschedule(task models.Task) {
	s.reschedule(task)
}

func (s *Scheduler) reschedule(task models.Task) bool {
	s.center.Remove(task.ID())

	fireAt := task.DueDate.Add(-LeadTime)
	if !fireAt.After(s.now()) {
		s.logger.Debug("reminder skipped, fire time already passed",
			"task_id", task.ID(),
			"fire_at", fireAt,
		)
		return false
	}

	req := RequestFor(task, fireAt)
	if err := s.center.Add(req); err != nil {
		s.logger.Warn("failed to schedule reminder", "task_id", task.ID(), "error", err)
		return false
	}
	s.logger.Debug("reminder scheduled", "task_id", task.ID(), "fire_at", fireAt)
	return true
}

// Restore reschedules every incomplete task. Used at start-up since an
// in-process center starts empty.
func (s *Scheduler) Restore(tasks []models.Task) int {
	scheduled := 0
	for _, t := range tasks {
		if t.IsComplete() {
			continue
		}
		if s.reschedule(t) {
			scheduled++
		}
	}
	return scheduled
}

// RequestFor builds the reminder content for task firing at fireAt.
func RequestFor(task models.Task, fireAt time.Time) Request {
	return Request{
		ID:       task.ID(),
		Title:    reminderTitle,
		Subtitle: reminderSubtitle,
		Body:     fmt.Sprintf("%s is due soon! (%s)", task.Title, task.DueDate.Local().Format(dueLayout)),
		FireAt:   fireAt,
	}
}

// LogNotifier writes fired reminders to a logger.
func LogNotifier(logger *slog.Logger) Notifier {
	return NotifierFunc(func(req Request) {
		logger.Info("reminder",
			"task_id", req.ID,
			"title", req.Title,
			"subtitle", req.Subtitle,
			"body", req.Body,
		)
	})
}
