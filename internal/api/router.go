// Package api serves the task list over HTTP.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/store"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

// NewRouter creates the Chi router with all routes and middleware. center may
// be nil when reminders are disabled.
func NewRouter(
	svc *tasks.Service,
	kv store.KV,
	storeKey string,
	center reminder.Center,
	apiKey string,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(kv, storeKey, center)
	taskH := NewTaskHandler(svc)
	reminderH := NewReminderHandler(center)

	r.Get("/health", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskH.List)
			r.Post("/", taskH.Create)
			r.Get("/calendar.ics", taskH.CalendarAll)
			r.Get("/{id}", taskH.Get)
			r.Put("/{id}", taskH.Update)
			r.Post("/{id}/toggle", taskH.Toggle)
			r.Get("/{id}/calendar.ics", taskH.Calendar)
		})

		r.Get("/reminders", reminderH.List)
	})

	return r
}
