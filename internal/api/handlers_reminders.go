package api

import (
	"net/http"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
)

type ReminderHandler struct {
	center reminder.Center
}

func NewReminderHandler(center reminder.Center) *ReminderHandler {
	return &ReminderHandler{center: center}
}

// List handles GET /reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	pending := []reminder.Request{}
	if h.center != nil {
		pending = append(pending, h.center.Pending()...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": pending, "count": len(pending)})
}
