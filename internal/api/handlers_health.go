package api

import (
	"errors"
	"net/http"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/store"
)

type serviceCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status           string       `json:"status"`
	Store            serviceCheck `json:"store"`
	PendingReminders int          `json:"pendingReminders"`
}

type HealthHandler struct {
	kv     store.KV
	key    string
	center reminder.Center
}

func NewHealthHandler(kv store.KV, key string, center reminder.Center) *HealthHandler {
	return &HealthHandler{kv: kv, key: key, center: center}
}

// Health handles GET /health. A missing task list still counts as reachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Store: serviceCheck{Status: "ok"}}

	if _, err := h.kv.Get(r.Context(), h.key); err != nil && !errors.Is(err, store.ErrNotFound) {
		resp.Store = serviceCheck{Status: "error", Message: err.Error()}
		resp.Status = "degraded"
	}
	if h.center != nil {
		resp.PendingReminders = len(h.center.Pending())
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
