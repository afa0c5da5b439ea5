package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/calendar"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

type listResponse struct {
	Tasks []models.Task `json:"tasks"`
	Count int           `json:"count"`
}

type TaskHandler struct {
	svc *tasks.Service
	now func() time.Time
}

func NewTaskHandler(svc *tasks.Service) *TaskHandler {
	return &TaskHandler{svc: svc, now: time.Now}
}

// List handles GET /tasks. ?sort=urgency orders by priority then due date.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	if sort != "" && sort != "urgency" {
		writeError(w, http.StatusBadRequest, "sort must be urgency or omitted")
		return
	}

	all := h.svc.List(r.Context(), sort == "urgency")
	if all == nil {
		all = []models.Task{}
	}
	writeJSON(w, http.StatusOK, listResponse{Tasks: all, Count: len(all)})
}

// Create handles POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCompose(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t, err := h.svc.Compose(r.Context(), req.apply(tasks.NewForm(h.now())), nil, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Get handles GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Update handles PUT /tasks/{id}. The body is read first; the stored task is
// then prefilled, overlaid and saved in one store update.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCompose(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t, err := h.svc.Patch(r.Context(), chi.URLParam(r, "id"), req.apply, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Toggle handles POST /tasks/{id}/toggle
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.ToggleComplete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Calendar handles GET /tasks/{id}/calendar.ics
func (h *TaskHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeICS(w, "task-"+t.ID()+".ics", calendar.BuildICS([]models.Task{t}, h.now()))
}

// CalendarAll handles GET /tasks/calendar.ics
func (h *TaskHandler) CalendarAll(w http.ResponseWriter, r *http.Request) {
	writeICS(w, "tasks.ics", calendar.BuildICS(h.svc.List(r.Context(), false), h.now()))
}

func writeICS(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
