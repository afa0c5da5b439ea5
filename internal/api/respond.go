package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps tasks.Service errors to responses. A validation
// failure carries its alert as the body.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *tasks.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, ve.Alert)
	case errors.Is(err, tasks.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
