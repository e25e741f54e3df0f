package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

// envelope is the uniform response shape. Errors carry a field-level breakdown
// when validation failed; meta is present on paginated collections.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Meta    *meta               `json:"meta,omitempty"`
}

type meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func newMeta(total, page, limit int) *meta {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return &meta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data any, m *meta) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Meta: m})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

// writeError maps domain errors to HTTP statuses. Anything unrecognized is a
// 500 with a generic message; the cause goes to the log, not the client.
func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "Validation failed",
			Errors:  verr.Fields,
		})
		return
	}

	var ierr *models.InvariantError
	if errors.As(err, &ierr) {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ierr.Message})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Resource not found"})
	case errors.Is(err, models.ErrForbidden):
		writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "You do not have permission to perform this action"})
	case errors.Is(err, models.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Invalid credentials"})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, models.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "Internal server error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
}
