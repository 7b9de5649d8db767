// Package api exposes the workflow core over plain HTTP. Handlers stay
// thin: decode, validate, call the service, map the error.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError maps service errors onto HTTP statuses. Store failures stay
// 500s; everything the caller can fix maps below that.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEditWindowExpired):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
