package export

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/helioscrm/pipeline/internal/domain"

	"github.com/google/uuid"
)

// Handler exposes the timeline export as a GET endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entityType := domain.EntityType(strings.TrimSpace(r.URL.Query().Get("entityType")))
	if !entityType.IsValid() {
		http.Error(w, fmt.Sprintf("invalid entity type %q", entityType), http.StatusBadRequest)
		return
	}

	entityID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("entityId")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid entity id: %v", err), http.StatusBadRequest)
		return
	}

	fileName := fmt.Sprintf("timeline-%s-%s.xlsx", entityType, entityID)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := h.service.WriteTimeline(r.Context(), entityType, entityID, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
