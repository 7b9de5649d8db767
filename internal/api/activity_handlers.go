package api

import (
	"net/http"

	"github.com/helioscrm/pipeline/internal/auth"
	"github.com/helioscrm/pipeline/internal/domain"
)

// activityResponse carries the rendering hints next to the note itself.
type activityResponse struct {
	Activity             domain.Activity `json:"activity"`
	Editable             bool            `json:"editable"`
	RemainingEditMinutes int             `json:"remainingEditMinutes"`
}

func (h *Handler) activityResponse(activity domain.Activity) activityResponse {
	editable, remaining := h.activities.Editability(activity)
	return activityResponse{
		Activity:             activity,
		Editable:             editable,
		RemainingEditMinutes: remaining,
	}
}

func (h *Handler) addActivity(w http.ResponseWriter, r *http.Request) {
	entityID, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload activityPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	activity, err := h.activities.Add(r.Context(), entityID, auth.ActorIDFromContext(r.Context()), payload.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.activityResponse(activity))
}

func (h *Handler) editActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload activityPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	activity, err := h.activities.Edit(r.Context(), id, payload.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.activityResponse(activity))
}

func (h *Handler) removeActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.activities.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
