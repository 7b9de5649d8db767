package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/helioscrm/pipeline/internal/auth"
	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/service"

	"github.com/google/uuid"
)

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func (h *Handler) createDeal(w http.ResponseWriter, r *http.Request) {
	var payload createDealPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customerID, err := uuid.Parse(payload.CustomerID)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid customer id: %v", err), http.StatusBadRequest)
		return
	}

	deal, err := h.deals.Create(r.Context(), auth.ActorIDFromContext(r.Context()), customerID, payload.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deal)
}

func (h *Handler) listDeals(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	deals, err := h.deals.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deals)
}

func (h *Handler) getDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deal, err := h.deals.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *Handler) updateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload updateDealPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deal, err := h.deals.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	deal.Title = payload.Title
	deal.OfferAmount = payload.OfferAmount
	deal.Notes = payload.Notes

	updated, err := h.deals.Update(r.Context(), auth.ActorIDFromContext(r.Context()), deal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.deals.Delete(r.Context(), auth.ActorIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) dealTransitions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	options, err := h.deals.Transitions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *Handler) changeDealStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload changeStatusPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deal, err := h.deals.ChangeStatus(
		r.Context(),
		auth.ActorIDFromContext(r.Context()),
		id,
		domain.DealStatus(payload.Status),
		payload.Comment,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *Handler) dealTimeline(w http.ResponseWriter, r *http.Request) {
	h.entityTimeline(w, r, domain.EntityTypeDeal)
}

func (h *Handler) contractTimeline(w http.ResponseWriter, r *http.Request) {
	h.entityTimeline(w, r, domain.EntityTypeContract)
}

func (h *Handler) customerTimeline(w http.ResponseWriter, r *http.Request) {
	h.entityTimeline(w, r, domain.EntityTypeCustomer)
}

func (h *Handler) entityTimeline(w http.ResponseWriter, r *http.Request, entityType domain.EntityType) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := service.TimelineQuery{Limit: h.pageSize}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			query.Limit = limit
		}
	}
	if r.URL.Query().Get("expand") == "true" {
		query.Limit = -1
	}
	query.Collapse = r.URL.Query().Get("collapse") == "true"

	timeline, err := h.timeline.ForEntity(r.Context(), entityType, id, query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}
