package api

import (
	"fmt"
	"net/http"

	"github.com/helioscrm/pipeline/internal/auth"
	"github.com/helioscrm/pipeline/internal/domain"

	"github.com/google/uuid"
)

func (h *Handler) createContract(w http.ResponseWriter, r *http.Request) {
	var payload createContractPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dealID, err := uuid.Parse(payload.DealID)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid deal id: %v", err), http.StatusBadRequest)
		return
	}

	contract, err := h.contracts.Create(
		r.Context(),
		auth.ActorIDFromContext(r.Context()),
		dealID,
		payload.Title,
		payload.ContractType,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

func (h *Handler) getContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contract, err := h.contracts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *Handler) updateContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload updateContractPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contract, err := h.contracts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	contract.Title = payload.Title
	contract.MonthlyRate = payload.MonthlyRate
	contract.Notes = payload.Notes

	updated, err := h.contracts.Update(r.Context(), auth.ActorIDFromContext(r.Context()), contract)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.contracts.Delete(r.Context(), auth.ActorIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) contractTransitions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	options, err := h.contracts.Transitions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *Handler) changeContractStatus(w http.ResponseWriter, r *http.Request) {
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

	contract, err := h.contracts.ChangeStatus(
		r.Context(),
		auth.ActorIDFromContext(r.Context()),
		id,
		domain.ContractStatus(payload.Status),
		payload.Comment,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}
