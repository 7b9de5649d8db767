package api

import (
	"net/http"

	"github.com/helioscrm/pipeline/internal/auth"
)

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var payload createCustomerPayload
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer, err := h.customers.Create(r.Context(), auth.ActorIDFromContext(r.Context()), payload.Name, payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload struct {
		Name       string `json:"name" validate:"required,max=200"`
		Email      string `json:"email" validate:"omitempty,email"`
		Phone      string `json:"phone" validate:"max=50"`
		Street     string `json:"street" validate:"max=200"`
		PostalCode string `json:"postalCode" validate:"max=20"`
		City       string `json:"city" validate:"max=100"`
	}
	if err := decodePayload(r.Body, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer.Name = payload.Name
	customer.Email = payload.Email
	customer.Phone = payload.Phone
	customer.Street = payload.Street
	customer.PostalCode = payload.PostalCode
	customer.City = payload.City

	updated, err := h.customers.Update(r.Context(), auth.ActorIDFromContext(r.Context()), customer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.customers.Delete(r.Context(), auth.ActorIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
