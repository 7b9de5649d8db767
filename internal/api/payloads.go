package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type createCustomerPayload struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
}

type createDealPayload struct {
	CustomerID string `json:"customerId" validate:"required,uuid"`
	Title      string `json:"title" validate:"required,max=200"`
}

type updateDealPayload struct {
	Title       string   `json:"title" validate:"required,max=200"`
	OfferAmount *float64 `json:"offerAmount" validate:"omitempty,gte=0"`
	Notes       string   `json:"notes" validate:"max=10000"`
}

type createContractPayload struct {
	DealID       string `json:"dealId" validate:"required,uuid"`
	Title        string `json:"title" validate:"required,max=200"`
	ContractType string `json:"contractType" validate:"required,max=100"`
}

type updateContractPayload struct {
	Title       string   `json:"title" validate:"required,max=200"`
	MonthlyRate *float64 `json:"monthlyRate" validate:"omitempty,gte=0"`
	Notes       string   `json:"notes" validate:"max=10000"`
}

type changeStatusPayload struct {
	Status  string  `json:"status" validate:"required,max=100"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type activityPayload struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// decodePayload reads, decodes, and validates a JSON request body.
func decodePayload(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
