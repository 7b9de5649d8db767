package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contract represents the signed agreement that a won deal turns into.
type Contract struct {
	ID           uuid.UUID      `json:"id"`
	DealID       uuid.UUID      `json:"deal_id"`
	Title        string         `json:"title"`
	Status       ContractStatus `json:"status"`
	ContractType string         `json:"contract_type"`
	MonthlyRate  *float64       `json:"monthly_rate,omitempty"`
	Notes        string         `json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewContract creates a contract at the intake status.
func NewContract(dealID uuid.UUID, title, contractType string) Contract {
	now := time.Now()
	return Contract{
		ID:           uuid.New(),
		DealID:       dealID,
		Title:        title,
		Status:       ContractStatusIntakeReceived,
		ContractType: contractType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// WithStatus returns a copy of the contract carrying the new status.
func (c Contract) WithStatus(status ContractStatus) Contract {
	c.Status = status
	c.UpdatedAt = time.Now()
	return c
}

// TrackedFields projects the contract onto the audit whitelist.
func (c Contract) TrackedFields() map[string]any {
	fields := map[string]any{
		"title":         c.Title,
		"status":        string(c.Status),
		"deal_id":       c.DealID.String(),
		"contract_type": c.ContractType,
		"notes":         c.Notes,
	}
	if c.MonthlyRate != nil {
		fields["monthly_rate"] = *c.MonthlyRate
	}
	return fields
}
