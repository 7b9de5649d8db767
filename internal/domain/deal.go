package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deal represents one sales opportunity moving through the pipeline.
type Deal struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	Title       string     `json:"title"`
	Status      DealStatus `json:"status"`
	OfferAmount *float64   `json:"offer_amount,omitempty"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewDeal creates a deal at the entry status of the sales phase.
func NewDeal(customerID uuid.UUID, title string) Deal {
	now := time.Now()
	return Deal{
		ID:         uuid.New(),
		CustomerID: customerID,
		Title:      title,
		Status:     DealStatusAppointmentAcquired,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// WithStatus returns a copy of the deal carrying the new status.
func (d Deal) WithStatus(status DealStatus) Deal {
	d.Status = status
	d.UpdatedAt = time.Now()
	return d
}

// TrackedFields projects the deal onto the audit whitelist for diffing.
func (d Deal) TrackedFields() map[string]any {
	fields := map[string]any{
		"title":       d.Title,
		"status":      string(d.Status),
		"customer_id": d.CustomerID.String(),
		"notes":       d.Notes,
	}
	if d.OfferAmount != nil {
		fields["offer_amount"] = *d.OfferAmount
	}
	return fields
}
