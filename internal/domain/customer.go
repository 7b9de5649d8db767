package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the person or company a deal is negotiated with.
type Customer struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	PostalCode string    `json:"postal_code"`
	City       string    `json:"city"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCustomer creates a customer record.
func NewCustomer(name, email string) Customer {
	now := time.Now()
	return Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TrackedFields projects the customer onto the audit whitelist.
func (c Customer) TrackedFields() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"email":       c.Email,
		"phone":       c.Phone,
		"street":      c.Street,
		"postal_code": c.PostalCode,
		"city":        c.City,
	}
}
