package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies which kind of record an audit entry belongs to.
type EntityType string

const (
	EntityTypeDeal     EntityType = "deal"
	EntityTypeContract EntityType = "contract"
	EntityTypeCustomer EntityType = "customer"
	EntityTypeTask     EntityType = "task"
	EntityTypePayment  EntityType = "payment"
)

// IsValid reports whether t is one of the audited entity types.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeDeal, EntityTypeContract, EntityTypeCustomer, EntityTypeTask, EntityTypePayment:
		return true
	}
	return false
}

// HistoryAction is the kind of mutation an EntityHistory entry records.
type HistoryAction string

const (
	HistoryActionCreated HistoryAction = "created"
	HistoryActionUpdated HistoryAction = "updated"
	HistoryActionDeleted HistoryAction = "deleted"
)

// EntityHistory is one audited mutation. Entries are append-only and
// outlive the entity they describe; a delete entry is written before the
// entity row disappears.
type EntityHistory struct {
	ID         uuid.UUID     `json:"id"`
	EntityType EntityType    `json:"entity_type"`
	EntityID   uuid.UUID     `json:"entity_id"`
	Action     HistoryAction `json:"action"`
	ActorID    *uuid.UUID    `json:"actor_id,omitempty"`
	Changes    ChangeSet     `json:"changes,omitempty"`
	Comment    *string       `json:"comment,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// StatusChangeHistory is one recorded status transition. It is a separate
// stream from EntityHistory: a transition driven through a generic update
// can produce both an "updated" entry and a status-change entry, which the
// timeline merger documents rather than hides.
type StatusChangeHistory struct {
	ID             uuid.UUID  `json:"id"`
	EntityID       uuid.UUID  `json:"entity_id"`
	PreviousStatus *string    `json:"previous_status,omitempty"`
	NewStatus      string     `json:"new_status"`
	ActorID        *uuid.UUID `json:"actor_id,omitempty"`
	Comment        *string    `json:"comment,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Activity is a free-form note attached to an entity. It stays mutable and
// deletable only inside the edit window.
type Activity struct {
	ID        uuid.UUID  `json:"id"`
	EntityID  uuid.UUID  `json:"entity_id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DefaultTrackedFields is the per-entity-type whitelist of fields that are
// diffed and audited. Internal bookkeeping columns stay out on purpose.
var DefaultTrackedFields = map[EntityType][]string{
	EntityTypeDeal:     {"title", "status", "customer_id", "offer_amount", "notes"},
	EntityTypeContract: {"title", "status", "deal_id", "contract_type", "monthly_rate", "notes"},
	EntityTypeCustomer: {"name", "email", "phone", "street", "postal_code", "city"},
	EntityTypeTask:     {"title", "status", "due_at", "assignee_id"},
	EntityTypePayment:  {"amount", "status", "paid_at"},
}
