// internal/model/audit.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChangeEvent is published to a company's change queue after every
// successful mutation and persisted as an audit row by the consumer.
type ChangeEvent struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CompanyID uuid.UUID `db:"company_id" json:"company_id"`
	Entity    string    `db:"entity" json:"entity"`
	Action    string    `db:"action" json:"action"`
	EntityID  uuid.UUID `db:"entity_id" json:"entity_id"`
	Payload   json.RawMessage `db:"payload" json:"payload,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)
