// internal/model/temperature.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// TemperatureLog is a compliance record for a storage location
// (fridge, freezer, delivery van).
type TemperatureLog struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CompanyID   uuid.UUID `db:"company_id" json:"company_id"`
	Location    string    `db:"location" json:"location"`
	Temperature float64   `db:"temperature" json:"temperature"`
	RecordedBy  string    `db:"recorded_by" json:"recorded_by"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
}
