// internal/model/shift.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Shift struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CompanyID  uuid.UUID `db:"company_id" json:"company_id"`
	EmployeeID uuid.UUID `db:"employee_id" json:"employee_id"`
	StartsAt   time.Time `db:"starts_at" json:"starts_at"`
	EndsAt     time.Time `db:"ends_at" json:"ends_at"`
	Note       string    `db:"note" json:"note"`
}
