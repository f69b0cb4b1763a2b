// internal/model/customer.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// BusinessCustomer is a company-scoped B2B customer record
// ("Bedriftskunde").
type BusinessCustomer struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CompanyID    uuid.UUID `db:"company_id" json:"company_id"`
	Name         string    `db:"name" json:"name"`
	OrgNumber    string    `db:"org_number" json:"org_number"`
	ContactName  string    `db:"contact_name" json:"contact_name"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	Phone        string    `db:"phone" json:"phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
