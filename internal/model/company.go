// internal/model/company.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant identity record. Slug is unique across all
// companies and addresses the company in URLs.
type Company struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Concurrency int       `db:"concurrency" json:"concurrency"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TenantCredential is the per-company portal login, stored alongside
// company settings. The hash is never returned to API callers.
type TenantCredential struct {
	SettingsID   uuid.UUID `db:"id"`
	CompanyID    uuid.UUID `db:"company_id"`
	Username     string    `db:"tenant_username"`
	PasswordHash string    `db:"tenant_password_hash"`
}
