// internal/storage/postgres.go
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"punchease/internal/model"
)

// ErrNotFound distinguishes "no matching row" from a database fault so
// callers can map them to different responses.
var ErrNotFound = errors.New("not found")

type Storage struct {
	DB *sql.DB
}

func NewStorage(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Storage{DB: db}, nil
}

// CompanyBySlug resolves a URL slug to a company. The match is exact and
// case-sensitive, as stored.
func (s *Storage) CompanyBySlug(slug string) (*model.Company, error) {
	var c model.Company
	err := s.DB.QueryRow(`
		SELECT id, name, slug, concurrency, created_at
		FROM companies
		WHERE slug = $1
	`, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Concurrency, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("company by slug: %w", err)
	}
	return &c, nil
}

func (s *Storage) CompanyByID(id uuid.UUID) (*model.Company, error) {
	var c model.Company
	err := s.DB.QueryRow(`
		SELECT id, name, slug, concurrency, created_at
		FROM companies
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Concurrency, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("company by id: %w", err)
	}
	return &c, nil
}

func (s *Storage) CreateCompany(c *model.Company) error {
	_, err := s.DB.Exec(`
		INSERT INTO companies (id, name, slug, concurrency)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Name, c.Slug, c.Concurrency)
	return err
}

func (s *Storage) DeleteCompany(id uuid.UUID) error {
	_, err := s.DB.Exec(`DELETE FROM companies WHERE id = $1`, id)
	return err
}

func (s *Storage) ListCompanies() ([]model.Company, error) {
	rows, err := s.DB.Query(`SELECT id, name, slug, concurrency, created_at FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Concurrency, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *Storage) UpdateCompanyConcurrency(id uuid.UUID, workers int) error {
	_, err := s.DB.Exec(`
		UPDATE companies
		SET concurrency = $1
		WHERE id = $2
	`, workers, id)
	return err
}

// TenantCredentialByUsername is the one privileged read in the system: it
// returns a stored hash before the caller has proven any identity. Only
// the password verification handler may call it.
func (s *Storage) TenantCredentialByUsername(username string) (*model.TenantCredential, error) {
	var cred model.TenantCredential
	var hash sql.NullString
	err := s.DB.QueryRow(`
		SELECT id, company_id, tenant_username, tenant_password_hash
		FROM company_settings
		WHERE tenant_username = $1
	`, username).Scan(&cred.SettingsID, &cred.CompanyID, &cred.Username, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("credential lookup: %w", err)
	}
	// A settings row without a stored hash is treated like a missing record.
	if !hash.Valid || hash.String == "" {
		return nil, ErrNotFound
	}
	cred.PasswordHash = hash.String
	return &cred, nil
}

func (s *Storage) UpsertTenantCredential(cred *model.TenantCredential) error {
	_, err := s.DB.Exec(`
		INSERT INTO company_settings (id, company_id, tenant_username, tenant_password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id) DO UPDATE
		SET tenant_username = EXCLUDED.tenant_username,
		    tenant_password_hash = EXCLUDED.tenant_password_hash
	`, cred.SettingsID, cred.CompanyID, cred.Username, cred.PasswordHash)
	return err
}

// EnsureAuditPartition creates a company's audit partition if not exists
func (s *Storage) EnsureAuditPartition(companyID uuid.UUID) error {
	partitionName := fmt.Sprintf("audit_events_%s", partitionSuffix(companyID))
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s PARTITION OF audit_events
		FOR VALUES IN ('%s')`, partitionName, companyID.String())

	_, err := s.DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create partition: %w", err)
	}
	return nil
}

// InsertChangeEvent inserts an audit row into the company's partition
func (s *Storage) InsertChangeEvent(ev *model.ChangeEvent) error {
	// jsonb params go over the wire as text, not bytea
	var payload interface{}
	if len(ev.Payload) > 0 {
		payload = string(ev.Payload)
	}
	_, err := s.DB.Exec(`
		INSERT INTO audit_events (id, company_id, entity, action, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ev.ID, ev.CompanyID, ev.Entity, ev.Action, ev.EntityID, payload, ev.CreatedAt)
	return err
}

// ListChangeEventsPaginated retrieves audit rows using cursor-based pagination
func (s *Storage) ListChangeEventsPaginated(companyID uuid.UUID, cursor string, limit int) ([]model.ChangeEvent, string, error) {
	query := `
		SELECT id, company_id, entity, action, entity_id, payload, created_at
		FROM audit_events
		WHERE company_id = $1
		  AND ($2::uuid IS NULL OR id > $2::uuid)
		ORDER BY id
		LIMIT $3
	`

	var rows *sql.Rows
	var err error
	if cursor == "" {
		rows, err = s.DB.Query(query, companyID, nil, limit)
	} else {
		rows, err = s.DB.Query(query, companyID, cursor, limit)
	}
	if err != nil {
		return nil, "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var events []model.ChangeEvent
	var lastID uuid.UUID
	for rows.Next() {
		var ev model.ChangeEvent
		var payload []byte
		if err := rows.Scan(&ev.ID, &ev.CompanyID, &ev.Entity, &ev.Action, &ev.EntityID, &payload, &ev.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("scan failed: %w", err)
		}
		ev.Payload = payload
		lastID = ev.ID
		events = append(events, ev)
	}

	nextCursor := ""
	if len(events) == limit {
		nextCursor = lastID.String()
	}

	return events, nextCursor, nil
}

// partitionSuffix makes a UUID safe for use in a table name.
func partitionSuffix(id uuid.UUID) string {
	b := []byte(id.String())
	for i, c := range b {
		if c == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}
