// internal/storage/customers.go
package storage

import (
	"github.com/google/uuid"

	"punchease/internal/model"
)

func (s *Storage) ListBusinessCustomers(companyID uuid.UUID) ([]model.BusinessCustomer, error) {
	rows, err := s.DB.Query(`
		SELECT id, company_id, name, org_number, contact_name, contact_email, phone, created_at
		FROM business_customers
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []model.BusinessCustomer
	for rows.Next() {
		var c model.BusinessCustomer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.OrgNumber, &c.ContactName, &c.ContactEmail, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Storage) CreateBusinessCustomer(c *model.BusinessCustomer) error {
	_, err := s.DB.Exec(`
		INSERT INTO business_customers (id, company_id, name, org_number, contact_name, contact_email, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.CompanyID, c.Name, c.OrgNumber, c.ContactName, c.ContactEmail, c.Phone)
	return err
}

func (s *Storage) UpdateBusinessCustomer(c *model.BusinessCustomer) error {
	res, err := s.DB.Exec(`
		UPDATE business_customers
		SET name = $1, org_number = $2, contact_name = $3, contact_email = $4, phone = $5
		WHERE id = $6 AND company_id = $7
	`, c.Name, c.OrgNumber, c.ContactName, c.ContactEmail, c.Phone, c.ID, c.CompanyID)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}

func (s *Storage) DeleteBusinessCustomer(companyID, id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM business_customers WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}
