// internal/storage/employees.go
package storage

import (
	"github.com/google/uuid"

	"punchease/internal/model"
)

func (s *Storage) ListEmployees(companyID uuid.UUID) ([]model.Employee, error) {
	rows, err := s.DB.Query(`
		SELECT id, company_id, name, role, phone, active, created_at
		FROM employees
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Name, &e.Role, &e.Phone, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Storage) CreateEmployee(e *model.Employee) error {
	_, err := s.DB.Exec(`
		INSERT INTO employees (id, company_id, name, role, phone, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.CompanyID, e.Name, e.Role, e.Phone, e.Active)
	return err
}

func (s *Storage) UpdateEmployee(e *model.Employee) error {
	res, err := s.DB.Exec(`
		UPDATE employees
		SET name = $1, role = $2, phone = $3, active = $4
		WHERE id = $5 AND company_id = $6
	`, e.Name, e.Role, e.Phone, e.Active, e.ID, e.CompanyID)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}

func (s *Storage) DeleteEmployee(companyID, id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM employees WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}
