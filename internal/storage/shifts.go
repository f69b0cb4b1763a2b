// internal/storage/shifts.go
package storage

import (
	"database/sql"

	"github.com/google/uuid"

	"punchease/internal/model"
)

func (s *Storage) ListShifts(companyID uuid.UUID) ([]model.Shift, error) {
	rows, err := s.DB.Query(`
		SELECT id, company_id, employee_id, starts_at, ends_at, note
		FROM shifts
		WHERE company_id = $1
		ORDER BY starts_at DESC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var sh model.Shift
		if err := rows.Scan(&sh.ID, &sh.CompanyID, &sh.EmployeeID, &sh.StartsAt, &sh.EndsAt, &sh.Note); err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

func (s *Storage) CreateShift(sh *model.Shift) error {
	_, err := s.DB.Exec(`
		INSERT INTO shifts (id, company_id, employee_id, starts_at, ends_at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sh.ID, sh.CompanyID, sh.EmployeeID, sh.StartsAt, sh.EndsAt, sh.Note)
	return err
}

func (s *Storage) UpdateShift(sh *model.Shift) error {
	res, err := s.DB.Exec(`
		UPDATE shifts
		SET employee_id = $1, starts_at = $2, ends_at = $3, note = $4
		WHERE id = $5 AND company_id = $6
	`, sh.EmployeeID, sh.StartsAt, sh.EndsAt, sh.Note, sh.ID, sh.CompanyID)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}

func (s *Storage) DeleteShift(companyID, id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM shifts WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}

// oneRowAffected maps "no row matched" to ErrNotFound so handlers can
// answer 404 instead of silently succeeding.
func oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
