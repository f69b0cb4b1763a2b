// internal/storage/temperature.go
package storage

import (
	"github.com/google/uuid"

	"punchease/internal/model"
)

func (s *Storage) ListTemperatureLogs(companyID uuid.UUID) ([]model.TemperatureLog, error) {
	rows, err := s.DB.Query(`
		SELECT id, company_id, location, temperature, recorded_by, recorded_at
		FROM temperature_logs
		WHERE company_id = $1
		ORDER BY recorded_at DESC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.TemperatureLog
	for rows.Next() {
		var tl model.TemperatureLog
		if err := rows.Scan(&tl.ID, &tl.CompanyID, &tl.Location, &tl.Temperature, &tl.RecordedBy, &tl.RecordedAt); err != nil {
			return nil, err
		}
		logs = append(logs, tl)
	}
	return logs, rows.Err()
}

func (s *Storage) CreateTemperatureLog(tl *model.TemperatureLog) error {
	_, err := s.DB.Exec(`
		INSERT INTO temperature_logs (id, company_id, location, temperature, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, tl.ID, tl.CompanyID, tl.Location, tl.Temperature, tl.RecordedBy, tl.RecordedAt)
	return err
}

func (s *Storage) DeleteTemperatureLog(companyID, id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM temperature_logs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}
