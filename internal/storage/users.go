// internal/storage/users.go
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"punchease/internal/model"
)

func (s *Storage) CreateUser(u *model.User) error {
	_, err := s.DB.Exec(`
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
	`, u.ID, u.Email, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Storage) UserByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.DB.QueryRow(`
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &u, nil
}

func (s *Storage) CreateProfile(p *model.Profile) error {
	_, err := s.DB.Exec(`
		INSERT INTO profiles (id, user_id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.UserID, p.FirstName, p.LastName, p.Email)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Storage) RoleForUser(userID uuid.UUID) (string, error) {
	var role string
	err := s.DB.QueryRow(`
		SELECT role FROM user_roles WHERE user_id = $1 LIMIT 1
	`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("role for user: %w", err)
	}
	return role, nil
}

func (s *Storage) CreateUserRole(r *model.UserRole) error {
	_, err := s.DB.Exec(`
		INSERT INTO user_roles (id, user_id, role)
		VALUES ($1, $2, $3)
	`, r.ID, r.UserID, r.Role)
	if err != nil {
		return fmt.Errorf("create user role: %w", err)
	}
	return nil
}
