// internal/bootstrap/bootstrap.go
package bootstrap

import (
	"fmt"

	"github.com/google/uuid"

	"punchease/internal/auth"
	"punchease/internal/model"
)

// Identity is the superadmin to provision. It comes from configuration so
// no credential is baked into the binary.
type Identity struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Store is the subset of storage the bootstrap needs.
type Store interface {
	CreateUser(u *model.User) error
	CreateProfile(p *model.Profile) error
	CreateUserRole(r *model.UserRole) error
}

// BootstrappedUser identifies the provisioned account.
type BootstrappedUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Result mirrors the provisioning outcome reported to the operator.
type Result struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	User    BootstrappedUser `json:"user"`
}

// Provision creates the superadmin account, profile, and role assignment.
// The three steps are strictly sequential and not transactional: a
// failure partway leaves earlier rows in place with no rollback, and the
// error names the step that failed so the operator can reconcile by hand.
// Running it a second time with the same email fails at the account step
// (duplicate email) before any profile or role write.
func Provision(store Store, id Identity, bcryptCost int) (*Result, error) {
	if id.Email == "" || id.Password == "" {
		return nil, fmt.Errorf("superadmin email and password are required")
	}

	hash, err := auth.HashPassword(id.Password, bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash superadmin password: %w", err)
	}

	// Step 1: auth account
	user := &model.User{
		ID:           uuid.New(),
		Email:        id.Email,
		PasswordHash: hash,
	}
	if err := store.CreateUser(user); err != nil {
		return nil, fmt.Errorf("create auth account: %w", err)
	}

	// Step 2: profile row
	profile := &model.Profile{
		ID:        uuid.New(),
		UserID:    user.ID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
	}
	if err := store.CreateProfile(profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	// Step 3: role assignment
	role := &model.UserRole{
		ID:     uuid.New(),
		UserID: user.ID,
		Role:   model.RoleSuperadmin,
	}
	if err := store.CreateUserRole(role); err != nil {
		return nil, fmt.Errorf("create role assignment: %w", err)
	}

	return &Result{
		Success: true,
		Message: "Superadmin provisioned",
		User:    BootstrappedUser{ID: user.ID, Email: user.Email},
	}, nil
}
