// internal/auth/password.go
package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"punchease/internal/model"
	"punchease/internal/storage"
)

// CredentialSource is the single privileged lookup the verifier needs.
// Only the password verification endpoint should hold one.
type CredentialSource interface {
	TenantCredentialByUsername(username string) (*model.TenantCredential, error)
}

// VerifyResult carries the outcome of a password check. CompanyID and
// TenantID are only set when Valid is true.
type VerifyResult struct {
	Valid     bool
	CompanyID uuid.UUID
	TenantID  uuid.UUID
}

// VerifyTenantPassword compares a submitted plaintext against the stored
// bcrypt hash for the username. A missing credential record and a hash
// mismatch are indistinguishable in the result, so the response shape
// cannot be used to enumerate usernames. A lookup fault is returned as an
// error so callers can answer "try again" instead of "wrong password".
func VerifyTenantPassword(src CredentialSource, username, password string) (*VerifyResult, error) {
	cred, err := src.TenantCredentialByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &VerifyResult{Valid: false}, nil
		}
		return nil, fmt.Errorf("credential lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return &VerifyResult{Valid: false}, nil
	}

	return &VerifyResult{
		Valid:     true,
		CompanyID: cred.CompanyID,
		TenantID:  cred.SettingsID,
	}, nil
}

// HashPassword hashes a plaintext for storage.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
