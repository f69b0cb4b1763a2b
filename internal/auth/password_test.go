package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"punchease/internal/model"
	"punchease/internal/storage"
)

type fakeCredentials struct {
	byUsername map[string]*model.TenantCredential
	fail       error
}

func (f *fakeCredentials) TenantCredentialByUsername(username string) (*model.TenantCredential, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	cred, ok := f.byUsername[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cred, nil
}

func credentialFixture(t *testing.T, username, password string) *model.TenantCredential {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.TenantCredential{
		SettingsID:   uuid.New(),
		CompanyID:    uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
	}
}

func TestVerifyTenantPasswordMatch(t *testing.T) {
	cred := credentialFixture(t, "portal", "hunter2")
	src := &fakeCredentials{byUsername: map[string]*model.TenantCredential{"portal": cred}}

	res, err := VerifyTenantPassword(src, "portal", "hunter2")
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, cred.CompanyID, res.CompanyID)
	require.Equal(t, cred.SettingsID, res.TenantID)
}

func TestVerifyTenantPasswordMismatch(t *testing.T) {
	cred := credentialFixture(t, "portal", "hunter2")
	src := &fakeCredentials{byUsername: map[string]*model.TenantCredential{"portal": cred}}

	res, err := VerifyTenantPassword(src, "portal", "wrong")
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.Equal(t, uuid.Nil, res.CompanyID)
	require.Equal(t, uuid.Nil, res.TenantID)
}

func TestVerifyTenantPasswordUnknownUsername(t *testing.T) {
	src := &fakeCredentials{byUsername: map[string]*model.TenantCredential{}}

	res, err := VerifyTenantPassword(src, "ghost", "whatever")
	require.NoError(t, err)

	// Identical result to a hash mismatch: no enumeration signal.
	require.False(t, res.Valid)
	require.Equal(t, uuid.Nil, res.CompanyID)
}

func TestVerifyTenantPasswordLookupFault(t *testing.T) {
	src := &fakeCredentials{fail: errors.New("connection refused")}

	res, err := VerifyTenantPassword(src, "portal", "hunter2")
	require.Error(t, err)
	require.Nil(t, res)
}

func TestVerifyTenantPasswordIdempotent(t *testing.T) {
	cred := credentialFixture(t, "portal", "hunter2")
	src := &fakeCredentials{byUsername: map[string]*model.TenantCredential{"portal": cred}}

	for i := 0; i < 3; i++ {
		res, err := VerifyTenantPassword(src, "portal", "hunter2")
		require.NoError(t, err)
		require.True(t, res.Valid)
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}
