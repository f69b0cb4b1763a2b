package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"punchease/internal/model"
)

type fakeStore struct {
	users    []*model.User
	profiles []*model.Profile
	roles    []*model.UserRole

	failProfile bool
	failRole    bool
}

func (f *fakeStore) CreateUser(u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return errors.New(`duplicate key value violates unique constraint "users_email_key"`)
		}
	}
	f.users = append(f.users, u)
	return nil
}

func (f *fakeStore) CreateProfile(p *model.Profile) error {
	if f.failProfile {
		return errors.New("profile insert failed")
	}
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakeStore) CreateUserRole(r *model.UserRole) error {
	if f.failRole {
		return errors.New("role insert failed")
	}
	f.roles = append(f.roles, r)
	return nil
}

var identity = Identity{
	Email:     "admin@example.com",
	Password:  "changeme",
	FirstName: "Site",
	LastName:  "Admin",
}

func TestProvision(t *testing.T) {
	store := &fakeStore{}

	res, err := Provision(store, identity, bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "admin@example.com", res.User.Email)

	require.Len(t, store.users, 1)
	require.Len(t, store.profiles, 1)
	require.Len(t, store.roles, 1)
	require.Equal(t, model.RoleSuperadmin, store.roles[0].Role)
	require.Equal(t, store.users[0].ID, store.profiles[0].UserID)

	// Password is stored hashed, never plaintext.
	require.NotEqual(t, "changeme", store.users[0].PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users[0].PasswordHash), []byte("changeme")))
}

func TestProvisionTwiceFailsAtAccountStep(t *testing.T) {
	store := &fakeStore{}

	_, err := Provision(store, identity, bcrypt.MinCost)
	require.NoError(t, err)

	_, err = Provision(store, identity, bcrypt.MinCost)
	require.Error(t, err)
	require.Contains(t, err.Error(), "create auth account")

	// The duplicate run must not touch the profile or role tables.
	require.Len(t, store.profiles, 1)
	require.Len(t, store.roles, 1)
}

func TestProvisionProfileFailureLeavesOrphanAccount(t *testing.T) {
	store := &fakeStore{failProfile: true}

	_, err := Provision(store, identity, bcrypt.MinCost)
	require.Error(t, err)
	require.Contains(t, err.Error(), "create profile")

	// No rollback: the account row stays for manual reconciliation.
	require.Len(t, store.users, 1)
	require.Empty(t, store.profiles)
	require.Empty(t, store.roles)
}

func TestProvisionRoleFailureReportsStep(t *testing.T) {
	store := &fakeStore{failRole: true}

	_, err := Provision(store, identity, bcrypt.MinCost)
	require.Error(t, err)
	require.Contains(t, err.Error(), "create role assignment")
	require.Len(t, store.users, 1)
	require.Len(t, store.profiles, 1)
}

func TestProvisionRequiresIdentity(t *testing.T) {
	store := &fakeStore{}

	_, err := Provision(store, Identity{Email: "admin@example.com"}, bcrypt.MinCost)
	require.Error(t, err)
	require.Empty(t, store.users)
}
