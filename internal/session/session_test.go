package session

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLoginSetsAllFields(t *testing.T) {
	m := NewManager(&MemStore{})
	companyID := uuid.New()
	tenantID := uuid.New()

	require.False(t, m.IsAuthenticated())

	require.NoError(t, m.LoginTenant("portal", companyID, tenantID, false))
	require.True(t, m.IsAuthenticated())

	s := m.Current()
	require.Equal(t, "portal", s.Username)
	require.Equal(t, companyID, s.CompanyID)
	require.Equal(t, tenantID, s.TenantID)
}

func TestIsAuthenticatedTracksCompanyID(t *testing.T) {
	m := NewManager(&MemStore{})

	// A partially populated session counts as logged out.
	m.current = Session{Username: "portal"}
	require.False(t, m.IsAuthenticated())

	m.current.CompanyID = uuid.New()
	require.True(t, m.IsAuthenticated())
}

func TestLogoutClearsEverything(t *testing.T) {
	store := &MemStore{}
	m := NewManager(store)

	require.NoError(t, m.LoginTenant("portal", uuid.New(), uuid.New(), true))
	_, err := store.Get()
	require.NoError(t, err)

	require.NoError(t, m.LogoutTenant())
	require.False(t, m.IsAuthenticated())
	require.Equal(t, Session{}, m.Current())

	_, err = store.Get()
	require.ErrorIs(t, err, ErrNoRecord)
}

func TestLogoutClearsRecordEvenWithoutRemember(t *testing.T) {
	store := &MemStore{}
	require.NoError(t, store.Set([]byte(`{"username":"old"}`)))

	m := NewManager(store)
	require.NoError(t, m.LoginTenant("portal", uuid.New(), uuid.New(), false))
	require.NoError(t, m.LogoutTenant())

	_, err := store.Get()
	require.ErrorIs(t, err, ErrNoRecord)
}

func TestRememberMeFalseLeavesOldRecord(t *testing.T) {
	store := &MemStore{}
	m := NewManager(store)

	firstCompany := uuid.New()
	require.NoError(t, m.LoginTenant("first", firstCompany, uuid.New(), true))
	require.NoError(t, m.LoginTenant("second", uuid.New(), uuid.New(), false))

	// The first remembered record survives a later rememberMe=false login.
	data, err := store.Get()
	require.NoError(t, err)

	var s Session
	require.NoError(t, json.Unmarshal(data, &s))
	require.Equal(t, "first", s.Username)
	require.Equal(t, firstCompany, s.CompanyID)
}

func TestRestoreFromStore(t *testing.T) {
	store := &MemStore{}
	companyID := uuid.New()
	tenantID := uuid.New()

	data, err := json.Marshal(Session{Username: "portal", CompanyID: companyID, TenantID: tenantID})
	require.NoError(t, err)
	require.NoError(t, store.Set(data))

	m := NewManager(store)
	require.True(t, m.IsAuthenticated())
	require.Equal(t, companyID, m.Current().CompanyID)
}

func TestRestoreMissingRecord(t *testing.T) {
	m := NewManager(&MemStore{})
	require.False(t, m.IsAuthenticated())
	require.Equal(t, Session{}, m.Current())
}

func TestRestoreMalformedRecordIsDeleted(t *testing.T) {
	store := &MemStore{}
	require.NoError(t, store.Set([]byte(`{not json`)))

	m := NewManager(store)
	require.False(t, m.IsAuthenticated())

	_, err := store.Get()
	require.ErrorIs(t, err, ErrNoRecord)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	_, err := store.Get()
	require.ErrorIs(t, err, ErrNoRecord)

	require.NoError(t, store.Set([]byte(`{"username":"portal"}`)))
	data, err := store.Get()
	require.NoError(t, err)
	require.JSONEq(t, `{"username":"portal"}`, string(data))

	require.NoError(t, store.Clear())
	_, err = store.Get()
	require.ErrorIs(t, err, ErrNoRecord)

	// Clearing an already-missing record is not an error.
	require.NoError(t, store.Clear())
}
