// internal/session/session.go
package session

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Session is a tenant-portal login. A session is authenticated exactly
// when CompanyID is set; a partially populated session counts as logged
// out.
type Session struct {
	Username  string    `json:"username"`
	CompanyID uuid.UUID `json:"companyId"`
	TenantID  uuid.UUID `json:"tenantId"`
}

// Manager tracks the portal login state for one client. Login and logout
// are user-triggered and serialized, so a single mutex is enough.
type Manager struct {
	mu      sync.RWMutex
	current Session
	store   Store
}

// NewManager restores any remembered session from the store. A missing
// record starts logged out; a malformed record is logged, deleted, and
// also starts logged out. Restore failures never escape the constructor.
func NewManager(store Store) *Manager {
	m := &Manager{store: store}

	data, err := store.Get()
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			log.Printf("[Session] Failed to read stored session: %v", err)
		}
		return m
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("[Session] Discarding malformed session record: %v", err)
		if err := store.Clear(); err != nil {
			log.Printf("[Session] Failed to clear session record: %v", err)
		}
		return m
	}

	m.current = s
	return m
}

// LoginTenant sets all session fields under one lock so no intermediate
// state is observable. With rememberMe the session is serialized to the
// store; without it, any previously remembered record is left untouched.
func (m *Manager) LoginTenant(username string, companyID, tenantID uuid.UUID, rememberMe bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = Session{
		Username:  username,
		CompanyID: companyID,
		TenantID:  tenantID,
	}

	if !rememberMe {
		return nil
	}

	data, err := json.Marshal(m.current)
	if err != nil {
		return err
	}
	return m.store.Set(data)
}

// LogoutTenant clears the session and removes the durable record
// unconditionally, regardless of how the session was created.
func (m *Manager) LogoutTenant() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = Session{}
	return m.store.Clear()
}

// IsAuthenticated is computed, never stored: true iff a company is set.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.CompanyID != uuid.Nil
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
