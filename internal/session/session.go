// Package session exposes the authenticated-session value persisted by
// the authentication flow. Every storefront component reads it; only
// the auth flow itself writes it.
package session

import (
	"encoding/json"
	"fmt"
)

// Key is the durable-storage key the session is persisted under.
const Key = "session"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Session identifies the logged-in user. A zero UserID means
// unauthenticated.
type Session struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Authenticated reports whether a user is logged in.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// ParseRole validates a role value against the closed role set.
func ParseRole(s string) (string, error) {
	switch s {
	case RoleCustomer, RoleAdmin:
		return s, nil
	}
	return "", fmt.Errorf("unknown role %q (valid: %s, %s)", s, RoleCustomer, RoleAdmin)
}

// KV is the slice of the durable key/value store the manager needs.
type KV interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}

// Manager loads and stores the persisted session.
type Manager struct {
	kv KV
}

func NewManager(kv KV) *Manager {
	return &Manager{kv: kv}
}

// Current returns the persisted session. A missing or unreadable value
// yields the unauthenticated zero session, never an error.
func (m *Manager) Current() Session {
	raw, err := m.kv.Get(Key)
	if err != nil {
		return Session{}
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}
	}
	return s
}

// Set persists a session. Used by the auth flow only.
func (m *Manager) Set(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	return m.kv.Put(Key, string(data))
}

// Clear removes the persisted session.
func (m *Manager) Clear() error {
	return m.kv.Delete(Key)
}
