package session

import (
	"testing"

	"github.com/redmango/storefront/internal/storage"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewManager(store)
}

func TestCurrentWithoutSession(t *testing.T) {
	m := testManager(t)

	s := m.Current()
	if s.Authenticated() {
		t.Errorf("Current() = %+v, want unauthenticated zero session", s)
	}
}

func TestSetAndCurrent(t *testing.T) {
	m := testManager(t)

	if err := m.Set(Session{UserID: "u1", Role: RoleCustomer}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := m.Current()
	if s.UserID != "u1" || s.Role != RoleCustomer {
		t.Errorf("Current() = %+v, want u1/customer", s)
	}
	if !s.Authenticated() {
		t.Error("Authenticated() = false after Set")
	}
}

func TestClear(t *testing.T) {
	m := testManager(t)

	if err := m.Set(Session{UserID: "u1", Role: RoleAdmin}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if m.Current().Authenticated() {
		t.Error("session survived Clear")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{RoleCustomer, RoleAdmin} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q) = %v, want nil", valid, err)
		}
	}
	if _, err := ParseRole("manager"); err == nil {
		t.Error("ParseRole accepted an unknown role")
	}
}
