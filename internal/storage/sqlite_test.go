package storage

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// migrations are not re-applied.
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("reviews")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on missing key = %v, want ErrNotFound", err)
	}
}

// TestPutOverwrites verifies that a second Put fully replaces the first value.
func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("rating-7", "3"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("rating-7", "5"); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := s.Get("rating-7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "5" {
		t.Errorf("Get = %q, want %q", got, "5")
	}
}

func TestValueSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s1.Put("reviews", `{"7":["great milk"]}`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("reviews")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got != `{"7":["great milk"]}` {
		t.Errorf("Get = %q, want stored reviews blob", got)
	}
}

func TestDeleteMissingKey(t *testing.T) {
	s := openTestStore(t)

	if err := s.Delete("session"); err != nil {
		t.Errorf("Delete on missing key = %v, want nil", err)
	}
}
