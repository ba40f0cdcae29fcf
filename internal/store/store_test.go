package store

import (
	"bytes"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/chronos.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migration is a no-op
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v" {
		t.Fatalf("expected %q after reopen, got %q", "v", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	v, err := s.Get("nope")
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("missing key should return nil, got %q", v)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	blob := []byte(`{"events":[],"accounts":[]}`)
	if err := s.Set("data", blob); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("data")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("got %q, want %q", got, blob)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("data", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("data", []byte("two")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("data")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Fatalf("got %q, want %q", got, "two")
	}
}
