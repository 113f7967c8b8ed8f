package store

import (
	"testing"

	"wordcast/internal/words"
)

func TestCreateAndGet(t *testing.T) {
	m := NewMemoryStore()
	s := m.Create(42, words.LangEN, "CRANE", "2026-03-14", false)
	if s.ID == "" {
		t.Fatal("Create returned empty session ID")
	}
	got, ok := m.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("Get(%q) = %v, %v; want the created session", s.ID, got, ok)
	}
	if _, ok := m.Get("nope"); ok {
		t.Error("Get(unknown) reported found")
	}
}

func TestUniqueIDs(t *testing.T) {
	m := NewMemoryStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := m.Create(int64(i), words.LangEN, "CRANE", "2026-03-14", false)
		if seen[s.ID] {
			t.Fatalf("duplicate session ID %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestFindActiveForUser(t *testing.T) {
	m := NewMemoryStore()
	if _, ok := m.FindActiveForUser(42); ok {
		t.Fatal("found a session for an unknown user")
	}
	s := m.Create(42, words.LangEN, "CRANE", "2026-03-14", false)
	got, ok := m.FindActiveForUser(42)
	if !ok || got.ID != s.ID {
		t.Fatalf("FindActiveForUser = %v, %v; want session %q", got, ok, s.ID)
	}
	if _, ok := m.FindActiveForUser(7); ok {
		t.Error("found a session for the wrong user")
	}
}

func TestCompletedSessionsAreDropped(t *testing.T) {
	m := NewMemoryStore()
	s := m.Create(42, words.LangEN, "CRANE", "2026-03-14", false)
	s.Completed = true
	if _, ok := m.FindActiveForUser(42); ok {
		t.Fatal("completed session returned as active")
	}
	// The lookup garbage-collects it from the primary map too.
	if _, ok := m.Get(s.ID); ok {
		t.Error("completed session survived the lookup GC")
	}
}

func TestCreateSupersedesOldSession(t *testing.T) {
	m := NewMemoryStore()
	old := m.Create(42, words.LangEN, "CRANE", "2026-03-13", false)
	cur := m.Create(42, words.LangEN, "SLATE", "2026-03-14", false)

	got, ok := m.FindActiveForUser(42)
	if !ok || got.ID != cur.ID {
		t.Fatalf("active session = %v, want the newer one", got)
	}
	if _, ok := m.Get(old.ID); ok {
		t.Error("superseded session still retrievable")
	}
}

func TestRemove(t *testing.T) {
	m := NewMemoryStore()
	s := m.Create(42, words.LangEN, "CRANE", "2026-03-14", false)
	m.Remove(s.ID)
	if _, ok := m.Get(s.ID); ok {
		t.Error("removed session still retrievable")
	}
	if _, ok := m.FindActiveForUser(42); ok {
		t.Error("removed session still indexed for its user")
	}
	m.Remove("nope") // no-op
}
