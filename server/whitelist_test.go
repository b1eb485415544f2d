package server

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestWhitelistAddRemovePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	wl, err := LoadWhitelist(path)
	if err != nil {
		t.Fatalf("LoadWhitelist: %v", err)
	}

	id := uuid.New()
	added, err := wl.Add(id, "Alice")
	if err != nil || !added {
		t.Fatalf("Add = (%v, %v), want (true, nil)", added, err)
	}
	if added, _ := wl.Add(id, "Alice"); added {
		t.Fatalf("expected re-adding the same id to report not-newly-added")
	}

	reloaded, err := LoadWhitelist(path)
	if err != nil {
		t.Fatalf("LoadWhitelist (reload): %v", err)
	}
	entries := reloaded.Entries()
	if len(entries) != 1 || entries[0].Name != "Alice" {
		t.Fatalf("Entries() = %v, want one entry named Alice", entries)
	}

	removed, err := wl.Remove(id)
	if err != nil || !removed {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", removed, err)
	}
	if len(wl.Entries()) != 0 {
		t.Fatalf("expected whitelist empty after Remove")
	}
}

func TestWhitelistAllowRespectsEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	wl, err := LoadWhitelist(path)
	if err != nil {
		t.Fatalf("LoadWhitelist: %v", err)
	}

	id := uuid.New()
	if _, ok := wl.Allow(id); !ok {
		t.Fatalf("expected Allow to pass everyone while disabled")
	}

	wl.SetEnabled(true)
	if _, ok := wl.Allow(id); ok {
		t.Fatalf("expected Allow to reject a non-whitelisted player once enabled")
	}
	if _, err := wl.Add(id, "Bob"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := wl.Allow(id); !ok {
		t.Fatalf("expected Allow to accept a whitelisted player once added")
	}
}

func TestWhitelistAddRejectsBlankName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	wl, err := LoadWhitelist(path)
	if err != nil {
		t.Fatalf("LoadWhitelist: %v", err)
	}
	if _, err := wl.Add(uuid.New(), "   "); err != ErrWhitelistInvalidName {
		t.Fatalf("Add with blank name = %v, want ErrWhitelistInvalidName", err)
	}
}

func TestWhitelistEntriesAreSortedCaseInsensitively(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	wl, err := LoadWhitelist(path)
	if err != nil {
		t.Fatalf("LoadWhitelist: %v", err)
	}
	if _, err := wl.Add(uuid.New(), "charlie"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := wl.Add(uuid.New(), "Bob"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := wl.Add(uuid.New(), "alice"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries := wl.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"alice", "Bob", "charlie"}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Fatalf("Entries()[%d].Name = %q, want %q", i, e.Name, want[i])
		}
	}
}
