package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrWhitelistUnavailable is returned when the whitelist is not configured.
	ErrWhitelistUnavailable = errors.New("whitelist is not configured")
	// ErrWhitelistInvalidName is returned when an invalid player name is provided to a whitelist operation.
	ErrWhitelistInvalidName = errors.New("invalid player name")
)

// WhitelistEntry is one record of the whitelist file: a JSON array of
// {uuid, name} objects (spec §6), matching the filesystem layout this server
// is bit-compatible with.
type WhitelistEntry struct {
	UUID uuid.UUID `json:"uuid"`
	Name string    `json:"name"`
}

// Whitelist controls which players are allowed to join the server. Entries
// are persisted as whitelist.json, unlike the rest of this server's config
// surface, which is TOML: the file format is fixed by the on-disk layout this
// server stays compatible with.
type Whitelist struct {
	mu       sync.RWMutex
	players  map[uuid.UUID]string
	filePath string
	enabled  bool
}

// LoadWhitelist loads the whitelist stored in the file at path. If the file
// does not exist yet, it is created with an empty player list.
func LoadWhitelist(path string) (*Whitelist, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("whitelist path must not be empty")
	}
	w := &Whitelist{
		players:  make(map[uuid.UUID]string),
		filePath: path,
	}
	if err := w.reloadFromDisk(); err != nil {
		return nil, err
	}
	return w, nil
}

// Enabled reports if the whitelist is currently enforced.
func (w *Whitelist) Enabled() bool {
	if w == nil {
		return false
	}
	return w.enabled
}

// SetEnabled updates whether the whitelist is enforced.
func (w *Whitelist) SetEnabled(enabled bool) {
	if w == nil {
		return
	}
	w.enabled = enabled
}

// Allow reports whether id may join, given the whitelist's current state.
func (w *Whitelist) Allow(id uuid.UUID) (reason string, ok bool) {
	if w == nil || !w.enabled {
		return "", true
	}
	w.mu.RLock()
	_, present := w.players[id]
	w.mu.RUnlock()
	if !present {
		return "You are not whitelisted on this server.", false
	}
	return "", true
}

// Add inserts id/name into the whitelist. The returned bool indicates if the
// entry was newly added.
func (w *Whitelist) Add(id uuid.UUID, name string) (bool, error) {
	if w == nil {
		return false, ErrWhitelistUnavailable
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false, ErrWhitelistInvalidName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.players[id]; exists {
		return false, nil
	}
	w.players[id] = trimmed
	if err := w.writeLocked(); err != nil {
		delete(w.players, id)
		return false, err
	}
	return true, nil
}

// Remove deletes id from the whitelist. The returned bool indicates if the
// entry was present before the call.
func (w *Whitelist) Remove(id uuid.UUID) (bool, error) {
	if w == nil {
		return false, ErrWhitelistUnavailable
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	name, exists := w.players[id]
	if !exists {
		return false, nil
	}
	delete(w.players, id)
	if err := w.writeLocked(); err != nil {
		w.players[id] = name
		return false, err
	}
	return true, nil
}

// Entries returns the whitelist's contents sorted case-insensitively by name.
func (w *Whitelist) Entries() []WhitelistEntry {
	if w == nil {
		return nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entriesLocked()
}

func (w *Whitelist) entriesLocked() []WhitelistEntry {
	entries := make([]WhitelistEntry, 0, len(w.players))
	for id, name := range w.players {
		entries = append(entries, WhitelistEntry{UUID: id, Name: name})
	}
	slices.SortFunc(entries, func(a, b WhitelistEntry) int {
		lowerA, lowerB := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if lowerA == lowerB {
			return strings.Compare(a.Name, b.Name)
		}
		return strings.Compare(lowerA, lowerB)
	})
	return entries
}

func (w *Whitelist) reloadFromDisk() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloadLocked()
}

func (w *Whitelist) reloadLocked() error {
	contents, err := os.ReadFile(w.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.players = make(map[uuid.UUID]string)
			return w.writeLocked()
		}
		return fmt.Errorf("read whitelist: %w", err)
	}

	var entries []WhitelistEntry
	if len(contents) != 0 {
		if err := json.Unmarshal(contents, &entries); err != nil {
			return fmt.Errorf("decode whitelist: %w", err)
		}
	}
	w.players = make(map[uuid.UUID]string, len(entries))
	for _, e := range entries {
		w.players[e.UUID] = e.Name
	}
	return nil
}

// writeLocked persists the whitelist, implementing the save step of the
// graceful-shutdown scenario (spec §8 scenario 5).
func (w *Whitelist) writeLocked() error {
	dir := filepath.Dir(w.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create whitelist directory: %w", err)
		}
	}
	encoded, err := json.MarshalIndent(w.entriesLocked(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode whitelist: %w", err)
	}
	if err := os.WriteFile(w.filePath, encoded, 0644); err != nil {
		return fmt.Errorf("write whitelist: %w", err)
	}
	return nil
}

// Save flushes the whitelist to disk, used during graceful shutdown.
func (w *Whitelist) Save() error {
	if w == nil {
		return nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.writeLocked()
}
