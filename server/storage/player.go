package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/world"
)

// playerSave is the subset of Player state persisted across sessions: the
// fields identifying who they are and where they last stood. The live
// session fields (Client, CommandQueue) are reconstructed on login instead.
type playerSave struct {
	Username     string
	Gamemode     player.Gamemode
	PositionX    float64
	PositionY    float64
	PositionZ    float64
	Yaw, Pitch   float32
	Inventory    [player.InventorySize]world.BlockState
	SelectedSlot int
	Permissions  int
}

// PlayerStore persists and loads per-player state, keyed by UUID. The
// coordinator uses it to ensure a user row exists the first time a player
// joins (§4.4) and to reconstruct a returning player's saved state.
type PlayerStore interface {
	Load(id uuid.UUID) (*player.Player, bool)
	Save(p *player.Player) error
}

// FilePlayerStore persists per-player state at
// ./world/players/<hex-uuid>.dat (spec §6).
type FilePlayerStore struct {
	Dir string
}

// NewPlayerStore returns a store rooted at dir (typically "./world/players").
func NewPlayerStore(dir string) *FilePlayerStore {
	return &FilePlayerStore{Dir: dir}
}

func (s *FilePlayerStore) path(id uuid.UUID) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%032x.dat", id[:]))
}

// Load reads the saved state for id, if any exists.
func (s *FilePlayerStore) Load(id uuid.UUID) (*player.Player, bool) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, false
	}
	var save playerSave
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&save); err != nil {
		return nil, false
	}
	p := &player.Player{
		UUID:         id,
		Username:     save.Username,
		Gamemode:     save.Gamemode,
		Position:     mgl64.Vec3{save.PositionX, save.PositionY, save.PositionZ},
		Yaw:          save.Yaw,
		Pitch:        save.Pitch,
		Inventory:    save.Inventory,
		SelectedSlot: save.SelectedSlot,
		Permissions:  save.Permissions,
	}
	return p, true
}

// Save writes p's persistent state to disk.
func (s *FilePlayerStore) Save(p *player.Player) error {
	save := playerSave{
		Username:     p.Username,
		Gamemode:     p.Gamemode,
		PositionX:    p.Position.X(),
		PositionY:    p.Position.Y(),
		PositionZ:    p.Position.Z(),
		Yaw:          p.Yaw,
		Pitch:        p.Pitch,
		Inventory:    p.Inventory,
		SelectedSlot: p.SelectedSlot,
		Permissions:  p.Permissions,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(save); err != nil {
		return fmt.Errorf("encode player %s: %w", p.UUID, err)
	}
	if err := os.MkdirAll(s.Dir, 0777); err != nil {
		return fmt.Errorf("create player directory: %w", err)
	}
	if err := os.WriteFile(s.path(p.UUID), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write player %s: %w", p.UUID, err)
	}
	return nil
}

// NopPlayerStore never persists anything; every Load misses and every Save
// is a no-op. Used when no player directory is configured.
type NopPlayerStore struct{}

func (NopPlayerStore) Load(uuid.UUID) (*player.Player, bool) { return nil, false }
func (NopPlayerStore) Save(*player.Player) error             { return nil }
