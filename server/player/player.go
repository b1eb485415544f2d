// Package player defines the per-connection Player state a plot worker owns
// while a client is resident in its plot (spec §3 "Player").
package player

import (
	"crypto/md5"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/voxelplots/server/server/world"
)

// Gamemode mirrors the vanilla gamemode enum relevant to plot interactions.
type Gamemode uint8

const (
	Survival Gamemode = iota
	Creative
	Adventure
	Spectator
)

// InventorySize is the number of slots a Player's inventory carries (§3).
const InventorySize = 46

// Player is the state a plot worker owns exclusively for a resident client
// (spec §3). It crosses worker boundaries only inside a fabric message that
// carries it (PlayerJoined, PlayerEnterPlot, PlayerTeleportOther,
// PlayerLeavePlot), at which point ownership transfers to the recipient.
type Player struct {
	UUID     uuid.UUID
	EntityID int32
	Username string
	Gamemode Gamemode

	Position       mgl64.Vec3
	Yaw, Pitch     float32
	OnGround       bool
	LastChunkX     int32
	LastChunkZ     int32
	LastChunkValid bool

	// LastBlockPos/LastBlockPosValid track the player's previous position for
	// pressure-plate physics (§4.2.7), distinct from the chunk-granularity
	// LastChunkX/Z used for the view-distance delta.
	LastBlockPos      world.BlockPos
	LastBlockPosValid bool

	Inventory    [InventorySize]world.BlockState
	SelectedSlot int

	// FirstPos/SecondPos are the WorldEdit-style selection corners used by
	// backend compilation when Options.Selection is set.
	FirstPos, SecondPos   world.BlockPos
	FirstPosSet, SecondPosSet bool

	Permissions  int
	CommandQueue []string

	Client world.PacketSink
}

// PlotPos returns the plot the player's current position lies in.
func (p *Player) PlotPos() world.PlotPos {
	return world.BlockPos{X: int(p.Position.X()), Y: int(p.Position.Y()), Z: int(p.Position.Z())}.PlotPos()
}

// BlockPos truncates the player's position to a block position.
func (p *Player) BlockPos() world.BlockPos {
	return world.BlockPos{X: int(p.Position.X()), Y: int(p.Position.Y()), Z: int(p.Position.Z())}
}

// OfflineUUID derives the UUID assigned to a username when no authentication
// (and no proxy forwarding) is in effect, matching vanilla's offline-mode
// derivation: an MD5 digest of "OfflinePlayer:<name>" coerced into a version-3
// UUID. Unlike uuid.NewMD5, no namespace is prefixed to the digest input, to
// match Java's UUID.nameUUIDFromBytes used by vanilla servers.
func OfflineUUID(username string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	id, _ := uuid.FromBytes(sum[:])
	return id
}
