package plot

import (
	"github.com/google/uuid"

	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/world"
)

// applyPressurePlatePhysics implements §4.2.7, the only physics this
// simulation models: stepping onto an unpowered stone pressure plate powers
// it; leaving a powered plate with no other player still on it unpowers it.
// When a backend is active, the change is delegated to it instead of applied
// directly to the world (§4.2.5).
func (w *Worker) applyPressurePlatePhysics(p *player.Player, newPos world.BlockPos) {
	oldPos := p.LastBlockPos
	hadOld := p.LastBlockPosValid

	if hadOld && oldPos != newPos {
		if powered, ok := world.IsStonePressurePlate(w.world.GetBlockRaw(oldPos)); ok && powered {
			if !w.anyPlayerOn(oldPos, p.UUID) {
				w.setPressurePlate(oldPos, false)
			}
		}
	}

	if powered, ok := world.IsStonePressurePlate(w.world.GetBlockRaw(newPos)); ok && !powered && p.OnGround {
		w.setPressurePlate(newPos, true)
	}

	p.LastBlockPos = newPos
	p.LastBlockPosValid = true
}

// anyPlayerOn reports whether any resident player other than exclude
// currently stands on pos.
func (w *Worker) anyPlayerOn(pos world.BlockPos, exclude uuid.UUID) bool {
	for id, other := range w.players {
		if id == exclude {
			continue
		}
		if other.BlockPos() == pos && other.OnGround {
			return true
		}
	}
	return false
}

// setPressurePlate writes the plate's new powered state, delegating to the
// active backend when one is present, and schedules the surrounding-update
// notification the real block would trigger.
func (w *Worker) setPressurePlate(pos world.BlockPos, powered bool) {
	if w.hasActiveBackend() {
		w.backends[w.activeBackend].SetPressurePlate(pos, powered)
		return
	}
	w.world.SetBlockRaw(pos, world.StonePressurePlate(powered))
	w.updateSurroundings(pos)
}

// updateSurroundings schedules a redstone tick for pos and its six neighbours
// (including straight down), standing in for the "update surrounding blocks"
// step a direct block engine would perform inline.
func (w *Worker) updateSurroundings(pos world.BlockPos) {
	for _, d := range [...][3]int{
		{0, 0, 0}, {1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	} {
		w.world.ScheduleTick(pos.Offset(d[0], d[1], d[2]), 1, world.PriorityNormal)
	}
}
