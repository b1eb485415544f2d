package plot

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/voxelplots/server/server/fabric"
	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/world"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	pos := world.PlotPos{X: 0, Z: 0}
	w := world.NewWorld(pos, world.GenerateFlat(pos), nil)
	return New(pos, w, Config{}, nil, fabric.NewPrivateInbox(1), fabric.NewServerInbox(1))
}

func TestApplyPressurePlatePhysicsPowersOnStep(t *testing.T) {
	worker := newTestWorker(t)
	plate := world.BlockPos{X: 5, Y: 1, Z: 5}
	worker.world.SetBlockRaw(plate, world.StonePressurePlate(false))

	p := &player.Player{UUID: uuid.New(), OnGround: true}
	worker.applyPressurePlatePhysics(p, plate)

	powered, ok := world.IsStonePressurePlate(worker.world.GetBlockRaw(plate))
	if !ok || !powered {
		t.Fatalf("expected the plate to be powered after a player steps on it")
	}
	if !p.LastBlockPosValid || p.LastBlockPos != plate {
		t.Fatalf("expected LastBlockPos to be updated to %v, got %v (valid=%v)", plate, p.LastBlockPos, p.LastBlockPosValid)
	}
}

func TestApplyPressurePlatePhysicsUnpowersWhenLastPlayerLeaves(t *testing.T) {
	worker := newTestWorker(t)
	plate := world.BlockPos{X: 5, Y: 1, Z: 5}
	away := world.BlockPos{X: 10, Y: 1, Z: 10}
	worker.world.SetBlockRaw(plate, world.StonePressurePlate(true))

	p := &player.Player{UUID: uuid.New(), OnGround: true, LastBlockPos: plate, LastBlockPosValid: true}
	worker.applyPressurePlatePhysics(p, away)

	powered, ok := world.IsStonePressurePlate(worker.world.GetBlockRaw(plate))
	if !ok || powered {
		t.Fatalf("expected the plate to unpower once its only occupant leaves")
	}
}

func TestApplyPressurePlatePhysicsStaysOnWhileAnotherPlayerRemains(t *testing.T) {
	worker := newTestWorker(t)
	plate := world.BlockPos{X: 5, Y: 1, Z: 5}
	away := world.BlockPos{X: 10, Y: 1, Z: 10}
	worker.world.SetBlockRaw(plate, world.StonePressurePlate(true))

	// anyPlayerOn reads other.BlockPos(), which derives from Position, so
	// give the staying player a position that truncates to plate.
	stayingPlayer := &player.Player{
		UUID:     uuid.New(),
		OnGround: true,
		Position: mgl64.Vec3{float64(plate.X), float64(plate.Y), float64(plate.Z)},
	}
	worker.players[stayingPlayer.UUID] = stayingPlayer

	leaving := &player.Player{UUID: uuid.New(), OnGround: true, LastBlockPos: plate, LastBlockPosValid: true}
	worker.applyPressurePlatePhysics(leaving, away)

	powered, ok := world.IsStonePressurePlate(worker.world.GetBlockRaw(plate))
	if !ok || !powered {
		t.Fatalf("expected the plate to stay powered while another player remains on it")
	}
}
