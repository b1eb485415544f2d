package plot

import (
	"time"

	"github.com/voxelplots/server/server/accel"
	"github.com/voxelplots/server/server/backend"
	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/world"
)

// ErrIOOnly is the user-visible rejection reason §4.2.5 specifies for direct
// block edits while an IO-only backend is active.
const ErrIOOnly = "This plot cannot be interacted with while redpiler is active with --io-only. To stop redpiler, run /redpiler reset."

// IsIOOnly reports whether the active backend, if any, rejects direct block
// edits.
func (w *Worker) IsIOOnly() bool {
	return w.hasActiveBackend() && w.ioOnlyBuild
}

// StartBackend begins compiling a backend for the region options select (or
// the plot's full corners if no selection is made), naming it name and
// attributing it to initiator. Compilation runs on its own goroutine; the
// resulting Backend arrives later via BackendInbox.
func (w *Worker) StartBackend(options backend.Options, name string, initiator *player.Player) {
	min, max := w.world.GetCorners()
	if options.Selection && initiator != nil && initiator.FirstPosSet && initiator.SecondPosSet {
		min, max = initiator.FirstPos, initiator.SecondPos
	}

	pending := w.world.ToBeTicked.Drain()
	inbox := w.backendMsgs
	builder := w.builder
	snapshot := w.world.Clone()

	var accelCfg accel.Config
	if w.accelSched != nil {
		accelCfg = w.accelSched.GetConfig()
	}

	inbox <- backend.BuildStarted{Name: name}
	go func() {
		built, err := builder(snapshot, min, max, options, pending, accelCfg)
		if err != nil {
			inbox <- backend.BuildFailed{Name: name, Err: err}
			return
		}
		inbox <- backend.BuildCompleted{Name: name, Backend: built}
	}()

	w.timing.reset(time.Now())
}

// ResetBackend implements the reset protocol of §4.2.5: the active backend
// writes its terminal world state back, then active_backend becomes none.
func (w *Worker) ResetBackend() {
	if !w.hasActiveBackend() {
		return
	}
	min, max := w.world.GetCorners()
	w.backends[w.activeBackend].Reset(w.world, min, max)
	w.activeBackend = -1
	w.ioOnlyBuild = false
	w.timing.reset(time.Now())
}

// BreakResult reports the outcome of a player's attempt to break a block
// directly.
type BreakResult int

const (
	BreakAllowed BreakResult = iota
	BreakRejectedIOOnly
	BreakRejectedOutOfBounds
)

// HandleBreakBlock implements the break-block interaction rule of §4.2.5 and
// the out-of-plot rejection of scenario 4: breaks outside the plot's bounds
// are rejected; breaks while an IO-only backend is active are rejected;
// otherwise an active non-IO-only backend is implicitly reset before the
// break proceeds.
func (w *Worker) HandleBreakBlock(pos world.BlockPos) BreakResult {
	min, max := w.world.GetCorners()
	if pos.X < min.X || pos.X > max.X || pos.Z < min.Z || pos.Z > max.Z {
		return BreakRejectedOutOfBounds
	}
	if w.IsIOOnly() {
		return BreakRejectedIOOnly
	}
	if w.hasActiveBackend() {
		w.ResetBackend()
	}
	broken := w.world.GetBlockRaw(pos)
	w.world.SetBlockRaw(pos, world.Air)
	w.world.BroadcastWorldEvent(world.WorldEventBlockBreak, pos, int32(broken))
	w.updateSurroundings(pos)
	return BreakAllowed
}

// UseBlockResult reports the outcome of a right-click-on-block interaction.
type UseBlockResult int

const (
	UseAllowed UseBlockResult = iota
	UseRejectedIOOnly
)

// HandleUseBlock implements §4.2.5's right-click rules: levers/buttons while
// not crouching delegate to the active backend without resetting it; any
// other use-item-on-block implicitly resets the backend (or is cancelled if
// IO-only).
func (w *Worker) HandleUseBlock(pos world.BlockPos, crouching bool) UseBlockResult {
	state := w.world.GetBlockRaw(pos)
	isInput := world.IsLever(state) || world.IsStoneButton(state)

	if w.hasActiveBackend() && isInput && !crouching {
		w.backends[w.activeBackend].OnUseBlock(pos)
		w.backends[w.activeBackend].Flush(w.world)
		w.world.FlushBlockChanges()
		return UseAllowed
	}

	if w.hasActiveBackend() {
		if w.IsIOOnly() {
			return UseRejectedIOOnly
		}
		w.ResetBackend()
	}
	return UseAllowed
}
