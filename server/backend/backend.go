// Package backend declares the narrow interface boundary to the compiled
// circuit accelerator (C4). Its internal compilation algorithm is external to
// this system (spec §1 non-goal); this package names only the contract a plot
// worker (C5) drives a built Backend through, plus the completion-signalling
// messages a builder posts back to the plot's inbox.
package backend

import (
	"github.com/voxelplots/server/server/accel"
	"github.com/voxelplots/server/server/world"
)

// Options configures a backend compilation, mirroring the "/redpiler" command
// surface the plot worker exposes.
type Options struct {
	// Selection restricts compilation to a sub-region when true and both
	// WorldEdit corners are set; otherwise the whole plot is compiled.
	Selection  bool
	Corner1    world.BlockPos
	Corner2    world.BlockPos
	IOOnly     bool
	OptimizeAll bool
}

// Backend is a compiled, running representation of a region's redstone
// circuit. It owns time while active: the plot worker stops advancing
// world.ToBeTicked and instead drives the backend directly.
type Backend interface {
	// Tick advances the backend simulation by one tick.
	Tick()
	// TickN advances the backend simulation by n ticks, or fewer if the
	// backend chooses to stop early (e.g. a time budget).
	TickN(n uint32) (done uint32)
	// IsIOOnly reports whether direct block edits are rejected while this
	// backend is active.
	IsIOOnly() bool
	// SetPressurePlate forwards a pressure-plate state change to the backend.
	SetPressurePlate(pos world.BlockPos, powered bool)
	// OnUseBlock forwards a lever/button interaction to the backend.
	OnUseBlock(pos world.BlockPos)
	// Flush pushes any block changes the backend has accumulated into w's
	// dirty lists, so a subsequent world.FlushBlockChanges reaches clients.
	Flush(w *world.World)
	// Reset writes the backend's terminal world state back into w across
	// corners, then releases any backend-owned resources.
	Reset(w *world.World, min, max world.BlockPos)
}

// Builder compiles a region of w into a Backend. Builders run on their own
// goroutine; the plot worker never calls Builder directly on its hot path.
// accelCfg is the accelerator slot snapshot (C9) the worker borrowed at
// backend-start time (§4.2.5), letting the builder target the assigned
// hardware slot instead of falling back to software compilation.
type Builder func(w *world.World, min, max world.BlockPos, opts Options, pending []world.PendingTick, accelCfg accel.Config) (Backend, error)

// Msg is posted to a plot's backend-status inbox by an in-flight build or by
// the active backend itself, merged into the plot worker's scoreboard model
// (§4.2.1 step 3).
type Msg interface{ isBackendMsg() }

// BuildStarted reports that a builder goroutine has been spawned.
type BuildStarted struct{ Name string }

// BuildCompleted carries the finished Backend for the plot worker to install
// as the active backend. Index is assigned by the plot worker when it appends
// to its backends slice.
type BuildCompleted struct {
	Name    string
	Backend Backend
}

// BuildFailed reports a compilation failure; the plot worker logs it and
// continues interpreting.
type BuildFailed struct {
	Name string
	Err  error
}

func (BuildStarted) isBackendMsg()   {}
func (BuildCompleted) isBackendMsg() {}
func (BuildFailed) isBackendMsg()    {}

// NullBackend is the default Backend: ticks do nothing, flush does nothing,
// reset is immediate. Useful for tests and for /redpiler invocations before a
// real compiler is wired.
type NullBackend struct{}

func (NullBackend) Tick()                                      {}
func (NullBackend) TickN(n uint32) uint32                      { return n }
func (NullBackend) IsIOOnly() bool                              { return false }
func (NullBackend) SetPressurePlate(world.BlockPos, bool)       {}
func (NullBackend) OnUseBlock(world.BlockPos)                   {}
func (NullBackend) Flush(*world.World)                          {}
func (NullBackend) Reset(*world.World, world.BlockPos, world.BlockPos) {}

// NullBuilder is a Builder that immediately returns a NullBackend, used when
// no real compiler is configured.
func NullBuilder(_ *world.World, _, _ world.BlockPos, _ Options, _ []world.PendingTick, _ accel.Config) (Backend, error) {
	return NullBackend{}, nil
}
