// Package plot implements the Plot Worker (C5): the hard part. One Worker
// owns one plot's World and TickQueue exclusively, drives the batch-paced
// interpreter/backend tick loop, and serves player interactions and
// view-distance updates.
package plot

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voxelplots/server/server/accel"
	"github.com/voxelplots/server/server/backend"
	"github.com/voxelplots/server/server/fabric"
	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/protocol"
	"github.com/voxelplots/server/server/redstone"
	"github.com/voxelplots/server/server/world"
)

// idleTimeout is how long a plot with always_running=false and no players may
// sit before its worker exits (§4.2.3).
const idleTimeout = 600 * time.Second

// Config bundles the per-worker settings borrowed from the server's
// configuration snapshot at spawn time.
type Config struct {
	ViewDistance  int
	WorldSendRate uint32
	Tps           Tps
	AlwaysRunning bool
	Codec         protocol.Codec
	Ticker        redstone.Ticker
	Builder       backend.Builder
	Accel         *accel.Scheduler
	Log           *slog.Logger
	// Owner is the plot's claimed owner, looked up from the ownership
	// registry at spawn time (spec §3 "owner: Option<u128>"), or nil if the
	// plot is unclaimed.
	Owner *uuid.UUID
}

// Worker owns one plot's simulation and player set exclusively for the
// duration it runs. See spec §3 "Plot worker state".
type Worker struct {
	Pos world.PlotPos

	world *world.World

	players map[uuid.UUID]*player.Player

	// viewerSinks remembers the PacketSink each player attached with, since by
	// the time removeDisconnected runs the session layer has already nilled
	// Player.Client to signal liveness (§4.2.2), leaving nothing to pass to
	// World.DetachViewer without this.
	viewerSinks map[uuid.UUID]world.PacketSink

	backends      []backend.Backend
	activeBackend int // -1 means none
	ioOnlyBuild   bool

	tps           Tps
	worldSendRate uint32
	timing        timing

	running       bool
	alwaysRunning bool
	lastPlayerTime time.Time

	owner *uuid.UUID

	ticker  redstone.Ticker
	builder backend.Builder
	accelSched *accel.Scheduler

	codec protocol.Codec

	bus         <-chan fabric.BroadcastMessage
	private     *fabric.PrivateInbox
	serverInbox *fabric.ServerInbox
	backendMsgs chan backend.Msg

	viewDistance int

	log *slog.Logger
}

// New constructs a Worker for plotPos, generating a flat floor if w is nil.
func New(plotPos world.PlotPos, w *world.World, cfg Config, bus <-chan fabric.BroadcastMessage, private *fabric.PrivateInbox, serverInbox *fabric.ServerInbox) *Worker {
	if w == nil {
		w = world.NewWorld(plotPos, world.GenerateFlat(plotPos), cfg.Codec)
	}
	ticker := cfg.Ticker
	if ticker == nil {
		ticker = redstone.NopTicker{}
	}
	builder := cfg.Builder
	if builder == nil {
		builder = backend.NullBuilder
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		Pos:            plotPos,
		world:          w,
		players:        make(map[uuid.UUID]*player.Player),
		viewerSinks:    make(map[uuid.UUID]world.PacketSink),
		activeBackend:  -1,
		tps:            cfg.Tps,
		worldSendRate:  cfg.WorldSendRate,
		running:        true,
		alwaysRunning:  cfg.AlwaysRunning,
		lastPlayerTime: time.Now(),
		ticker:         ticker,
		builder:        builder,
		accelSched:     cfg.Accel,
		owner:          cfg.Owner,
		codec:          cfg.Codec,
		bus:            bus,
		private:        private,
		serverInbox:    serverInbox,
		backendMsgs:    make(chan backend.Msg, 16),
		viewDistance:   cfg.ViewDistance,
		log:            log,
	}
}

// World exposes the worker's world store, for tests and for command handlers
// that need direct access (e.g. /redpiler).
func (w *Worker) World() *world.World { return w.world }

// Owner returns the plot's claimed owner, or nil if unclaimed.
func (w *Worker) Owner() *uuid.UUID { return w.owner }

// Running reports whether the worker's loop is still active.
func (w *Worker) Running() bool { return w.running }

// Run drives the operational loop (§4.2.1) until running becomes false. It is
// meant to be called on the plot's dedicated OS thread/goroutine.
func (w *Worker) Run() {
	for w.running {
		w.tick()
	}
	w.shutdown()
}

// tick executes exactly one operational-loop iteration.
func (w *Worker) tick() {
	w.drainBroadcast()
	w.drainPrivate()
	w.drainBackendStatus()

	if len(w.players) > 0 {
		w.runBatch()
	}

	w.updatePlayers()
	w.handleCommands()
	w.removeDisconnected()
	w.removeOutOfBounds()

	w.checkIdle()
	w.sleep()
}

// drainBroadcast processes every broadcast message currently queued,
// non-blocking.
func (w *Worker) drainBroadcast() {
	for {
		select {
		case msg, ok := <-w.bus:
			if !ok {
				return
			}
			w.handleBroadcast(msg)
		default:
			return
		}
	}
}

func (w *Worker) handleBroadcast(msg fabric.BroadcastMessage) {
	switch m := msg.(type) {
	case fabric.Shutdown:
		w.running = false
	case fabric.PlayerLeftBroadcast:
		delete(w.players, m.UUID)
		delete(w.viewerSinks, m.UUID)
	case fabric.PlayerUpdateGamemodeBroadcast:
		if p, ok := w.players[m.UUID]; ok {
			p.Gamemode = m.Gamemode
		}
	case fabric.Chat, fabric.PlayerJoinedInfo:
		// Forwarded to player clients by the session layer; the worker itself
		// does not need to act on these beyond having drained them.
	}
}

// drainPrivate processes every privately-addressed message, non-blocking.
func (w *Worker) drainPrivate() {
	for {
		select {
		case msg, ok := <-w.private.Recv():
			if !ok {
				return
			}
			w.handlePrivate(msg)
		default:
			return
		}
	}
}

func (w *Worker) handlePrivate(msg fabric.PrivMessage) {
	switch m := msg.(type) {
	case fabric.PlayerEnterPlot:
		w.enterPlayer(m.Player)
	case fabric.PlayerTeleportOther:
		w.enterPlayer(m.Player)
	}
}

func (w *Worker) enterPlayer(p *player.Player) {
	w.players[p.UUID] = p
	w.viewerSinks[p.UUID] = p.Client
	w.lastPlayerTime = time.Now()
	w.world.AttachViewer(p.Client)
	w.sendInitialChunks(p)
}

// drainBackendStatus merges any in-flight build completion/failure into the
// worker's backend list, non-blocking.
func (w *Worker) drainBackendStatus() {
	for {
		select {
		case msg := <-w.backendMsgs:
			w.handleBackendMsg(msg)
		default:
			return
		}
	}
}

func (w *Worker) handleBackendMsg(msg backend.Msg) {
	switch m := msg.(type) {
	case backend.BuildStarted:
		w.log.Info("backend build started", "plot_x", w.Pos.X, "plot_z", w.Pos.Z, "name", m.Name)
	case backend.BuildCompleted:
		w.backends = append(w.backends, m.Backend)
		w.activeBackend = len(w.backends) - 1
		w.ioOnlyBuild = m.Backend.IsIOOnly()
		w.timing.reset(time.Now())
	case backend.BuildFailed:
		w.log.Warn("backend build failed", "plot_x", w.Pos.X, "plot_z", w.Pos.Z, "name", m.Name, "err", m.Err)
	}
}

// runBatch computes the batch size and executes it, via the interpreter or
// the active backend, then flushes world changes to clients after every
// non-empty batch. The world-send rate only bounds the batch size (see
// batchSize).
func (w *Worker) runBatch() {
	now := time.Now()
	size := batchSize(&w.timing, now, w.tps, w.worldSendRate)
	if size == 0 {
		return
	}

	start := time.Now()
	var done uint32
	if w.hasActiveBackend() {
		done = w.backends[w.activeBackend].TickN(size)
	} else {
		for ; done < size; done++ {
			w.interpreterTick()
			if time.Since(start) > interpBudget {
				done++
				break
			}
		}
	}
	elapsed := time.Since(start)
	if done > 0 {
		w.timing.lastNspt = elapsed / time.Duration(done)
	}

	if w.hasActiveBackend() {
		w.backends[w.activeBackend].Flush(w.world)
	}
	w.world.FlushBlockChanges()
}

// interpreterTick runs one pass of the interpreter tick algorithm (§4.2.4).
func (w *Worker) interpreterTick() {
	w.world.ToBeTicked.PopDue(func(pt world.PendingTick) {
		w.ticker.Tick(w.world, pt)
	})
}

func (w *Worker) hasActiveBackend() bool {
	return w.activeBackend >= 0 && w.activeBackend < len(w.backends)
}

// checkIdle implements §4.2.3.
func (w *Worker) checkIdle() {
	if len(w.players) > 0 {
		w.lastPlayerTime = time.Now()
		return
	}
	if w.alwaysRunning {
		return
	}
	if time.Since(w.lastPlayerTime) > idleTimeout {
		w.running = false
	}
}

// sleep pauses between loop iterations for a fixed duration: 1ms while
// players are present and the plot is not paused, 50ms otherwise to avoid
// busy-spinning.
func (w *Worker) sleep() {
	if len(w.players) == 0 || w.tps.Mode == TpsPaused {
		time.Sleep(50 * time.Millisecond)
		return
	}
	time.Sleep(time.Millisecond)
}

// handleCommands drains and executes each player's queued commands. Command
// parsing/execution itself is out of this system's scope; this only empties
// the queue so it cannot grow unbounded.
func (w *Worker) handleCommands() {
	for _, p := range w.players {
		p.CommandQueue = p.CommandQueue[:0]
	}
}

// removeDisconnected evicts players whose client sink has gone away. Sink
// liveness is reported by the session layer setting Client to nil.
func (w *Worker) removeDisconnected() {
	for id, p := range w.players {
		if p.Client == nil {
			delete(w.players, id)
			w.world.DetachViewer(w.viewerSinks[id])
			delete(w.viewerSinks, id)
			w.world.BroadcastRemoveEntities([]int32{p.EntityID})
			w.serverInbox.Send(fabric.PlayerLeft{UUID: id})
		}
	}
}

// removeOutOfBounds routes players whose position has left this plot's
// bounds back to C7 via PlayerLeavePlot.
func (w *Worker) removeOutOfBounds() {
	for id, p := range w.players {
		if p.PlotPos() != w.Pos {
			delete(w.players, id)
			w.world.DetachViewer(w.viewerSinks[id])
			delete(w.viewerSinks, id)
			w.world.BroadcastRemoveEntities([]int32{p.EntityID})
			w.serverInbox.Send(fabric.PlayerLeavePlot{Player: p})
		}
	}
}

func (w *Worker) shutdown() {
	w.world.FlushBlockChanges()
	w.serverInbox.Send(fabric.PlotUnload{X: w.Pos.X, Z: w.Pos.Z})
}

// BackendInbox returns the channel a backend builder goroutine posts status
// messages to.
func (w *Worker) BackendInbox() chan<- backend.Msg { return w.backendMsgs }
