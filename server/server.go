// Package server implements the Server Coordinator (C7): it tracks online
// players and running plots, routes players between plot workers, and
// performs graceful shutdown.
package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/voxelplots/server/server/accel"
	"github.com/voxelplots/server/server/backend"
	"github.com/voxelplots/server/server/fabric"
	"github.com/voxelplots/server/server/plot"
	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/protocol"
	"github.com/voxelplots/server/server/redstone"
	"github.com/voxelplots/server/server/storage"
	"github.com/voxelplots/server/server/world"
)

// plotHandle is what the coordinator keeps for each running plot worker: the
// worker itself (so Server can read its state for listing/admin purposes) and
// the private inbox used to route players to it.
type plotHandle struct {
	worker  *plot.Worker
	private *fabric.PrivateInbox
}

// Server is the coordinator every client connection and plot worker reports
// to. It owns no world state directly; it only routes.
type Server struct {
	conf Config
	log  *slog.Logger

	bus         *fabric.Bus
	serverInbox *fabric.ServerInbox

	accel     *accel.Scheduler
	codec     protocol.Codec
	ticker    redstone.Ticker
	builder   backend.Builder
	plots     storage.PlotStore
	players   storage.PlayerStore
	ownership *storage.OwnershipRegistry

	whitelist *Whitelist

	mu      sync.Mutex
	online  map[uuid.UUID]*player.Player
	running map[world.PlotPos]*plotHandle

	// workers joins every spawned plot worker's goroutine so drainShutdown can
	// wait for the last save to finish before declaring shutdown complete.
	workers *errgroup.Group
}

// Deps bundles the external collaborators a Server needs beyond its Config:
// the wire codec, the redstone tick library, the backend compiler, and plot
// persistence. Every field has a usable zero-effort default.
type Deps struct {
	Codec     protocol.Codec
	Ticker    redstone.Ticker
	Builder   backend.Builder
	Plots     storage.PlotStore
	Players   storage.PlayerStore
	Ownership *storage.OwnershipRegistry
}

// New constructs a Server from conf and deps, loading the whitelist file at
// whitelistPath (cmd/plotserver passes <data-dir>/whitelist.json).
func New(conf Config, deps Deps, whitelistPath string) (*Server, error) {
	conf = conf.withDefaults()
	wl, err := LoadWhitelist(whitelistPath)
	if err != nil {
		return nil, err
	}
	wl.SetEnabled(conf.Whitelist)

	ticker := deps.Ticker
	if ticker == nil {
		ticker = redstone.NopTicker{}
	}
	builder := deps.Builder
	if builder == nil {
		builder = backend.NullBuilder
	}
	plots := deps.Plots
	if plots == nil {
		plots = storage.NopPlotStore{}
	}
	players := deps.Players
	if players == nil {
		players = storage.NopPlayerStore{}
	}

	return &Server{
		conf:        conf,
		log:         conf.Log,
		bus:         fabric.NewBus(),
		serverInbox: fabric.NewServerInbox(256),
		accel:       accel.NewScheduler(),
		codec:       deps.Codec,
		ticker:      ticker,
		builder:     builder,
		plots:       plots,
		players:     players,
		ownership:   deps.Ownership,
		whitelist:   wl,
		online:      make(map[uuid.UUID]*player.Player),
		running:     make(map[world.PlotPos]*plotHandle),
		workers:     &errgroup.Group{},
	}, nil
}

// Whitelist returns the server's whitelist, for the login path to consult.
func (s *Server) Whitelist() *Whitelist { return s.whitelist }

// Bus returns the broadcast bus new plot workers subscribe to.
func (s *Server) Bus() *fabric.Bus { return s.bus }

// Inbox returns the server inbox plot workers and sessions send Messages to.
func (s *Server) Inbox() *fabric.ServerInbox { return s.serverInbox }

// Run consumes the server inbox until a Shutdown message is processed,
// implementing C7's side of the operational model (§4.4). It returns once
// every running plot has unloaded.
func (s *Server) Run() {
	for msg := range s.serverInbox.Recv() {
		if s.handle(msg) {
			return
		}
	}
}

// handle processes one server-inbox message and reports whether the
// coordinator should stop (i.e. shutdown has completed).
func (s *Server) handle(msg fabric.Message) bool {
	switch m := msg.(type) {
	case fabric.PlayerJoined:
		s.onPlayerJoined(m.Player)
	case fabric.PlayerLeavePlot:
		s.routePlayer(m.Player)
	case fabric.PlayerLeft:
		s.onPlayerLeft(m.UUID)
	case fabric.PlotUnload:
		s.onPlotUnload(world.PlotPos{X: m.X, Z: m.Z})
	case fabric.PlayerTeleportOtherRequest:
		s.onTeleportOtherRequest(m)
	case fabric.PlayerUpdateGamemode:
		s.bus.Publish(fabric.PlayerUpdateGamemodeBroadcast{UUID: m.UUID, Gamemode: m.Gamemode})
	case fabric.WhitelistAdd:
		_, _ = s.whitelist.Add(m.UUID, m.Name)
	case fabric.WhitelistRemove:
		_, _ = s.whitelist.Remove(m.UUID)
	case fabric.ChatInfo:
		s.bus.Publish(fabric.Chat{UUID: m.UUID, Text: m.Text})
	case fabric.Shutdown:
		s.drainShutdown()
		return true
	}
	return false
}

// onPlayerJoined implements the PlayerJoined branch of §4.4: it ensures the
// user row exists in persistent store, records the player online, broadcasts
// their arrival, and routes them to their plot.
func (s *Server) onPlayerJoined(p *player.Player) {
	if _, ok := s.players.Load(p.UUID); !ok {
		if err := s.players.Save(p); err != nil {
			s.log.Error("create player row", "uuid", p.UUID, "err", err)
		}
	}

	s.mu.Lock()
	s.online[p.UUID] = p
	s.mu.Unlock()

	s.bus.Publish(fabric.PlayerJoinedInfo{Info: fabric.PlayerJoinInfo{
		UUID: p.UUID, Username: p.Username, Gamemode: p.Gamemode,
	}})
	s.routePlayer(p)
}

func (s *Server) onPlayerLeft(id uuid.UUID) {
	s.mu.Lock()
	delete(s.online, id)
	s.mu.Unlock()
	s.bus.Publish(fabric.PlayerLeftBroadcast{UUID: id})
}

func (s *Server) onPlotUnload(pos world.PlotPos) {
	s.mu.Lock()
	delete(s.running, pos)
	s.mu.Unlock()
}

func (s *Server) onTeleportOtherRequest(req fabric.PlayerTeleportOtherRequest) {
	s.mu.Lock()
	target, ok := s.online[req.UUID]
	s.mu.Unlock()
	if !ok {
		return
	}
	handle := s.plotFor(target.PlotPos())
	handle.private.Send(fabric.PlayerTeleportOther{Player: target, TargetName: req.TargetName})
}

// routePlayer implements "Routing a player" (§4.4): look up the destination
// plot from the player's current position; spawn a worker if absent,
// otherwise deliver PlayerEnterPlot to the existing one.
func (s *Server) routePlayer(p *player.Player) {
	handle := s.plotFor(p.PlotPos())
	handle.private.Send(fabric.PlayerEnterPlot{Player: p})
}

// plotFor returns the handle for pos, spawning a new worker (always_running
// only for the spawn plot, (0,0)) if none is running yet.
func (s *Server) plotFor(pos world.PlotPos) *plotHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.running[pos]; ok {
		return h
	}
	h := s.spawnPlotLocked(pos)
	s.running[pos] = h
	return h
}

func (s *Server) spawnPlotLocked(pos world.PlotPos) *plotHandle {
	alwaysRunning := pos.X == 0 && pos.Z == 0

	saved, _ := s.plots.Load(pos)

	var owner *uuid.UUID
	if s.ownership != nil {
		if id, ok := s.ownership.Owner(pos); ok {
			owner = &id
		}
	}

	private := fabric.NewPrivateInbox(32)
	w := plot.New(pos, saved, plot.Config{
		ViewDistance:  s.conf.ViewDistance,
		WorldSendRate: s.conf.WorldSendRate,
		Tps:           plot.Tps{Mode: plot.TpsLimited, Limited: 20},
		AlwaysRunning: alwaysRunning,
		Codec:         s.codec,
		Ticker:        s.ticker,
		Builder:       s.builder,
		Accel:         s.accel,
		Owner:         owner,
		Log:           s.log,
	}, s.bus.Subscribe(), private, s.serverInbox)

	s.workers.Go(func() error {
		w.Run()
		return s.plots.Save(pos, w.World())
	})

	return &plotHandle{worker: w, private: private}
}

// drainShutdown implements the Shutdown branch of §4.4: broadcast Shutdown,
// drain PlotUnload messages until the running-plots list empties (sleeping
// briefly between drains rather than busy-spinning), then persist the
// whitelist.
func (s *Server) drainShutdown() {
	s.bus.Publish(fabric.Shutdown{})
	for {
		s.mu.Lock()
		remaining := len(s.running)
		s.mu.Unlock()
		if remaining == 0 {
			break
		}
		select {
		case msg := <-s.serverInbox.Recv():
			if pu, ok := msg.(fabric.PlotUnload); ok {
				s.onPlotUnload(world.PlotPos{X: pu.X, Z: pu.Z})
			}
		case <-time.After(2 * time.Millisecond):
		}
	}
	if err := s.workers.Wait(); err != nil {
		s.log.Error("save plot on shutdown", "err", err)
	}
	if err := s.whitelist.Save(); err != nil {
		s.log.Error("save whitelist", "err", err)
	}
}

// Shutdown requests a graceful shutdown by enqueueing a Shutdown message,
// which Run will observe and act on.
func (s *Server) Shutdown() {
	s.serverInbox.Send(fabric.Shutdown{})
}
