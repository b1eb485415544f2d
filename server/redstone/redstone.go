// Package redstone declares the interface boundary to the redstone tick
// library (C3). Per the system's scope, the library's internal circuit logic
// is external: this package only names the contract the plot worker's
// interpreter tick (§4.2.4) calls into, plus a no-op implementation usable
// wherever no real interpreter is wired (tests, a plot with redstone disabled).
package redstone

import "github.com/voxelplots/server/server/world"

// Ticker evaluates the redstone update rule for one pending tick. Real
// implementations mutate blocks and reschedule further ticks through w;
// this package does not constrain how.
type Ticker interface {
	Tick(w world.Sim, tick world.PendingTick)
}

// TickerFunc adapts a function into a Ticker.
type TickerFunc func(w world.Sim, tick world.PendingTick)

func (f TickerFunc) Tick(w world.Sim, tick world.PendingTick) { f(w, tick) }

// NopTicker discards every pending tick without mutating the world. It is the
// default when no redstone library is configured.
type NopTicker struct{}

func (NopTicker) Tick(world.Sim, world.PendingTick) {}
