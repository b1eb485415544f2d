package plot

import (
	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/world"
)

// sendInitialChunks loads the full view-distance square around a freshly
// entered player, as if they had just transitioned from an undefined
// position (forcing the full-reload path of UpdateViewPosition).
func (w *Worker) sendInitialChunks(p *player.Player) {
	chunk := p.BlockPos().ChunkPos()
	p.LastChunkX, p.LastChunkZ, p.LastChunkValid = chunk.X, chunk.Z, false
	w.UpdateViewPosition(p, true)
}

// UpdateViewPosition implements the player view-distance delta algorithm
// (§4.2.6): it sends a set-center-chunk packet, then either incrementally
// loads the newly-visible ring of chunks or, on a forced reload or a move of
// more than 2*vd chunks along either axis, sends the whole view-distance
// square around the player's current chunk. Chunks of the old square are not
// unloaded in either case.
func (w *Worker) UpdateViewPosition(p *player.Player, forceReload bool) {
	if w.codec == nil || p.Client == nil {
		return
	}
	vd := int32(w.viewDistance)
	newChunk := p.BlockPos().ChunkPos()
	w.sendPacket(p, w.codec.SetCenterChunk(newChunk))

	if !p.LastChunkValid {
		forceReload = true
	}
	lastChunk := world.ChunkPos{X: p.LastChunkX, Z: p.LastChunkZ}

	dx := newChunk.X - lastChunk.X
	dz := newChunk.Z - lastChunk.Z
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}

	if !forceReload && dx <= 2*vd && dz <= 2*vd {
		w.loadDelta(p, lastChunk, newChunk, vd)
	} else {
		w.loadSquare(p, newChunk, vd)
	}

	p.LastChunkX, p.LastChunkZ, p.LastChunkValid = newChunk.X, newChunk.Z, true
}

// loadDelta sends load-chunk packets for every chunk in the union box around
// old and new that transitions false -> true in visibility. Transitions
// true -> false send nothing, matching the teacher source's load-only path.
func (w *Worker) loadDelta(p *player.Player, last, cur world.ChunkPos, vd int32) {
	minX, maxX := last.X, cur.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minZ, maxZ := last.Z, cur.Z
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}
	minX -= vd
	maxX += vd
	minZ -= vd
	maxZ += vd

	for cx := minX; cx <= maxX; cx++ {
		for cz := minZ; cz <= maxZ; cz++ {
			pos := world.ChunkPos{X: cx, Z: cz}
			wasLoaded := world.ChebyshevDistance(pos, last) <= vd
			shouldLoad := world.ChebyshevDistance(pos, cur) <= vd
			if !wasLoaded && shouldLoad {
				w.sendChunk(p, pos)
			}
		}
	}
}

// loadSquare sends every chunk in the view-distance square around center.
func (w *Worker) loadSquare(p *player.Player, center world.ChunkPos, vd int32) {
	for cx := center.X - vd; cx <= center.X+vd; cx++ {
		for cz := center.Z - vd; cz <= center.Z+vd; cz++ {
			w.sendChunk(p, world.ChunkPos{X: cx, Z: cz})
		}
	}
}

func (w *Worker) sendChunk(p *player.Player, pos world.ChunkPos) {
	if world.ChunkInPlotBounds(w.Pos.X, w.Pos.Z, pos.X, pos.Z) {
		if c, ok := w.world.Chunk(pos.X, pos.Z); ok {
			w.sendPacket(p, w.codec.ChunkData(c))
			return
		}
	}
	w.sendPacket(p, w.codec.EmptyChunk(pos, world.PlotSections))
}

func (w *Worker) sendPacket(p *player.Player, pkt world.PacketBytes) {
	if p.Client != nil {
		p.Client.SendPacket(pkt)
	}
}

// updatePlayers advances each resident player's view position if they have
// moved to a new chunk, and applies pressure-plate physics for their move.
func (w *Worker) updatePlayers() {
	for _, p := range w.players {
		pos := p.BlockPos()
		if !p.LastBlockPosValid || pos != p.LastBlockPos {
			w.applyPressurePlatePhysics(p, pos)
		}

		chunk := pos.ChunkPos()
		if !p.LastChunkValid || chunk.X != p.LastChunkX || chunk.Z != p.LastChunkZ {
			w.UpdateViewPosition(p, false)
		}
	}
}
