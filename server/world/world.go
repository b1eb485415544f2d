package world

// Sim is the capability set the redstone interpreter (C3) and the backend (C4)
// consume. Both the real World below and any test stub satisfy it.
type Sim interface {
	GetBlockRaw(pos BlockPos) BlockState
	SetBlockRaw(pos BlockPos, state BlockState) bool
	SetBlockEntity(pos BlockPos, entity BlockEntity)
	GetBlockEntity(pos BlockPos) (BlockEntity, bool)
	DeleteBlockEntity(pos BlockPos)
	ScheduleTick(pos BlockPos, delay uint32, priority TickPriority)
	PendingTickAt(pos BlockPos) bool
	PlaySound(s Sound)
}

// World is the Chunked World Store (C1): a plot's 32x32 chunk grid, its pending
// tick queue, and the block-entity/dirty bookkeeping needed to serve the
// simulator and flush changes to players.
type World struct {
	Plot PlotPos

	Chunks     []*Chunk // row-major by local X then Z, length NumChunks
	ToBeTicked TickQueue

	codec   Codec
	viewers []PacketSink
}

// NewWorld builds a World for the given plot from chunks (for example the
// output of GenerateFlat, or chunks loaded from a save), with an empty tick
// queue and no attached viewers.
func NewWorld(plot PlotPos, chunks []*Chunk, codec Codec) *World {
	return &World{Plot: plot, Chunks: chunks, codec: codec}
}

// AttachViewer registers a packet sink to receive flushed block changes and
// sounds for this plot (called when a player enters).
func (w *World) AttachViewer(sink PacketSink) {
	w.viewers = append(w.viewers, sink)
}

// DetachViewer removes a previously attached sink.
func (w *World) DetachViewer(sink PacketSink) {
	for i, v := range w.viewers {
		if v == sink {
			w.viewers = append(w.viewers[:i], w.viewers[i+1:]...)
			return
		}
	}
}

// Clone returns a World holding an independent copy of every chunk's block
// data, pending ticks, and block entities, sharing no mutable state with w.
// A backend builder (C4) compiles this snapshot on its own goroutine while
// the plot worker keeps advancing w itself (§5's isolation requirement).
func (w *World) Clone() *World {
	chunks := make([]*Chunk, len(w.Chunks))
	for i, c := range w.Chunks {
		chunks[i] = c.Clone()
	}
	return &World{
		Plot:       w.Plot,
		Chunks:     chunks,
		ToBeTicked: w.ToBeTicked.Clone(),
		codec:      w.codec,
	}
}

// chunkIndexForChunk returns the index into Chunks for global chunk coordinates,
// per the index math of §4.1: local_x/z relative to the plot's first chunk,
// row-major by local X then Z.
func (w *World) chunkIndexForChunk(chunkX, chunkZ int32) int {
	localX := chunkX - w.Plot.X*PlotWidth
	localZ := chunkZ - w.Plot.Z*PlotWidth
	return int(localX<<PlotScale + localZ)
}

// chunkIndexForBlock returns the chunk index for a block position, or false if
// the block lies outside the plot's horizontal bounds.
func (w *World) chunkIndexForBlock(x, z int) (int, bool) {
	chunkX := int32(x-int(w.Plot.X)*PlotBlockWidth) >> 4
	chunkZ := int32(z-int(w.Plot.Z)*PlotBlockWidth) >> 4
	if chunkX < 0 || chunkZ < 0 || chunkX >= PlotWidth || chunkZ >= PlotWidth {
		return 0, false
	}
	return int(chunkX<<PlotScale + chunkZ), true
}

// Chunk returns the chunk at the given global chunk coordinates, if it belongs
// to this plot.
func (w *World) Chunk(chunkX, chunkZ int32) (*Chunk, bool) {
	idx := w.chunkIndexForChunk(chunkX, chunkZ)
	if idx < 0 || idx >= len(w.Chunks) {
		return nil, false
	}
	return w.Chunks[idx], true
}

// SetBlockRaw implements I2: out-of-bounds writes (vertically or horizontally)
// are a no-op and report no change.
func (w *World) SetBlockRaw(pos BlockPos, state BlockState) bool {
	if pos.Y < 0 || pos.Y >= PlotBlockHeight {
		return false
	}
	idx, ok := w.chunkIndexForBlock(pos.X, pos.Z)
	if !ok {
		return false
	}
	return w.Chunks[idx].SetBlock(uint8(pos.X&0xF), uint8(pos.Y), uint8(pos.Z&0xF), state)
}

// GetBlockRaw returns Air for any position outside bounds.
func (w *World) GetBlockRaw(pos BlockPos) BlockState {
	if pos.Y < 0 || pos.Y >= PlotBlockHeight {
		return Air
	}
	idx, ok := w.chunkIndexForBlock(pos.X, pos.Z)
	if !ok {
		return Air
	}
	return w.Chunks[idx].GetBlock(uint8(pos.X&0xF), uint8(pos.Y), uint8(pos.Z&0xF))
}

// SetBlockEntity associates entity with pos, broadcasting its encoded payload
// to every attached viewer.
func (w *World) SetBlockEntity(pos BlockPos, entity BlockEntity) {
	idx, ok := w.chunkIndexForBlock(pos.X, pos.Z)
	if !ok {
		return
	}
	if w.codec != nil {
		pkt := w.codec.BlockEntityData(pos, entity)
		for _, v := range w.viewers {
			v.SendPacket(pkt)
		}
	}
	w.Chunks[idx].SetBlockEntity(uint8(pos.X&0xF), uint8(pos.Y), uint8(pos.Z&0xF), entity)
}

// GetBlockEntity returns the block entity at pos, if any.
func (w *World) GetBlockEntity(pos BlockPos) (BlockEntity, bool) {
	idx, ok := w.chunkIndexForBlock(pos.X, pos.Z)
	if !ok {
		return nil, false
	}
	return w.Chunks[idx].GetBlockEntity(uint8(pos.X&0xF), uint8(pos.Y), uint8(pos.Z&0xF))
}

// DeleteBlockEntity removes the block entity at pos, if any.
func (w *World) DeleteBlockEntity(pos BlockPos) {
	idx, ok := w.chunkIndexForBlock(pos.X, pos.Z)
	if !ok {
		return
	}
	w.Chunks[idx].DeleteBlockEntity(uint8(pos.X&0xF), uint8(pos.Y), uint8(pos.Z&0xF))
}

// ScheduleTick appends a pending tick. No deduplication is performed.
func (w *World) ScheduleTick(pos BlockPos, delay uint32, priority TickPriority) {
	w.ToBeTicked.Schedule(pos, delay, priority)
}

// PendingTickAt reports whether pos has a pending tick scheduled.
func (w *World) PendingTickAt(pos BlockPos) bool {
	return w.ToBeTicked.PendingAt(pos)
}

// PlaySound broadcasts a sound to every player sink attached to the plot,
// regardless of distance (a known, intentional deviation from vanilla; see
// spec §9 open questions).
func (w *World) PlaySound(s Sound) {
	if w.codec == nil {
		return
	}
	pkt := w.codec.SoundEffect(s)
	for _, v := range w.viewers {
		v.SendPacket(pkt)
	}
}

// FlushBlockChanges emits every chunk's dirty list as a multi-block-change
// packet to every attached sink, then clears the lists (I4).
func (w *World) FlushBlockChanges() {
	for _, c := range w.Chunks {
		changes := c.DirtyBlockChanges()
		if len(changes) == 0 {
			continue
		}
		if w.codec != nil {
			batch := make([]BlockChange, len(changes))
			for i, ch := range changes {
				batch[i] = BlockChange{X: ch.LocalX, Y: ch.LocalY, Z: ch.LocalZ, State: ch.State}
			}
			pkt := w.codec.MultiBlockChange(ChunkPos{X: c.X, Z: c.Z}, batch)
			for _, v := range w.viewers {
				v.SendPacket(pkt)
			}
		}
		c.ResetDirty()
	}
}

// BroadcastWorldEvent sends an ambient world event (e.g. block-break
// particles) to every attached viewer.
func (w *World) BroadcastWorldEvent(event int32, pos BlockPos, data int32) {
	if w.codec == nil {
		return
	}
	pkt := w.codec.WorldEvent(event, pos, data)
	for _, v := range w.viewers {
		v.SendPacket(pkt)
	}
}

// BroadcastRemoveEntities tells every attached viewer to despawn the given
// entity ids, used when a player disconnects or leaves the plot.
func (w *World) BroadcastRemoveEntities(entityIDs []int32) {
	if w.codec == nil || len(entityIDs) == 0 {
		return
	}
	pkt := w.codec.RemoveEntities(entityIDs)
	for _, v := range w.viewers {
		v.SendPacket(pkt)
	}
}

// GetCorners returns the plot's minimum and maximum world-space block corners.
func (w *World) GetCorners() (min, max BlockPos) {
	const width = PlotBlockWidth
	min = BlockPos{X: int(w.Plot.X) * width, Y: 0, Z: int(w.Plot.Z) * width}
	max = BlockPos{
		X: int(w.Plot.X+1)*width - 1,
		Y: PlotBlockHeight - 1,
		Z: int(w.Plot.Z+1)*width - 1,
	}
	return
}

// Codec returns the packet codec used to encode outbound packets for this
// world, for callers outside this package (e.g. the plot worker's view-distance
// delta) that need to build chunk/empty-chunk packets directly.
func (w *World) Codec() Codec { return w.codec }
