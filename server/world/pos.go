package world

// BlockPos is a position of a block in world space.
type BlockPos struct {
	X, Y, Z int
}

// Offset returns pos shifted by (dx, dy, dz).
func (pos BlockPos) Offset(dx, dy, dz int) BlockPos {
	return BlockPos{X: pos.X + dx, Y: pos.Y + dy, Z: pos.Z + dz}
}

// ChunkPos returns the position of the chunk pos lies in.
func (pos BlockPos) ChunkPos() ChunkPos {
	return ChunkPos{X: int32(pos.X >> 4), Z: int32(pos.Z >> 4)}
}

// PlotPos returns the position of the plot pos lies in.
func (pos BlockPos) PlotPos() PlotPos {
	return pos.ChunkPos().PlotPos()
}

// ChunkPos identifies a chunk in the infinite chunk grid.
type ChunkPos struct {
	X, Z int32
}

// PlotPos returns the plot that owns the chunk.
func (c ChunkPos) PlotPos() PlotPos {
	return PlotPos{X: c.X >> PlotScale, Z: c.Z >> PlotScale}
}

// PlotPos identifies a plot in the plot grid.
type PlotPos struct {
	X, Z int32
}

// FirstChunk returns the chunk at the plot's local (0, 0).
func (p PlotPos) FirstChunk() ChunkPos {
	return ChunkPos{X: p.X * PlotWidth, Z: p.Z * PlotWidth}
}

// Center returns the block-space center of the plot, used for teleports.
func (p PlotPos) Center() (x, z float64) {
	const w = float64(PlotBlockWidth)
	return float64(p.X)*w + w/2, float64(p.Z)*w + w/2
}

// ChebyshevDistance returns max(|dx|, |dz|) between two chunk positions, the metric
// used by the view-distance delta algorithm.
func ChebyshevDistance(a, b ChunkPos) int32 {
	dx, dz := a.X-b.X, a.Z-b.Z
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// ChunkInPlotBounds reports whether the chunk at (chunkX, chunkZ) lies within the
// plot at (plotX, plotZ).
func ChunkInPlotBounds(plotX, plotZ, chunkX, chunkZ int32) bool {
	return plotX == chunkX>>PlotScale && plotZ == chunkZ>>PlotScale
}

// InPlotBounds reports whether the block at (x, z) lies within the plot at
// (plotX, plotZ).
func InPlotBounds(plotX, plotZ int32, x, z int) bool {
	return ChunkInPlotBounds(plotX, plotZ, int32(x)>>4, int32(z)>>4)
}
