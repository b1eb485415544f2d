package world

// GenerateFlat builds the chunk grid for a freshly created plot: a stone-brick
// border one block wide around the plot's horizontal edge at y=0, sandstone
// everywhere else on that layer, and air above, matching the flat-floor preset
// described in spec §8 scenario 1.
func GenerateFlat(plot PlotPos) []*Chunk {
	chunks := make([]*Chunk, NumChunks)
	first := plot.FirstChunk()
	for lx := int32(0); lx < PlotWidth; lx++ {
		for lz := int32(0); lz < PlotWidth; lz++ {
			c := NewChunk(first.X+lx, first.Z+lz)
			for x := uint8(0); x < 16; x++ {
				for z := uint8(0); z < 16; z++ {
					globalX := int(lx)*16 + int(x)
					globalZ := int(lz)*16 + int(z)
					state := Sandstone
					if isPlotBorder(globalX, globalZ) {
						state = StoneBricks
					}
					c.SetBlock(x, 0, z, state)
				}
			}
			c.ResetDirty()
			chunks[lx<<PlotScale+lz] = c
		}
	}
	return chunks
}

func isPlotBorder(localX, localZ int) bool {
	const max = PlotBlockWidth - 1
	return localX == 0 || localZ == 0 || localX == max || localZ == max
}
