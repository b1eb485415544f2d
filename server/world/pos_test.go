package world

import "testing"

func TestChebyshevDistance(t *testing.T) {
	cases := []struct {
		a, b ChunkPos
		want int32
	}{
		{ChunkPos{0, 0}, ChunkPos{0, 0}, 0},
		{ChunkPos{3, 0}, ChunkPos{0, 0}, 3},
		{ChunkPos{0, -4}, ChunkPos{0, 0}, 4},
		{ChunkPos{3, 5}, ChunkPos{0, 0}, 5},
		{ChunkPos{-2, -2}, ChunkPos{2, 2}, 4},
	}
	for _, c := range cases {
		if got := ChebyshevDistance(c.a, c.b); got != c.want {
			t.Fatalf("ChebyshevDistance(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestPlotPosFirstChunkAndBack(t *testing.T) {
	plot := PlotPos{X: 2, Z: -1}
	first := plot.FirstChunk()
	if got := first.PlotPos(); got != plot {
		t.Fatalf("FirstChunk().PlotPos() = %v, want %v", got, plot)
	}
}

func TestChunkInPlotBounds(t *testing.T) {
	plot := PlotPos{X: 0, Z: 0}
	first := plot.FirstChunk()
	if !ChunkInPlotBounds(plot.X, plot.Z, first.X, first.Z) {
		t.Fatalf("expected plot's own first chunk to be in bounds")
	}
	outside := ChunkPos{X: first.X + PlotWidth, Z: first.Z}
	if ChunkInPlotBounds(plot.X, plot.Z, outside.X, outside.Z) {
		t.Fatalf("expected chunk one plot-width over to be out of bounds")
	}
}

func TestBlockPosChunkPos(t *testing.T) {
	pos := BlockPos{X: 37, Y: 12, Z: -5}
	chunk := pos.ChunkPos()
	if chunk.X != 2 || chunk.Z != -1 {
		t.Fatalf("ChunkPos() = %v, want {2 -1}", chunk)
	}
}
