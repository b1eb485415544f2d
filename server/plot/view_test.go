package plot

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxelplots/server/server/fabric"
	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/world"
)

type fakeCodec struct{}

func (fakeCodec) MultiBlockChange(world.ChunkPos, []world.BlockChange) world.PacketBytes {
	return nil
}
func (fakeCodec) SoundEffect(world.Sound) world.PacketBytes { return nil }
func (fakeCodec) BlockEntityData(world.BlockPos, world.BlockEntity) world.PacketBytes {
	return nil
}
func (fakeCodec) ChunkData(c *world.Chunk) world.PacketBytes {
	return world.PacketBytes(fmt.Sprintf("chunk:%d,%d", c.X, c.Z))
}
func (fakeCodec) EmptyChunk(chunk world.ChunkPos, sections int) world.PacketBytes {
	return world.PacketBytes(fmt.Sprintf("empty:%d,%d", chunk.X, chunk.Z))
}
func (fakeCodec) SetCenterChunk(chunk world.ChunkPos) world.PacketBytes {
	return world.PacketBytes(fmt.Sprintf("center:%d,%d", chunk.X, chunk.Z))
}
func (fakeCodec) BlockUpdate(world.BlockPos, world.BlockState) world.PacketBytes { return nil }
func (fakeCodec) RemoveEntities([]int32) world.PacketBytes                      { return nil }
func (fakeCodec) WorldEvent(int32, world.BlockPos, int32) world.PacketBytes     { return nil }

type recordingSink struct {
	packets []string
}

func (s *recordingSink) SendPacket(b world.PacketBytes) {
	s.packets = append(s.packets, string(b))
}

func newViewTestWorker(viewDistance int) (*Worker, *recordingSink) {
	pos := world.PlotPos{X: 0, Z: 0}
	w := world.NewWorld(pos, world.GenerateFlat(pos), fakeCodec{})
	worker := New(pos, w, Config{ViewDistance: viewDistance, Codec: fakeCodec{}}, nil,
		fabric.NewPrivateInbox(1), fabric.NewServerInbox(1))
	return worker, &recordingSink{}
}

func countByPrefix(packets []string, prefix string) int {
	n := 0
	for _, p := range packets {
		if len(p) >= len(prefix) && p[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func TestSendInitialChunksLoadsFullSquare(t *testing.T) {
	worker, sink := newViewTestWorker(2)
	p := &player.Player{Client: sink}
	worker.sendInitialChunks(p)

	want := (2*2 + 1) * (2*2 + 1) // (2*vd+1)^2 chunks
	got := countByPrefix(sink.packets, "chunk:") + countByPrefix(sink.packets, "empty:")
	if got != want {
		t.Fatalf("sendInitialChunks sent %d chunk packets, want %d", got, want)
	}
	if countByPrefix(sink.packets, "center:") != 1 {
		t.Fatalf("expected exactly one set-center-chunk packet")
	}
}

func TestUpdateViewPositionDeltaOnlySendsNewlyVisibleChunks(t *testing.T) {
	worker, sink := newViewTestWorker(1)
	p := &player.Player{Client: sink, LastChunkX: 0, LastChunkZ: 0, LastChunkValid: true}

	// Move one chunk east: with vd=1 the union box minus the already-visible
	// 3x3 square should only newly reveal the column at x=2.
	p.Position = mgl64.Vec3{16, 0, 0}
	sink.packets = nil
	worker.UpdateViewPosition(p, false)

	got := countByPrefix(sink.packets, "chunk:") + countByPrefix(sink.packets, "empty:")
	want := 3 // one new column of height 2*vd+1 = 3
	if got != want {
		t.Fatalf("loadDelta sent %d newly-visible chunk packets, want %d", got, want)
	}
}

func TestUpdateViewPositionForceReloadSendsFullSquare(t *testing.T) {
	worker, sink := newViewTestWorker(1)
	p := &player.Player{Client: sink}

	worker.UpdateViewPosition(p, true)

	want := 3 * 3
	got := countByPrefix(sink.packets, "chunk:") + countByPrefix(sink.packets, "empty:")
	if got != want {
		t.Fatalf("force reload sent %d chunk packets, want %d", got, want)
	}
}
