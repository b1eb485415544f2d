// Package storage implements plot, player, and ownership persistence (spec
// §6 "Filesystem layout"): compressed per-plot saves, gob-encoded per-player
// saves, and a LevelDB-backed plot ownership registry.
package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/s2"

	"github.com/voxelplots/server/server/world"
)

// PlotStore persists and loads a plot's world state, keyed by plot position.
type PlotStore interface {
	Load(pos world.PlotPos) (*world.World, bool)
	Save(pos world.PlotPos, w *world.World) error
}

// plotSave is the on-disk structure for one plot file: the chunk array in
// row-major local order, the pending-tick list, and the plot's tick-pacing
// settings (spec §6).
type plotSave struct {
	Chunks  []plotChunk
	Pending []world.PendingTick

	TpsMode    uint8
	TpsLimited uint32

	WorldSendRate uint32
}

// plotChunk mirrors the section storage layout Chunk.Sections exposes: 24
// sections of 4096 (16x16x16) block states each.
type plotChunk [world.PlotSections][16 * 16 * 16]world.BlockState

// FilePlotStore persists plots under dir/plots/p<X>,<Z>, s2-compressed with a
// leading xxhash64 checksum of the uncompressed payload, matching the
// "compressed chunk array" layout spec §6 names.
type FilePlotStore struct {
	Dir string
}

// NewFilePlotStore returns a store rooted at dir (typically "./world").
func NewFilePlotStore(dir string) *FilePlotStore {
	return &FilePlotStore{Dir: dir}
}

func (s *FilePlotStore) path(pos world.PlotPos) string {
	return filepath.Join(s.Dir, "plots", fmt.Sprintf("p%d,%d", pos.X, pos.Z))
}

// Load reads and decompresses the plot file at pos, verifying its checksum.
// A missing file is reported as (nil, false), not an error: the caller
// generates a fresh flat plot.
func (s *FilePlotStore) Load(pos world.PlotPos) (*world.World, bool) {
	raw, err := os.ReadFile(s.path(pos))
	if err != nil {
		return nil, false
	}
	if len(raw) < 8 {
		return nil, false
	}
	wantSum := bytesToUint64(raw[:8])
	payload, err := s2.Decode(nil, raw[8:])
	if err != nil {
		return nil, false
	}
	if xxhash.Sum64(payload) != wantSum {
		return nil, false
	}

	var save plotSave
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&save); err != nil {
		return nil, false
	}

	chunks := make([]*world.Chunk, 0, world.NumChunks)
	first := pos.FirstChunk()
	for lx := int32(0); lx < world.PlotWidth; lx++ {
		for lz := int32(0); lz < world.PlotWidth; lz++ {
			c := world.NewChunk(first.X+lx, first.Z+lz)
			idx := int(lx<<world.PlotScale + lz)
			if idx < len(save.Chunks) {
				*c.Sections() = save.Chunks[idx]
			}
			c.ResetDirty()
			chunks = append(chunks, c)
		}
	}

	w := world.NewWorld(pos, chunks, nil)
	w.ToBeTicked.Restore(save.Pending)
	return w, true
}

// Save compresses and writes w's chunk array and pending ticks to pos's plot
// file. The file's TpsMode, TpsLimited and WorldSendRate fields are written as
// zero, and Load does not read them back.
func (s *FilePlotStore) Save(pos world.PlotPos, w *world.World) error {
	if w == nil {
		return nil
	}
	save := plotSave{
		Chunks:  make([]plotChunk, len(w.Chunks)),
		Pending: w.ToBeTicked.Entries(),
	}
	for i, c := range w.Chunks {
		save.Chunks[i] = plotChunk(*c.Sections())
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(save); err != nil {
		return fmt.Errorf("encode plot %d,%d: %w", pos.X, pos.Z, err)
	}
	payload := buf.Bytes()
	sum := xxhash.Sum64(payload)
	compressed := s2.Encode(nil, payload)

	out := make([]byte, 0, 8+len(compressed))
	out = append(out, uint64ToBytes(sum)...)
	out = append(out, compressed...)

	dir := filepath.Join(s.Dir, "plots")
	if err := os.MkdirAll(dir, 0777); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}
	if err := os.WriteFile(s.path(pos), out, 0644); err != nil {
		return fmt.Errorf("write plot %d,%d: %w", pos.X, pos.Z, err)
	}
	return nil
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func bytesToUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// NopPlotStore never persists anything; every Load misses and every Save
// succeeds trivially. Used when no world directory is configured.
type NopPlotStore struct{}

func (NopPlotStore) Load(world.PlotPos) (*world.World, bool) { return nil, false }
func (NopPlotStore) Save(world.PlotPos, *world.World) error  { return nil }
