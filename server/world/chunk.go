package world

import (
	"github.com/brentp/intintmap"
	"github.com/segmentio/fasthash/fnv1a"
)

const (
	chunkWidth = 16
	// sectionBlocks is the number of blocks in one 16x16x16 section.
	sectionBlocks = chunkWidth * chunkWidth * chunkWidth
)

// packedBlockChange is one entry of a chunk's dirty list, encoded the way a
// multi-block-change packet would: local coordinates plus the new block state.
type packedBlockChange struct {
	LocalX, LocalY, LocalZ uint8
	State                  BlockState
}

// Chunk is a PlotSections-tall stack of 16x16x16 block-state arrays, plus the
// dirty-list and block-entity bookkeeping C1 requires.
type Chunk struct {
	X, Z int32

	sections [PlotSections][sectionBlocks]BlockState

	dirty    []packedBlockChange
	dirtySet *intintmap.Map

	entities map[int64]BlockEntity
}

// NewChunk returns an empty chunk at the given chunk coordinates.
func NewChunk(x, z int32) *Chunk {
	return &Chunk{
		X: x, Z: z,
		dirtySet: intintmap.New(64, 0.6),
		entities: make(map[int64]BlockEntity),
	}
}

func sectionIndex(x, y, z uint8) (section int, idx int) {
	section = int(y) / chunkWidth
	ly := int(y) % chunkWidth
	idx = (int(x) << 8) | (ly << 4) | int(z)
	return
}

func packLocal(x, y, z uint8) int64 {
	return int64(x) | int64(y)<<8 | int64(z)<<24
}

func dirtyKey(x, y, z uint8) int64 {
	return int64(fnv1a.HashUint64(uint64(packLocal(x, y, z))))
}

// SetBlock writes the block at local (x, y, z) within the chunk and returns
// whether the stored id changed. Callers must have already bounds-checked y
// against the world height.
func (c *Chunk) SetBlock(x, y, z uint8, state BlockState) bool {
	section, idx := sectionIndex(x, y, z)
	if c.sections[section][idx] == state {
		return false
	}
	c.sections[section][idx] = state
	key := dirtyKey(x, y, z)
	if _, ok := c.dirtySet.Get(key); !ok {
		c.dirtySet.Put(key, 1)
		c.dirty = append(c.dirty, packedBlockChange{LocalX: x, LocalY: y, LocalZ: z, State: state})
	} else {
		// Already dirty this flush interval: keep the dirty list's entry fresh
		// with the latest state so clients see the final value, not an
		// intermediate one.
		for i := range c.dirty {
			if c.dirty[i].LocalX == x && c.dirty[i].LocalY == y && c.dirty[i].LocalZ == z {
				c.dirty[i].State = state
				break
			}
		}
	}
	return true
}

// GetBlock reads the block at local (x, y, z).
func (c *Chunk) GetBlock(x, y, z uint8) BlockState {
	section, idx := sectionIndex(x, y, z)
	return c.sections[section][idx]
}

// SetBlockEntity associates a block entity with local (x, y, z).
func (c *Chunk) SetBlockEntity(x, y, z uint8, entity BlockEntity) {
	c.entities[packLocal(x, y, z)] = entity
}

// GetBlockEntity returns the block entity at local (x, y, z), if any.
func (c *Chunk) GetBlockEntity(x, y, z uint8) (BlockEntity, bool) {
	e, ok := c.entities[packLocal(x, y, z)]
	return e, ok
}

// DeleteBlockEntity removes the block entity at local (x, y, z).
func (c *Chunk) DeleteBlockEntity(x, y, z uint8) {
	delete(c.entities, packLocal(x, y, z))
}

// DirtyBlockChanges returns the chunk's accumulated dirty list since the last
// reset, satisfying P2 (the set of blocks changed since the previous flush).
func (c *Chunk) DirtyBlockChanges() []packedBlockChange {
	return c.dirty
}

// ResetDirty empties the chunk's dirty list, implementing I4.
func (c *Chunk) ResetDirty() {
	c.dirty = nil
	c.dirtySet = intintmap.New(64, 0.6)
}

// Sections exposes the raw section storage for persistence.
func (c *Chunk) Sections() *[PlotSections][sectionBlocks]BlockState {
	return &c.sections
}

// Clone returns an independent copy of c: a backend builder goroutine reads
// the clone while the plot worker keeps ticking the original concurrently.
func (c *Chunk) Clone() *Chunk {
	clone := &Chunk{
		X: c.X, Z: c.Z,
		sections: c.sections, // array value, copies the whole block grid
		dirtySet: intintmap.New(64, 0.6),
		entities: make(map[int64]BlockEntity, len(c.entities)),
	}
	if len(c.dirty) > 0 {
		clone.dirty = append([]packedBlockChange(nil), c.dirty...)
		for _, ch := range clone.dirty {
			clone.dirtySet.Put(dirtyKey(ch.LocalX, ch.LocalY, ch.LocalZ), 1)
		}
	}
	for k, v := range c.entities {
		clone.entities[k] = v
	}
	return clone
}
