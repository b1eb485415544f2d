package world

import "testing"

func TestChunkSetBlockReportsChange(t *testing.T) {
	c := NewChunk(0, 0)
	changed := c.SetBlock(1, 2, 3, BlockState(42))
	if !changed {
		t.Fatalf("expected first write to report a change")
	}
	if got := c.GetBlock(1, 2, 3); got != BlockState(42) {
		t.Fatalf("GetBlock = %v, want 42", got)
	}
	if changed := c.SetBlock(1, 2, 3, BlockState(42)); changed {
		t.Fatalf("expected writing the same state again to report no change")
	}
}

func TestChunkDirtyListCoalescesRepeatedWrites(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(0, 0, 0, BlockState(1))
	c.SetBlock(0, 0, 0, BlockState(2))
	c.SetBlock(0, 0, 0, BlockState(3))

	changes := c.DirtyBlockChanges()
	if len(changes) != 1 {
		t.Fatalf("expected one coalesced dirty entry, got %d", len(changes))
	}
	if changes[0].State != BlockState(3) {
		t.Fatalf("expected the dirty entry to carry the latest state, got %v", changes[0].State)
	}
}

func TestChunkResetDirtyClearsList(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(0, 0, 0, BlockState(1))
	c.ResetDirty()
	if len(c.DirtyBlockChanges()) != 0 {
		t.Fatalf("expected dirty list empty after reset")
	}
	// A block already at its current state should not become dirty again
	// merely because the dirty set was reset.
	if changed := c.SetBlock(0, 0, 0, BlockState(1)); changed {
		t.Fatalf("expected no-op write to report no change even across a dirty reset")
	}
	if len(c.DirtyBlockChanges()) != 0 {
		t.Fatalf("expected dirty list to stay empty for a no-op write")
	}
}

func TestChunkBlockEntityLifecycle(t *testing.T) {
	c := NewChunk(0, 0)
	if _, ok := c.GetBlockEntity(4, 5, 6); ok {
		t.Fatalf("expected no block entity before Set")
	}
	c.SetBlockEntity(4, 5, 6, map[string]string{"kind": "chest"})
	if _, ok := c.GetBlockEntity(4, 5, 6); !ok {
		t.Fatalf("expected block entity after Set")
	}
	c.DeleteBlockEntity(4, 5, 6)
	if _, ok := c.GetBlockEntity(4, 5, 6); ok {
		t.Fatalf("expected block entity gone after Delete")
	}
}
