package world

import "testing"

func TestTickQueuePopDueOrdersByTicksLeftThenPriority(t *testing.T) {
	var q TickQueue
	q.Schedule(BlockPos{X: 1}, 0, PriorityLow)
	q.Schedule(BlockPos{X: 2}, 0, PriorityHigh)
	q.Schedule(BlockPos{X: 3}, 2, PriorityHigh)

	var fired []BlockPos
	q.PopDue(func(pt PendingTick) { fired = append(fired, pt.Pos) })

	if len(fired) != 2 {
		t.Fatalf("expected 2 due entries on first pop, got %d", len(fired))
	}
	if fired[0].X != 2 || fired[1].X != 1 {
		t.Fatalf("expected high priority before low priority at the same ticks_left, got %v", fired)
	}
	if q.Len() != 1 {
		t.Fatalf("expected one entry left in the queue, got %d", q.Len())
	}

	fired = nil
	q.PopDue(func(pt PendingTick) { fired = append(fired, pt.Pos) })
	if len(fired) != 1 || fired[0].X != 3 {
		t.Fatalf("expected entry 3 due on second pop, got %v", fired)
	}
}

func TestTickQueuePendingAt(t *testing.T) {
	var q TickQueue
	pos := BlockPos{X: 5, Y: 5, Z: 5}
	if q.PendingAt(pos) {
		t.Fatalf("expected no pending tick before scheduling")
	}
	q.Schedule(pos, 10, PriorityNormal)
	if !q.PendingAt(pos) {
		t.Fatalf("expected pending tick after scheduling")
	}
}

func TestTickQueueDrainAndRestore(t *testing.T) {
	var q TickQueue
	q.Schedule(BlockPos{X: 1}, 3, PriorityNormal)
	q.Schedule(BlockPos{X: 2}, 4, PriorityNormal)

	drained := q.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained entries, got %d", len(drained))
	}
	if q.Len() != 0 {
		t.Fatalf("expected queue empty after drain, got %d", q.Len())
	}

	var q2 TickQueue
	q2.Restore(drained)
	if q2.Len() != 2 {
		t.Fatalf("expected 2 entries after restore, got %d", q2.Len())
	}
}

func TestTickQueueDuplicatesArePermitted(t *testing.T) {
	var q TickQueue
	pos := BlockPos{X: 1, Y: 1, Z: 1}
	q.Schedule(pos, 0, PriorityNormal)
	q.Schedule(pos, 0, PriorityNormal)

	var fireCount int
	q.PopDue(func(PendingTick) { fireCount++ })
	if fireCount != 2 {
		t.Fatalf("expected both duplicate entries to fire, got %d", fireCount)
	}
}
