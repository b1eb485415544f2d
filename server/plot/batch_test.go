package plot

import (
	"testing"
	"time"
)

func TestBatchSizePausedIsAlwaysZero(t *testing.T) {
	var tm timing
	now := time.Unix(0, 0)
	tm.reset(now)
	tm.lastNspt = 10 * time.Millisecond

	got := batchSize(&tm, now.Add(time.Second), Tps{Mode: TpsPaused}, 20)
	if got != 0 {
		t.Fatalf("batchSize in paused mode = %d, want 0", got)
	}
}

func TestBatchSizeUnlimitedUsesWorldSendRate(t *testing.T) {
	var tm timing
	now := time.Unix(0, 0)
	tm.reset(now)
	tm.lastNspt = 10 * time.Millisecond // 100 ticks/sec worth of headroom

	got := batchSize(&tm, now.Add(time.Second), Tps{Mode: TpsUnlimited}, 20)
	// wsrPeriod = 50ms, lastNspt = 10ms -> maxBatchSize = 5
	if got != 5 {
		t.Fatalf("batchSize in unlimited mode = %d, want 5", got)
	}
}

func TestBatchSizeLimitedAccumulatesLag(t *testing.T) {
	var tm timing
	now := time.Unix(0, 0)
	tm.reset(now)
	tm.lastNspt = time.Millisecond // headroom far above tps.Limited, not the binding constraint

	tps := Tps{Mode: TpsLimited, Limited: 20} // one tick every 50ms
	got := batchSize(&tm, now.Add(125*time.Millisecond), tps, 20)
	if got != 2 {
		t.Fatalf("batchSize after 125ms at 20 tps = %d, want 2", got)
	}
	// The remaining 25ms of lag should carry over: another 25ms elapsing
	// should now produce exactly one more tick.
	got = batchSize(&tm, now.Add(150*time.Millisecond), tps, 20)
	if got != 1 {
		t.Fatalf("batchSize after the next 25ms = %d, want 1", got)
	}
}

func TestBatchSizeLimitedZeroIsPaused(t *testing.T) {
	var tm timing
	now := time.Unix(0, 0)
	tm.reset(now)
	got := batchSize(&tm, now.Add(time.Second), Tps{Mode: TpsLimited, Limited: 0}, 20)
	if got != 0 {
		t.Fatalf("batchSize with Limited=0 = %d, want 0", got)
	}
}

func TestBatchSizeRespectsHardCap(t *testing.T) {
	var tm timing
	now := time.Unix(0, 0)
	tm.reset(now)
	tm.lastNspt = time.Nanosecond // effectively unlimited headroom

	got := batchSize(&tm, now.Add(time.Hour), Tps{Mode: TpsUnlimited}, 20)
	if got != maxBatchCap {
		t.Fatalf("batchSize = %d, want the hard cap %d", got, maxBatchCap)
	}
}
