package plot

import "time"

// maxBatchCap is the hard ceiling on how many ticks a single iteration may run,
// regardless of mode or lag (§4.2.2).
const maxBatchCap = 50_000

// timing tracks the pacing state the batch-size algorithm carries between
// iterations.
type timing struct {
	lastUpdate time.Time
	lagTime    time.Duration
	lastNspt   time.Duration
}

// reset clears accumulated lag and the last-observed tick cost, used when a
// backend is started, installed or reset, so that the gap in simulation is not
// misread as lag (§4.2.5).
func (t *timing) reset(now time.Time) {
	t.lastUpdate = now
	t.lagTime = 0
	t.lastNspt = 0
}

// batchSize computes how many interpreter ticks to run this iteration, per the
// algorithm of §4.2.2. worldSendRate is in Hz.
func batchSize(t *timing, now time.Time, tps Tps, worldSendRate uint32) (batch uint32) {
	dt := now.Sub(t.lastUpdate)
	t.lastUpdate = now

	wsrPeriod := time.Second
	if worldSendRate > 0 {
		wsrPeriod = time.Second / time.Duration(worldSendRate)
	}

	maxBatchSize := uint32(1)
	if t.lastNspt > 0 {
		if v := uint32(wsrPeriod / t.lastNspt); v > 1 {
			maxBatchSize = v
		}
	}

	switch tps.Mode {
	case TpsPaused:
		batch = 0
	case TpsUnlimited:
		batch = maxBatchSize
	default: // TpsLimited
		if tps.Limited == 0 {
			batch = 0
			break
		}
		durPerTick := time.Second / time.Duration(tps.Limited)
		t.lagTime += dt
		n := uint32(t.lagTime / durPerTick)
		t.lagTime -= durPerTick * time.Duration(n)
		if n > maxBatchSize {
			n = maxBatchSize
		}
		batch = n
	}

	if batch > maxBatchCap {
		batch = maxBatchCap
	}
	return batch
}

// interpBudget is the wall-clock budget an interpreter-tick burst may spend
// before it breaks early to keep the client responsive (§4.2.2).
const interpBudget = 200 * time.Millisecond
