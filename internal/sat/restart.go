package sat

// ema is an exponential moving average, the same shape as the teacher's
// sat.EMA: a decay factor, a running value, and an init flag so the first
// sample seeds the average instead of being pulled toward zero.
type ema struct {
	decay float64
	value float64
	init  bool
}

func newEMA(decay float64) ema { return ema{decay: decay} }

func (e *ema) add(x float64) {
	if !e.init {
		e.init = true
		e.value = x
		return
	}
	e.value = e.decay*e.value + x*(1-e.decay)
}

func (e *ema) val() float64 { return e.value }

// restartController decides when to restart, per spec.md section 4.6: a
// Glucose-style dual EMA of learnt-clause LBD (a fast, short-window average
// crossing far enough above a slow, long-window average signals the search
// has wandered into an unproductive region) gated by a trail-size EMA that
// blocks a restart while the trail is unusually large (the current
// assignment looks informative, so throwing it away would waste it), with a
// Luby-sequence fallback used for the first LubyFallbackConflicts conflicts
// before the EMA scheme has enough samples to be meaningful.
type restartController struct {
	fastLBD ema
	slowLBD ema
	trail   ema

	k           float64
	blockFactor float64
	blockFloor  int64

	lubyUnit  int64
	lubyUntil int64
	lubyIdx   int64

	conflictsSinceRestart int64
}

func newRestartController(opts Options) *restartController {
	fastDecay := 1 - 1/float64(max1(opts.RestartFastWindow))
	slowDecay := 1 - 1/float64(max1(opts.RestartSlowWindow))
	return &restartController{
		fastLBD:     newEMA(fastDecay),
		slowLBD:     newEMA(slowDecay),
		trail:       newEMA(slowDecay),
		k:           opts.RestartFastSlowK,
		blockFactor: opts.RestartBlockFactor,
		blockFloor:  opts.RestartBlockFloor,
		lubyUnit:    opts.LubyUnit,
		lubyUntil:   opts.LubyFallbackConflicts,
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// luby returns the i-th term (1-indexed) of the Luby sequence
// 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8 ..., the standard restart-unit schedule.
func luby(i int64) int64 {
	for seq, size := int64(1), int64(1); ; seq, size = seq+1, 2*size+1 {
		if size >= i {
			if size == i {
				return int64(1) << uint(seq-1)
			}
			return luby(i - (size-1)/2)
		}
	}
}

// OnConflict records one conflict's LBD and current trail size, advancing
// both the EMA state and the Luby counter.
func (r *restartController) OnConflict(lbd int, trailSize int) {
	r.conflictsSinceRestart++
	r.fastLBD.add(float64(lbd))
	r.slowLBD.add(float64(lbd))
	r.trail.add(float64(trailSize))
}

// ShouldRestart reports whether the search should restart now, given the
// total conflict count (for the Luby-fallback window) and the current trail
// size (for restart blocking).
func (r *restartController) ShouldRestart(totalConflicts int64, trailSize int) bool {
	if totalConflicts < r.lubyUntil {
		return r.lubyRestart()
	}
	if !r.slowLBD.init {
		return false
	}
	if float64(trailSize) > r.trail.val()*r.blockFactor && totalConflicts > r.blockFloor {
		return false // current assignment looks unusually informative, don't discard it
	}
	return r.fastLBD.val()*r.k > r.slowLBD.val()
}

func (r *restartController) lubyRestart() bool {
	threshold := luby(r.lubyIdx+1) * r.lubyUnit
	if r.conflictsSinceRestart < threshold {
		return false
	}
	r.lubyIdx++
	return true
}

// Reset clears the per-run conflict counter after a restart actually
// happens (the Luby index is advanced by lubyRestart itself); the EMAs are
// left alone; they track search behavior across restarts, not within one run.
func (r *restartController) Reset() {
	r.conflictsSinceRestart = 0
}
