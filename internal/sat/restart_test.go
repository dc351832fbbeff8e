package sat

import "testing"

func TestEMA_FirstSampleSeedsValue(t *testing.T) {
	e := newEMA(0.5)
	e.add(10)

	if got, want := e.val(), 10.0; got != want {
		t.Errorf("val() after first sample = %v, want %v", got, want)
	}
}

func TestEMA_SubsequentSamplesAreWeighted(t *testing.T) {
	e := newEMA(0.5)
	e.add(10)
	e.add(0)

	if got, want := e.val(), 5.0; got != want {
		t.Errorf("val() = %v, want %v", got, want)
	}
}

func TestLuby(t *testing.T) {
	// The canonical Luby sequence, 1-indexed: 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8.
	want := []int64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		if got := luby(int64(i + 1)); got != w {
			t.Errorf("luby(%d) = %d, want %d", i+1, got, w)
		}
	}
}

func TestRestartController_LubyFallbackGatesOnThreshold(t *testing.T) {
	opts := DefaultOptions
	opts.LubyUnit = 2
	opts.LubyFallbackConflicts = 1000
	r := newRestartController(opts)

	r.OnConflict(2, 0)
	if r.ShouldRestart(1, 0) {
		t.Errorf("ShouldRestart() = true before the first Luby threshold (2) is reached")
	}

	r.OnConflict(2, 0)
	if !r.ShouldRestart(2, 0) {
		t.Errorf("ShouldRestart() = false once conflictsSinceRestart reaches the first Luby threshold")
	}
}

func TestRestartController_EMASchemeTriggersOnLBDSpike(t *testing.T) {
	opts := DefaultOptions
	opts.LubyFallbackConflicts = 0 // go straight to the EMA scheme
	opts.RestartFastSlowK = 0.8
	opts.RestartBlockFloor = 0
	r := newRestartController(opts)

	// Settle the slow average at a low LBD.
	for i := 0; i < 200; i++ {
		r.OnConflict(2, 10)
	}
	if r.ShouldRestart(200, 10) {
		t.Errorf("ShouldRestart() = true with fast/slow LBD stable, want false")
	}

	// A burst of high-LBD conflicts should push fast above k*slow.
	for i := 0; i < 10; i++ {
		r.OnConflict(50, 10)
	}
	if !r.ShouldRestart(210, 10) {
		t.Errorf("ShouldRestart() = false after an LBD spike, want true")
	}
}

func TestRestartController_BlocksRestartOnLargeTrail(t *testing.T) {
	opts := DefaultOptions
	opts.LubyFallbackConflicts = 0
	opts.RestartBlockFactor = 1.1
	opts.RestartBlockFloor = 0
	r := newRestartController(opts)

	for i := 0; i < 200; i++ {
		r.OnConflict(2, 10)
	}
	for i := 0; i < 10; i++ {
		r.OnConflict(50, 10)
	}

	// Same LBD spike as above, but now report a much larger trail: the
	// block condition should suppress the restart.
	if r.ShouldRestart(210, 1000) {
		t.Errorf("ShouldRestart() = true despite an unusually large trail, want blocked")
	}
}

func TestRestartController_ResetClearsConflictCounter(t *testing.T) {
	opts := DefaultOptions
	opts.LubyUnit = 1
	opts.LubyFallbackConflicts = 1000
	r := newRestartController(opts)

	r.OnConflict(2, 0)
	if !r.ShouldRestart(1, 0) {
		t.Fatalf("setup: ShouldRestart() = false, want true")
	}
	r.Reset()

	if got, want := r.conflictsSinceRestart, int64(0); got != want {
		t.Errorf("conflictsSinceRestart after Reset() = %d, want %d", got, want)
	}
}
