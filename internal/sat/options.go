package sat

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PolarityMode selects the default polarity used for a variable that has
// never been assigned before (no saved phase yet).
type PolarityMode int8

const (
	PolarityFalse PolarityMode = iota
	PolarityTrue
	PolarityRandom
)

// TerminateFunc is the cooperative-cancellation hook from spec.md section 5.
// It is polled at the top of the conflict-analysis loop and between
// restarts; a non-zero (true) return unwinds the search to level 0 and
// Solve returns Unknown.
type TerminateFunc func() bool

// LearnFunc is the learnt-clause export hook from spec.md section 5. It
// fires immediately after a new learnt clause has been minimized. Clauses
// longer than the registered max length are not reported.
type LearnFunc func(clause []Literal)

// Options configures every tunable named in spec.md. All durations/counts
// default to the teacher's (and, where the teacher is silent, the
// design notes') documented defaults.
type Options struct {
	// Clause/variable activity bookkeeping (spec.md section 4.5).
	ClauseDecay   float64
	VariableDecay float64

	// Polarity saving (spec.md section 4.5).
	PhaseSaving  bool
	DefaultPhase PolarityMode

	// DistanceConflicts is the number of initial conflicts during which the
	// decision heuristic ranks variables by recent conflict-history count
	// ("distance") instead of activity (spec.md section 4.5).
	DistanceConflicts int64

	// Restart controller (spec.md section 4.6).
	RestartFastWindow   int     // conflicts, e.g. 50
	RestartSlowWindow   int     // conflicts, e.g. 10000
	RestartFastSlowK    float64 // trigger when fast*K > slow, e.g. K = 0.8
	RestartBlockFactor  float64 // trail EMA factor R, e.g. 1.4
	RestartBlockFloor   int64   // conflict-count floor, e.g. 10000
	LubyUnit            int64   // base unit of the Luby sequence
	LubyFallbackConflicts int64 // conflicts during which Luby overrides the EMA scheme

	// Learnt-clause tiers and reduction (spec.md section 4.3, 4.7).
	CoreLBDBound      int   // LBD <= this => Core tier
	Tier2LBDBound     int   // LBD <= this => Tier-2, else Local
	Tier2StaleConflicts int64 // conflicts unused as a reason before Tier-2 -> Local demotion
	ReduceFirst       int64 // conflicts before first reduction
	ReduceInc         int64 // conflicts added to the reduction period each time

	// CompactThreshold is the wasted/total arena fraction (spec.md section
	// 4.1) that triggers a Relocate compaction pass.
	CompactThreshold float64

	// Chronological backtracking (spec.md section 4.3, design notes section 9).
	ChronoBacktracking bool
	ChronoThreshold    int // conflictLevel - (backtrackLevel+1) threshold

	// Inprocessing (spec.md section 4.8).
	InprocessingEnabled    bool
	InprocessingGrowthBound int // max resolvent-count growth allowed to eliminate a var

	// Stochastic local search helper (spec.md section 4.9).
	SLSEnabled     bool
	SLSStallWindow int64 // conflicts with no new Core clause before SLS kicks in
	SLSMaxFlips    int64
	SLSNoiseProb   float64 // probability of a purely random walk step

	// DRUP/DRAT proof emission and checking (spec.md section 4.10).
	ProofEnabled      bool
	ProofCheckEnabled bool
	ProofOutputPath   string

	// Resource limits.
	MaxArenaWords int // 0 means unbounded
	MaxConflicts  int64
	Timeout       time.Duration

	// Ambient stack.
	Logger *logrus.Logger
}

// DefaultOptions mirrors the teacher's DefaultOptions, extended with the
// defaults for every component the teacher did not have. Values without an
// obvious upstream precedent are documented in DESIGN.md under "Open
// Question decisions".
var DefaultOptions = Options{
	ClauseDecay:   0.999,
	VariableDecay: 0.95,
	PhaseSaving:   true,
	DefaultPhase:  PolarityFalse,

	DistanceConflicts: 50000,

	RestartFastWindow:     50,
	RestartSlowWindow:     10000,
	RestartFastSlowK:      0.8,
	RestartBlockFactor:    1.4,
	RestartBlockFloor:     10000,
	LubyUnit:              100,
	LubyFallbackConflicts: 5000,

	CoreLBDBound:        2,
	Tier2LBDBound:       6,
	Tier2StaleConflicts: 10000,
	ReduceFirst:         2000,
	ReduceInc:           300,
	CompactThreshold:    0.2,

	ChronoBacktracking: true,
	ChronoThreshold:    100,

	InprocessingEnabled:     true,
	InprocessingGrowthBound: 0,

	SLSEnabled:     false,
	SLSStallWindow: 50000,
	SLSMaxFlips:    1000000,
	SLSNoiseProb:   0.2,

	ProofEnabled:      false,
	ProofCheckEnabled: false,

	MaxArenaWords: 0,
	MaxConflicts:  -1,
	Timeout:       -1,
}
