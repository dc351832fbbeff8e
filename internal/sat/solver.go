package sat

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-sat/cdcl/internal/proofio"
)

// SolveState records what the solver last concluded, gating the
// preconditions on Value/Failed from spec.md section 6's API table.
type SolveState int8

const (
	StateIdle SolveState = iota
	StateSat
	StateUnsat
	StateUnknown
)

// Stats holds the search statistics spec.md section 4.2/4.6 refers to.
// It is exported read-only through Solver.Stats so internal/metrics can
// wrap it without internal/sat importing Prometheus.
type Stats struct {
	Conflicts     int64
	Decisions     int64
	Propagations  int64
	Inspections   int64 // clauses loaded by propagateClause during BCP (blocker hits excluded)
	Restarts      int64
	Iterations    int64
	LearntClauses int64
}

// Solver is a CDCL SAT solver: clause arena, watched-literal propagation,
// first-UIP conflict analysis, EMA/Luby restarts, tiered learnt-clause
// retention, inprocessing, an optional SLS phase-seeding pass, and DRUP/DRAT
// proof emission, sequenced exactly per spec.md section 2's data flow.
type Solver struct {
	opts       Options
	nullLogger *logrus.Logger

	arena       *Arena
	constraints []ClauseRef
	learnts     []ClauseRef

	// Per-variable state (spec.md section 3, "Variable").
	varReason  []ClauseRef
	varLevel   []int
	frozen     []bool
	eliminated []bool

	watchers [][]Watcher
	assigns  []LBool // indexed by Literal

	trail     *Trail
	propQueue *Queue[Literal]

	clauseInc   float64
	clauseDecay float64

	order *VarOrder

	unsat bool

	assumptions   []Literal
	failedLiteral map[Literal]bool

	Models [][]bool

	seenVar     *ResetSet
	tmpWatchers []Watcher
	tmpLearnts  []Literal
	tmpReason   []Literal

	stats     Stats
	startTime time.Time

	restart *restartController

	nextReduceAt   int64
	reduceInc      int64
	lastCoreLearnt int64 // conflict count at which a Core clause was last learnt, for the SLS stall trigger

	// lastUsed[ref] is the conflict count as of the last time ref was a
	// reason clause (see enqueue's bump in this file), keyed per learnt
	// clause so reduce.go's Tier-2 demotion can track genuine staleness
	// instead of a solver-wide signal. Rewritten wholesale by compaction.
	lastUsed map[ClauseRef]int64

	proofWriter  *proofio.Writer
	proofChecker *proofio.Checker

	termCB      TerminateFunc
	learnCB     LearnFunc
	learnMaxLen int

	elim *inprocessor

	state      SolveState
	disposed   bool
	lastErr    error
	terminated bool
}

// NewSolver returns a solver configured from opts.
func NewSolver(opts Options) *Solver {
	s := &Solver{
		opts:        opts,
		nullLogger:  newNullLogger(),
		arena:       NewArena(opts.MaxArenaWords),
		clauseInc:   1,
		clauseDecay: opts.ClauseDecay,
		order:       NewVarOrder(opts),
		trail:       newTrail(),
		propQueue:   NewQueue[Literal](128),
		seenVar:     &ResetSet{},
		failedLiteral: map[Literal]bool{},
		lastUsed:    map[ClauseRef]int64{},
	}
	s.restart = newRestartController(opts)
	s.nextReduceAt = opts.ReduceFirst
	s.reduceInc = opts.ReduceInc
	s.elim = newInprocessor(s)

	return s
}

// NewDefaultSolver returns a solver configured with DefaultOptions,
// equivalent to NewSolver(DefaultOptions).
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// WithProofWriter attaches a proof sink and, if Options.ProofCheckEnabled
// is set, an independent checker seeded with the clauses added so far (the
// stored original clauses plus the root-level units). Call it after the
// original clauses are added if the checker is to see the original problem;
// clauses added later are written to the proof but not given to the checker.
func (s *Solver) WithProofWriter(w *proofio.Writer) *Solver {
	s.proofWriter = w
	if s.opts.ProofCheckEnabled {
		var original [][]int32
		for _, ref := range s.constraints {
			original = append(original, s.toDimacs(s.arena.literalsOf(ref)))
		}
		root := s.trail.Len()
		if s.decisionLevel() > 0 {
			root = s.trail.LevelStart(1)
		}
		for i := 0; i < root; i++ {
			original = append(original, s.toDimacs([]Literal{s.trail.At(i)}))
		}
		s.proofChecker = proofio.NewChecker(original)
	}
	return s
}

// Stats returns a snapshot of the solver's search statistics.
func (s *Solver) Stats() Stats { return s.stats }

func (s *Solver) Conflicts() int64     { return s.stats.Conflicts }
func (s *Solver) Decisions() int64     { return s.stats.Decisions }
func (s *Solver) Propagations() int64  { return s.stats.Propagations }
func (s *Solver) Restarts() int64      { return s.stats.Restarts }
func (s *Solver) LearntClauses() int64 { return int64(len(s.learnts)) }

// LastError returns the error (if any) that caused the most recent Solve
// call to return early: ErrArenaExhausted (returned as is) or
// ErrProofCheckFailed (wrapped with the text of the checker's
// *proofio.CheckError), so errors.Is against either sentinel works.
func (s *Solver) LastError() error { return s.lastErr }

func (s *Solver) NumVariables() int     { return len(s.varLevel) }
func (s *Solver) NumAssigns() int       { return s.trail.Len() }
func (s *Solver) NumConstraints() int   { return len(s.constraints) }
func (s *Solver) NumLearnts() int       { return len(s.learnts) }
func (s *Solver) decisionLevel() int    { return s.trail.DecisionLevel() }

// liveConstraints counts original clauses not marked deleted, unlike
// NumConstraints, which also counts deleted entries of s.constraints until
// the next compaction drops them.
func (s *Solver) liveConstraints() int {
	n := 0
	for _, ref := range s.constraints {
		if !s.arena.isDeleted(ref) {
			n++
		}
	}
	return n
}

// VarValue returns the current value of variable x.
func (s *Solver) VarValue(x int) LBool { return s.assigns[PositiveLiteral(x)] }

// LitValue returns the current value of literal l.
func (s *Solver) LitValue(l Literal) LBool { return s.assigns[l] }

func (s *Solver) toDimacs(lits []Literal) []int32 {
	out := make([]int32, len(lits))
	for i, l := range lits {
		v := int32(l.VarID()) + 1
		if l.IsPositive() {
			out[i] = v
		} else {
			out[i] = -v
		}
	}
	return out
}

// newVar allocates a fresh variable and returns its ID.
func (s *Solver) newVar() int {
	id := s.NumVariables()
	s.watchers = append(s.watchers, nil, nil) // one list per literal polarity
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.varLevel = append(s.varLevel, -1)
	s.varReason = append(s.varReason, RefUndef)
	s.frozen = append(s.frozen, false)
	s.eliminated = append(s.eliminated, false)
	s.seenVar.Expand()
	s.order.NewVar()
	return id
}

// enqueue records l as true, with from as its reason (RefUndef for a
// decision or an original unit). Returns false if l was already false
// (a conflicting assignment); true otherwise, including when l was
// already true.
func (s *Solver) enqueue(l Literal, from ClauseRef) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		v := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.varLevel[v] = s.decisionLevel()
		s.varReason[v] = from
		if from != RefUndef {
			s.lastUsed[from] = s.stats.Conflicts
		}
		s.trail.Push(l)
		s.propQueue.Push(l)
		return true
	}
}

// assume opens a new decision level and enqueues l as a decision.
func (s *Solver) assume(l Literal) bool {
	s.trail.NewDecisionLevel()
	return s.enqueue(l, RefUndef)
}

func (s *Solver) undoOne(l Literal) {
	v := l.VarID()
	s.order.Reinsert(v, s.assigns[l], s.stats.Conflicts)
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.varReason[v] = RefUndef
	s.varLevel[v] = -1
}

// cancelUntil backtracks to level, undoing every assignment made above it
// and caching the undone literals for possible trail-saving replay.
func (s *Solver) cancelUntil(level int) {
	if s.decisionLevel() <= level {
		return
	}
	popped := s.trail.Truncate(level, func(l Literal) ClauseRef { return s.varReason[l.VarID()] })
	for _, l := range popped {
		s.undoOne(l)
	}
}

// replaySaved attempts to re-enqueue literals undone by the last
// backtrack without running BCP for them, per spec.md section 4.4's
// "trail saving". A saved entry is safe to replay only if its reason
// clause still forces it: the clause's first literal must be this literal
// and every other literal in the clause must currently be false. Any
// candidate that doesn't meet that bar is simply dropped; normal
// propagation will pick it up again if it is still forced.
func (s *Solver) replaySaved() {
	for _, sa := range s.trail.TakeReplayCandidates() {
		if s.LitValue(sa.lit) != Unknown {
			continue
		}
		if sa.reason == RefUndef {
			continue // was a decision; never safe to replay without deciding again
		}
		if s.arena.isDeleted(sa.reason) {
			continue
		}
		lits := s.arena.literalsOf(sa.reason)
		if len(lits) == 0 || lits[0] != sa.lit {
			continue
		}
		forced := true
		for _, other := range lits[1:] {
			if s.LitValue(other) != False {
				forced = false
				break
			}
		}
		if forced {
			s.enqueue(sa.lit, sa.reason)
		}
	}
}

// SetTerminate registers the cooperative cancellation hook (spec.md
// section 5). Go closures make the IPASIR-style separate "state" argument
// unnecessary: capture whatever state the callback needs in the closure.
func (s *Solver) SetTerminate(cb TerminateFunc) { s.termCB = cb }

// SetLearn registers the learnt-clause export hook (spec.md section 5).
// Clauses longer than maxLen are not reported.
func (s *Solver) SetLearn(cb LearnFunc, maxLen int) {
	s.learnCB = cb
	s.learnMaxLen = maxLen
}

func (s *Solver) shouldTerminate() bool {
	if s.termCB != nil && s.termCB() {
		s.terminated = true
		return true
	}
	if s.opts.MaxConflicts >= 0 && s.stats.Conflicts >= s.opts.MaxConflicts {
		return true
	}
	if s.opts.Timeout >= 0 && time.Since(s.startTime) >= s.opts.Timeout {
		return true
	}
	return false
}
