package sat

import "math/rand"

// sls is a WalkSAT-style stochastic local search helper (spec.md
// section 4.9), grounded on original_source/minisat/utils/ccnr.{h,cc}:
// integer clause weights with periodic smoothing, and a small random-walk
// noise probability to escape plateaus. The weights are kept up to date
// but are not read when choosing a flip, and there is no
// configuration-checking move set: every variable of the chosen clause is
// eligible. It never decides satisfiability on its own; seedPhasesFromSLS
// copies run()'s final assignment into VarOrder's saved phases, on the
// theory that a locally-good assignment is a better starting polarity than
// the heuristic default.
type sls struct {
	s *Solver

	clauses  [][]Literal
	weight   []int64
	occurOf  [][]int // occurOf[v] = indices into clauses that mention v
	assign   []bool
	rng      *rand.Rand

	unsat     []int // indices of currently falsified clauses
	unsatPos  []int // unsatPos[clauseIdx] = position in unsat, or -1
}

func newSLS(s *Solver) *sls {
	return &sls{s: s, rng: rand.New(rand.NewSource(2))}
}

// snapshot copies the solver's current live original clauses (restricted to
// those not satisfied by a root-level assignment) into the SLS helper's own
// flat representation, entirely decoupled from the arena so flips never
// touch solver state mid-run.
func (w *sls) snapshot() bool {
	s := w.s
	n := s.NumVariables()
	if n == 0 {
		return false
	}

	w.clauses = w.clauses[:0]
	for _, ref := range s.constraints {
		if s.arena.isDeleted(ref) {
			continue
		}
		lits := s.arena.literalsOf(ref)
		satisfied := false
		var kept []Literal
		for _, l := range lits {
			switch s.LitValue(l) {
			case True:
				satisfied = true
			case Unknown:
				kept = append(kept, l)
			}
		}
		if satisfied || len(kept) == 0 {
			continue
		}
		w.clauses = append(w.clauses, kept)
	}
	if len(w.clauses) == 0 {
		return false
	}

	w.weight = make([]int64, len(w.clauses))
	for i := range w.weight {
		w.weight[i] = 1
	}
	w.occurOf = make([][]int, n)
	for ci, cl := range w.clauses {
		for _, l := range cl {
			v := l.VarID()
			w.occurOf[v] = append(w.occurOf[v], ci)
		}
	}

	w.assign = make([]bool, n)
	for v := range w.assign {
		w.assign[v] = w.rng.Intn(2) == 0
	}

	w.unsatPos = make([]int, len(w.clauses))
	for ci := range w.clauses {
		w.unsatPos[ci] = -1
	}
	w.unsat = w.unsat[:0]
	for ci, cl := range w.clauses {
		if !w.clauseTrue(cl) {
			w.markUnsat(ci)
		}
	}
	return true
}

func (w *sls) clauseTrue(cl []Literal) bool {
	for _, l := range cl {
		if w.assign[l.VarID()] == l.IsPositive() {
			return true
		}
	}
	return false
}

func (w *sls) markUnsat(ci int) {
	if w.unsatPos[ci] >= 0 {
		return
	}
	w.unsatPos[ci] = len(w.unsat)
	w.unsat = append(w.unsat, ci)
}

func (w *sls) markSat(ci int) {
	pos := w.unsatPos[ci]
	if pos < 0 {
		return
	}
	last := len(w.unsat) - 1
	w.unsat[pos] = w.unsat[last]
	w.unsatPos[w.unsat[pos]] = pos
	w.unsat = w.unsat[:last]
	w.unsatPos[ci] = -1
}

// flip toggles v and updates clause satisfaction/weight bookkeeping for
// every clause that mentions it.
func (w *sls) flip(v int) {
	w.assign[v] = !w.assign[v]
	for _, ci := range w.occurOf[v] {
		if w.clauseTrue(w.clauses[ci]) {
			w.markSat(ci)
		} else {
			w.markUnsat(ci)
		}
	}
}

// run executes up to maxFlips flip steps of WalkSAT: pick a random
// unsatisfied clause, then flip whichever of its variables yields the
// lowest unweighted break-count (number of currently satisfied clauses that
// would become unsatisfied), ties going to the earliest such variable in
// the clause, or with probability noiseProb flip the variable of a
// uniformly random literal of the clause instead.
// Returns true if it drove the snapshot to zero unsatisfied clauses.
func (w *sls) run(maxFlips int64, noiseProb float64) bool {
	if !w.snapshot() {
		return true // nothing to satisfy, e.g. every clause already fixed at root
	}

	for step := int64(0); step < maxFlips; step++ {
		if len(w.unsat) == 0 {
			return true
		}
		ci := w.unsat[w.rng.Intn(len(w.unsat))]
		cl := w.clauses[ci]

		if w.rng.Float64() < noiseProb {
			l := cl[w.rng.Intn(len(cl))]
			w.flip(l.VarID())
			continue
		}

		bestVar, bestBreak := -1, -1
		for _, l := range cl {
			v := l.VarID()
			b := w.breakCount(v)
			if bestVar == -1 || b < bestBreak {
				bestVar, bestBreak = v, b
			}
		}
		w.flip(bestVar)

		if step > 0 && step%10000 == 0 {
			w.smoothWeights()
		}
	}
	return len(w.unsat) == 0
}

// breakCount counts how many currently satisfied clauses mentioning v would
// become unsatisfied if v were flipped.
func (w *sls) breakCount(v int) int {
	count := 0
	w.assign[v] = !w.assign[v]
	for _, ci := range w.occurOf[v] {
		if !w.clauseTrue(w.clauses[ci]) {
			count++
		}
	}
	w.assign[v] = !w.assign[v]
	return count
}

// smoothWeights bumps the weight of every currently unsatisfied clause and
// decays every weight toward 1, the CCAnr smoothing step that keeps
// frequently-violated clauses from dominating the search forever.
func (w *sls) smoothWeights() {
	for _, ci := range w.unsat {
		w.weight[ci]++
	}
	for i, wt := range w.weight {
		if wt > 1 {
			w.weight[i] = wt - (wt-1)/20
		}
	}
}

// seedPhasesFromSLS runs the local search and writes its final variable
// assignment, whether or not it satisfies every clause, into VarOrder's
// saved phases of the unassigned variables so the next round of decisions
// starts from it.
// It only ever influences polarity, never directly asserts a value.
func (s *Solver) seedPhasesFromSLS() {
	w := newSLS(s)
	w.run(s.opts.SLSMaxFlips, s.opts.SLSNoiseProb)
	for v, val := range w.assign {
		if s.VarValue(v) != Unknown {
			continue
		}
		if val {
			s.order.Reinsert(v, True, s.stats.Conflicts)
		} else {
			s.order.Reinsert(v, False, s.stats.Conflicts)
		}
	}
}
