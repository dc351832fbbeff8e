package sat

import "testing"

// addLearnt allocates a learnt clause of width >= 2 (so newClause attaches
// it rather than enqueuing a unit), appends it to s.learnts, and stamps its
// LBD/tier/activity for the test to control.
func addLearnt(t *testing.T, s *Solver, lits []Literal, lbd int, activity float64) ClauseRef {
	t.Helper()
	ref, ok, err := s.newClause(append([]Literal(nil), lits...), true)
	if err != nil || !ok || ref == RefUndef {
		t.Fatalf("newClause(learnt): ref=%v ok=%v err=%v", ref, ok, err)
	}
	s.assignTier(ref, lbd)
	s.arena.setActivity(ref, activity)
	s.learnts = append(s.learnts, ref)
	return ref
}

func TestReduceDB_CoreNeverDropped(t *testing.T) {
	s := newTestSolver()
	for i := 0; i < 6; i++ {
		s.NewVar()
	}

	core := addLearnt(t, s, []Literal{PositiveLiteral(0), PositiveLiteral(1)}, s.opts.CoreLBDBound, 0)

	s.reduceDB()

	found := false
	for _, ref := range s.learnts {
		if ref == core {
			found = true
		}
	}
	if !found {
		t.Errorf("reduceDB() dropped a Core clause, want it retained")
	}
}

func TestReduceDB_DropsWorseHalfOfLocalTier(t *testing.T) {
	s := newTestSolver()
	for i := 0; i < 10; i++ {
		s.NewVar()
	}

	localLBD := s.opts.Tier2LBDBound + 1
	var refs []ClauseRef
	for i := 0; i < 4; i++ {
		lits := []Literal{PositiveLiteral(2 * i), PositiveLiteral(2*i + 1)}
		// Higher i => higher LBD => worse => should be dropped first.
		refs = append(refs, addLearnt(t, s, lits, localLBD+i, 0))
	}

	s.reduceDB()

	remaining := map[ClauseRef]bool{}
	for _, ref := range s.learnts {
		remaining[ref] = true
	}

	if remaining[refs[2]] || remaining[refs[3]] {
		t.Errorf("reduceDB() kept the two worst (highest-LBD) Local clauses, want them dropped")
	}
	if !remaining[refs[0]] || !remaining[refs[1]] {
		t.Errorf("reduceDB() dropped a better (lower-LBD) Local clause")
	}
}

func TestReduceDB_SkipsLockedClause(t *testing.T) {
	s := newTestSolver()
	for i := 0; i < 4; i++ {
		s.NewVar()
	}

	localLBD := s.opts.Tier2LBDBound + 1
	lits := []Literal{PositiveLiteral(0), PositiveLiteral(1)}
	ref := addLearnt(t, s, lits, localLBD+5, 0) // worst LBD, would sort first

	// A second Local clause with a better LBD, so dropTarget (1 of 2) would
	// otherwise land on ref.
	addLearnt(t, s, []Literal{PositiveLiteral(2), PositiveLiteral(3)}, localLBD, 0)

	// Make ref the reason for its first watched literal, as it would be if
	// it is currently propagating the trail.
	s.varReason[lits[0].VarID()] = ref

	s.reduceDB()

	found := false
	for _, r := range s.learnts {
		if r == ref {
			found = true
		}
	}
	if !found {
		t.Errorf("reduceDB() dropped a locked clause, want it retained regardless of LBD")
	}
}

func TestReduceDB_ReschedulesNextReduction(t *testing.T) {
	s := newTestSolver()
	before := s.nextReduceAt
	s.stats.Conflicts = before

	s.reduceDB()

	if s.nextReduceAt <= before {
		t.Errorf("nextReduceAt after reduceDB() = %d, want > %d", s.nextReduceAt, before)
	}
}

func TestMaybeReduce_TriggersAtThreshold(t *testing.T) {
	s := newTestSolver()
	for i := 0; i < 4; i++ {
		s.NewVar()
	}
	localLBD := s.opts.Tier2LBDBound + 1
	addLearnt(t, s, []Literal{PositiveLiteral(0), PositiveLiteral(1)}, localLBD, 0)
	addLearnt(t, s, []Literal{PositiveLiteral(2), PositiveLiteral(3)}, localLBD+1, 0)

	s.nextReduceAt = 0
	s.stats.Conflicts = 0

	before := len(s.learnts)
	s.maybeReduce()

	if len(s.learnts) >= before {
		t.Errorf("maybeReduce() at threshold did not reduce: before=%d after=%d", before, len(s.learnts))
	}
}
