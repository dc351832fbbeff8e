package sat

// savedAssignment is a cached entry of a literal that was undone by a
// backtrack, kept in case the next re-propagation would simply re-derive
// it. Replaying it directly skips a BCP pass for that literal; it is an
// optimization only — Solver.replaySaved re-validates an entry (its reason
// clause must still force it) before enqueueing it, so a stale or
// inapplicable saved entry can never
// cause an incorrect assignment, only a missed shortcut (spec.md
// section 4.4, "trail saving").
type savedAssignment struct {
	lit    Literal
	reason ClauseRef
}

// Trail is the ordered sequence of current assignments, partitioned by
// decision level through levelStart (spec.md section 3, "Trail").
type Trail struct {
	lits       []Literal
	levelStart []int // levelStart[i] is the trail index at which level i+1 begins

	saved []savedAssignment
}

func newTrail() *Trail {
	return &Trail{}
}

// DecisionLevel returns the current decision level (0 at the root).
func (t *Trail) DecisionLevel() int { return len(t.levelStart) }

// Len returns the number of literals currently on the trail.
func (t *Trail) Len() int { return len(t.lits) }

// At returns the i-th literal pushed onto the trail.
func (t *Trail) At(i int) Literal { return t.lits[i] }

// Push appends a newly assigned literal to the trail.
func (t *Trail) Push(l Literal) { t.lits = append(t.lits, l) }

// NewDecisionLevel opens a new decision level starting at the trail's
// current length.
func (t *Trail) NewDecisionLevel() { t.levelStart = append(t.levelStart, len(t.lits)) }

// LevelStart returns the trail index at which the given decision level
// (1-indexed the way DecisionLevel counts) begins.
func (t *Trail) LevelStart(level int) int { return t.levelStart[level-1] }

// Truncate pops every literal assigned at a decision level above target,
// caching each with the reason reported by reasonOf for possible replay,
// and returns the popped literals in the order they must
// be undone (most recent first), for the caller to unassign.
func (t *Trail) Truncate(target int, reasonOf func(Literal) ClauseRef) []Literal {
	if t.DecisionLevel() <= target {
		return nil
	}
	from := t.levelStart[target]
	popped := make([]Literal, len(t.lits)-from)
	copy(popped, t.lits[from:])

	for _, l := range popped {
		t.saved = append(t.saved, savedAssignment{lit: l, reason: reasonOf(l)})
	}
	if len(t.saved) > 4096 {
		// Bound the replay cache; it is a pure optimization, dropping the
		// oldest entries never affects correctness.
		t.saved = t.saved[len(t.saved)-4096:]
	}

	t.lits = t.lits[:from]
	t.levelStart = t.levelStart[:target]

	// Reverse popped so callers undo most-recently-assigned first, matching
	// the teacher's undoOne/cancel order.
	for i, j := 0, len(popped)-1; i < j; i, j = i+1, j-1 {
		popped[i], popped[j] = popped[j], popped[i]
	}
	return popped
}

// TakeReplayCandidates drains and returns the saved-assignment cache so the
// solver can attempt to replay them right after the backtrack that undid
// them, without running BCP for literals that would be re-derived
// identically.
func (t *Trail) TakeReplayCandidates() []savedAssignment {
	out := t.saved
	t.saved = nil
	return out
}
