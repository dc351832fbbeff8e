package sat

// analyze implements first-UIP conflict analysis (spec.md section 4.3):
// walk the implication graph backward from the conflicting clause along the
// trail, resolving away every literal assigned at the current decision
// level except the single one that remains (the first Unique Implication
// Point), then minimize the result and compute its LBD and assertion level.
//
// It mirrors the teacher's Solver.analyze/explain pair, generalized to walk
// through Solver.explain (which itself dispatches on the arena-backed
// clause representation) instead of a raw *Clause.
func (s *Solver) analyze(confl ClauseRef) (learnt []Literal, backtrackLevel int, lbd int) {
	s.seenVar.Clear()

	learnt = append(s.tmpLearnts[:0], LitUndef) // slot 0 reserved for the UIP literal
	pathC := 0
	p := Literal(LitUndef)
	reason := confl
	index := s.trail.Len() - 1

	for {
		for _, q := range s.explain(reason, p) {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)
			s.order.BumpActivity(v)
			s.order.BumpDistance(v)
			if s.varLevel[v] >= s.decisionLevel() {
				pathC++
			} else if s.varLevel[v] > 0 {
				// explain returns q already negated relative to the reason
				// clause's own literal; negate back to recover the literal
				// that is actually false under the current assignment, the
				// form every literal in a learnt clause must take.
				learnt = append(learnt, q.Opposite())
			}
		}

		for !s.seenVar.Contains(s.trail.At(index).VarID()) {
			index--
		}
		p = s.trail.At(index)
		reason = s.varReason[p.VarID()]
		index--
		pathC--

		if pathC == 0 {
			break
		}
	}
	learnt[0] = p.Opposite()

	learnt = s.minimize(learnt)
	lbd = s.computeLBD(learnt)
	learnt = s.strengthenWithBinaryReasons(learnt)

	if len(learnt) == 1 {
		backtrackLevel = 0
	} else {
		maxI := 1
		maxLevel := s.varLevel[learnt[1].VarID()]
		for i := 2; i < len(learnt); i++ {
			if lvl := s.varLevel[learnt[i].VarID()]; lvl > maxLevel {
				maxLevel, maxI = lvl, i
			}
		}
		learnt[1], learnt[maxI] = learnt[maxI], learnt[1]
		backtrackLevel = maxLevel
	}

	s.tmpLearnts = learnt
	return learnt, backtrackLevel, lbd
}

// minimize drops every literal in learnt[1:] whose falsification is itself
// implied by other literals already in the clause (self-subsuming
// resolution): if every antecedent of l's assignment is already seen (in
// the clause or transitively redundant), l adds nothing and can be removed.
func (s *Solver) minimize(learnt []Literal) []Literal {
	out := learnt[:1]
	for _, l := range learnt[1:] {
		if s.varReason[l.VarID()] == RefUndef || !s.litRedundant(l) {
			out = append(out, l)
		}
	}
	return out
}

// strengthenWithBinaryReasons performs the binary-resolution pass spec.md
// section 4.3 asks for in addition to self-subsuming minimization: for
// every binary clause on the trail containing the asserting literal
// learnt[0] and some other literal w, learnt already implies w is false
// (it derives !w independently, or the search would not have reached this
// conflict), so resolving that binary clause against learnt on var(w)
// removes w's negation from learnt without weakening it. Such binary
// clauses are found directly off the watch list of !learnt[0], which by
// construction only lists clauses containing the literal learnt[0] itself.
func (s *Solver) strengthenWithBinaryReasons(learnt []Literal) []Literal {
	if len(learnt) < 3 {
		return learnt
	}

	present := make(map[Literal]bool, len(learnt)-1)
	for _, l := range learnt[1:] {
		present[l] = true
	}

	drop := map[Literal]bool{}
	for _, w := range s.watchers[learnt[0].Opposite()] {
		if s.arena.isDeleted(w.Clause) || s.arena.size(w.Clause) != 2 {
			continue
		}
		target := w.Blocker.Opposite()
		if present[target] {
			drop[target] = true
		}
	}
	if len(drop) == 0 {
		return learnt
	}

	out := learnt[:1]
	for _, l := range learnt[1:] {
		if !drop[l] {
			out = append(out, l)
		}
	}
	return out
}

// trueLiteralOf returns the literal of v currently holding True, the form
// explainAssign requires (its reason clause's first literal).
func (s *Solver) trueLiteralOf(v int) Literal {
	if s.assigns[PositiveLiteral(v)] == True {
		return PositiveLiteral(v)
	}
	return NegativeLiteral(v)
}

// litRedundant reports whether l (a literal of the clause being learnt,
// false under the current assignment) is redundant: true iff every
// antecedent of its assignment is either already part of the learnt clause
// or is itself redundant by the same test, explored via an explicit stack
// to avoid recursion depth tracking the implication graph's depth. explain
// always wants the true-polarity literal of a variable, so each frame is
// keyed by that, not by the learnt clause's (false) literal.
func (s *Solver) litRedundant(l Literal) bool {
	type frame struct {
		lits []Literal
		i    int
	}
	stack := []frame{}
	v0 := l.VarID()
	cur := frame{lits: s.explain(s.varReason[v0], s.trueLiteralOf(v0)), i: 0}

	for {
		if cur.i >= len(cur.lits) {
			if len(stack) == 0 {
				return true
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		q := cur.lits[cur.i]
		cur.i++
		v := q.VarID()

		if s.varLevel[v] == 0 || s.seenVar.Contains(v) {
			continue
		}
		if s.varReason[v] == RefUndef {
			return false
		}

		s.seenVar.Add(v)
		stack = append(stack, cur)
		cur = frame{lits: s.explain(s.varReason[v], s.trueLiteralOf(v)), i: 0}
	}
}

// computeLBD returns the number of distinct decision levels represented in
// learnt (spec.md section 4.3's "Literal Block Distance"), the metric the
// restart controller and tier-assignment logic both key on.
func (s *Solver) computeLBD(learnt []Literal) int {
	s.seenVar.Clear()
	count := 0
	for _, l := range learnt {
		lvl := s.varLevel[l.VarID()]
		if lvl == 0 {
			continue
		}
		if !s.seenVar.Contains(lvl) {
			s.seenVar.Add(lvl)
			count++
		}
	}
	return count
}
