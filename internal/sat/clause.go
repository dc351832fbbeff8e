package sat

import "strings"

// newClause materializes a clause into the arena and attaches its watches.
// It mirrors spec.md section 3's clause invariants: original clauses are
// deduplicated and checked for a satisfied/tautological shortcut; unit
// clauses (original or learnt) are never attached, they are enqueued
// directly; the first two literals of an attached clause are always the
// watched pair, and for a learnt clause the second watch is placed on the
// literal assigned at the highest decision level so that backtracking to
// the clause's assertion level keeps both watches valid immediately.
//
// Returns (ref, ok, err). ok is false iff the clause made the formula
// trivially UNSAT (an empty clause, or a conflicting unit). err is
// non-nil only on arena exhaustion.
func (s *Solver) newClause(tmpLiterals []Literal, learnt bool) (ClauseRef, bool, error) {
	size := len(tmpLiterals)

	if !learnt {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return RefUndef, true, nil // tautology: clause is always true
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return RefUndef, true, nil
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return RefUndef, false, nil
	case 1:
		return RefUndef, s.enqueue(tmpLiterals[0], RefUndef), nil
	default:
		ref, err := s.arena.Alloc(tmpLiterals, learnt)
		if err != nil {
			return RefUndef, false, err
		}

		lits := s.arena.literalsOf(ref)
		if learnt {
			maxLevel, wl := -1, 1
			for i, l := range lits {
				if lvl := s.varLevel[l.VarID()]; lvl > maxLevel {
					maxLevel, wl = lvl, i
				}
			}
			lits[wl], lits[1] = lits[1], lits[wl]
		}

		s.Watch(ref, lits[0].Opposite(), lits[1])
		s.Watch(ref, lits[1].Opposite(), lits[0])

		return ref, true, nil
	}
}

func (s *Solver) clauseLocked(ref ClauseRef) bool {
	lits := s.arena.literalsOf(ref)
	return s.varReason[lits[0].VarID()] == ref
}

// removeClause detaches ref's watches, frees its arena storage, and emits
// a proof DEL record. Every call site of removeClause corresponds to one
// of spec.md section 3's three deletion causes: reduction, subsumption, or
// elimination.
func (s *Solver) removeClause(ref ClauseRef) {
	lits := s.arena.literalsOf(ref)
	if s.proofWriter != nil {
		dimacs := s.toDimacs(lits)
		_ = s.proofWriter.Delete(dimacs)
		if s.proofChecker != nil {
			s.proofChecker.Delete(dimacs)
		}
	}
	s.Unwatch(ref, lits[0].Opposite())
	s.Unwatch(ref, lits[1].Opposite())
	s.arena.Free(ref)
}

// simplifyClause drops literals falsified at the root level, reporting
// true if the clause has become satisfied (and should be removed). The
// clause's extra activity/LBD words (if it is learnt) immediately follow
// its literals, so shrinking the literal count moves where those words
// belong; they are saved and rewritten at the new offset rather than left
// to be overwritten by the now out-of-bounds tail of the literal array.
func (s *Solver) simplifyClause(ref ClauseRef) bool {
	lits := s.arena.literalsOf(ref)
	learnt := s.arena.isLearnt(ref)
	var activity float64
	var lbd int
	if learnt {
		activity = s.arena.activity(ref)
		lbd = s.arena.lbd(ref)
	}

	j := 0
	for _, l := range lits {
		switch s.LitValue(l) {
		case True:
			return true
		case False:
			// drop
		default:
			lits[j] = l
			j++
		}
	}
	s.arena.setSize(ref, j)
	if learnt {
		s.arena.setActivity(ref, activity)
		s.arena.setLBD(ref, lbd)
	}
	return false
}

// propagateClause implements spec.md section 4.2's four-step watched
// literal procedure for the clause referenced by ref, triggered because l
// just became true, falsifying the clause's watched literal l.Opposite().
func (s *Solver) propagateClause(ref ClauseRef, l Literal) bool {
	s.stats.Inspections++
	lits := s.arena.literalsOf(ref)

	opp := l.Opposite()
	if lits[0] == opp {
		lits[0], lits[1] = lits[1], lits[0]
	}

	if s.LitValue(lits[0]) == True {
		s.Watch(ref, l, lits[0])
		return true
	}

	for i := 2; i < len(lits); i++ {
		if s.LitValue(lits[i]) != False {
			lits[1], lits[i] = lits[i], lits[1]
			s.Watch(ref, lits[1].Opposite(), lits[0])
			return true
		}
	}

	s.Watch(ref, l, lits[0])
	return s.enqueue(lits[0], ref)
}

// explainFailure returns the negation of every literal in the conflicting
// clause, bumping its activity if it is learnt (spec.md section 4.5's
// clause-activity bookkeeping mirrors variable-activity bookkeeping).
func (s *Solver) explainFailure(ref ClauseRef) []Literal {
	lits := s.arena.literalsOf(ref)
	s.tmpReason = s.tmpReason[:0]
	for _, l := range lits {
		s.tmpReason = append(s.tmpReason, l.Opposite())
	}
	if s.arena.isLearnt(ref) {
		s.bumpClauseActivity(ref)
	}
	return s.tmpReason
}

// explainAssign returns the reason for why ref forced l: the negation of
// every other literal in the clause.
func (s *Solver) explainAssign(ref ClauseRef, l Literal) []Literal {
	lits := s.arena.literalsOf(ref)
	s.tmpReason = s.tmpReason[:0]
	for _, other := range lits[1:] {
		s.tmpReason = append(s.tmpReason, other.Opposite())
	}
	if s.arena.isLearnt(ref) {
		s.bumpClauseActivity(ref)
	}
	return s.tmpReason
}

func (s *Solver) explain(ref ClauseRef, l Literal) []Literal {
	if l == LitUndef {
		return s.explainFailure(ref)
	}
	return s.explainAssign(ref, l)
}

func (s *Solver) bumpClauseActivity(ref ClauseRef) {
	a := s.arena.activity(ref) + s.clauseInc
	s.arena.setActivity(ref, a)
	if a > 1e100 {
		s.clauseInc *= 1e-100
		for _, lr := range s.learnts {
			s.arena.setActivity(lr, s.arena.activity(lr)*1e-100)
		}
	}
}

func (s *Solver) decayClauseActivity() { s.clauseInc *= s.clauseDecay }

// assignTier assigns a newly learnt clause's retention tier from its LBD,
// per spec.md section 3's tier boundaries (Core/Tier-2/Local) and the
// configured bounds (Options.CoreLBDBound, Options.Tier2LBDBound).
func (s *Solver) assignTier(ref ClauseRef, lbd int) {
	s.arena.setLBD(ref, lbd)
	switch {
	case lbd <= s.opts.CoreLBDBound:
		s.arena.setTier(ref, TierCore)
		s.arena.setProtected(ref, true)
	case lbd <= s.opts.Tier2LBDBound:
		s.arena.setTier(ref, TierTier2)
	default:
		s.arena.setTier(ref, TierLocal)
	}
}

func (s *Solver) clauseString(ref ClauseRef) string {
	lits := s.arena.literalsOf(ref)
	if len(lits) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(lits[0].String())
	for _, l := range lits[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
