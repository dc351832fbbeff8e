package sat

// eliminatedClause is one clause recorded on the elimination stack so that
// a satisfying assignment found after a variable was eliminated can be
// extended to satisfy the clauses that variable used to appear in (spec.md
// section 4.8, "model reconstruction").
type eliminatedClause struct {
	v     int // the eliminated variable
	lits  []Literal
}

// inprocessor implements spec.md section 4.8's bounded preprocessing pass:
// self-subsuming resolution (subsumption elimination) and bounded variable
// elimination, run between searches rather than as a one-shot preprocessor,
// following original_source/minisat/simp/SimpSolver.{cc,h}'s shape of a
// solver-owning companion object rather than a Solver subclass (Go has no
// subclassing; composition is the idiomatic substitute).
type inprocessor struct {
	s *Solver

	occurs [][]ClauseRef // occurs[lit] = clauses currently containing lit

	elimStack []eliminatedClause
	elimOrder []int // eliminated variables, in elimination order (for reverse extension)

	touched []bool // variables whose occurrence changed since the last subsumption pass
}

func newInprocessor(s *Solver) *inprocessor {
	return &inprocessor{s: s}
}

func (ip *inprocessor) growTo(numLits int) {
	for len(ip.occurs) < numLits {
		ip.occurs = append(ip.occurs, nil)
	}
	for len(ip.touched) < numLits/2 {
		ip.touched = append(ip.touched, false)
	}
}

// buildOccurrences rebuilds the occurrence lists from scratch over every
// live original clause. Learnt clauses are excluded: eliminating a variable
// that a learnt clause still mentions would silently invalidate that
// clause's role as a conflict's reason, which inprocess.go never attempts
// to chase down and repair.
func (ip *inprocessor) buildOccurrences() {
	s := ip.s
	ip.growTo(len(s.assigns))
	for i := range ip.occurs {
		ip.occurs[i] = ip.occurs[i][:0]
	}
	for _, ref := range s.constraints {
		if s.arena.isDeleted(ref) {
			continue
		}
		for _, l := range s.arena.literalsOf(ref) {
			ip.occurs[l] = append(ip.occurs[l], ref)
		}
	}
}

// Run performs one inprocessing pass at the root decision level: subsumption
// to a fixpoint, then bounded variable elimination over every variable not
// frozen (spec.md's "frozen" set covers assumption literals and variables
// referenced by the public API, which must keep their identity for Value
// and AddClause to keep working).
func (ip *inprocessor) Run() error {
	s := ip.s
	if s.decisionLevel() != 0 {
		return nil
	}
	ip.buildOccurrences()

	if err := ip.subsumeToFixpoint(); err != nil {
		return err
	}

	for v := 0; v < s.NumVariables(); v++ {
		if s.eliminated[v] || s.frozen[v] || s.VarValue(v) != Unknown {
			continue
		}
		if err := ip.tryEliminate(v); err != nil {
			return err
		}
		if s.eliminated[v] {
			ip.buildOccurrences() // the elimination deleted clauses and added resolvents
		}
	}
	return nil
}

// subsumeToFixpoint repeatedly scans every live clause pair sharing a
// variable and removes subsumed clauses / strengthens self-subsumed ones,
// until a full pass makes no further change.
func (ip *inprocessor) subsumeToFixpoint() error {
	for {
		changed, err := ip.subsumePass()
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		ip.buildOccurrences()
	}
}

func (ip *inprocessor) subsumePass() (bool, error) {
	s := ip.s
	changed := false

	for _, ref := range append([]ClauseRef(nil), s.constraints...) {
		if s.arena.isDeleted(ref) {
			continue
		}
		lits := s.arena.literalsOf(ref)
		if len(lits) == 0 {
			continue
		}
		pivot := smallestOccurLit(ip.occurs, lits)

		for _, other := range append([]ClauseRef(nil), ip.occurs[pivot]...) {
			if other == ref || s.arena.isDeleted(other) {
				continue
			}
			otherLits := s.arena.literalsOf(other)
			if len(otherLits) < len(lits) {
				continue
			}

			switch subsumptionCheck(lits, otherLits) {
			case subsumes:
				s.removeClause(other)
				changed = true
			case selfSubsumes:
				// other holds pivot itself; the flipped literal is the one of
				// lits whose negation other holds.
				flipped := pivot
				for _, la := range lits {
					for _, lb := range otherLits {
						if la == lb.Opposite() {
							flipped = la
						}
					}
				}
				if err := ip.strengthen(other, flipped); err != nil {
					return false, err
				}
				changed = true
			}
		}
	}
	return changed, nil
}

type subsumeResult int

const (
	noSubsumption subsumeResult = iota
	subsumes                    // a subsumes b: every literal of a is in b
	selfSubsumes                // a subsumes b after flipping exactly one literal's sign
)

// subsumptionCheck reports how clause a relates to clause b (both literal
// slices are small in practice, so an O(|a|*|b|) scan is the right trade
// against maintaining sorted literal arrays).
func subsumptionCheck(a, b []Literal) subsumeResult {
	flips := 0
	for _, la := range a {
		found, flip := false, false
		for _, lb := range b {
			if la == lb {
				found = true
				break
			}
			if la == lb.Opposite() {
				found, flip = true, true
				break
			}
		}
		if !found {
			return noSubsumption
		}
		if flip {
			flips++
			if flips > 1 {
				return noSubsumption
			}
		}
	}
	if flips == 0 {
		return subsumes
	}
	return selfSubsumes
}

// strengthen removes pivot's negation from ref (ref was a self-subsumed
// clause containing Opposite(pivot)), re-adding the shrunk clause.
func (ip *inprocessor) strengthen(ref ClauseRef, pivot Literal) error {
	s := ip.s
	lits := s.arena.literalsOf(ref)
	kept := make([]Literal, 0, len(lits)-1)
	for _, l := range lits {
		if l == pivot.Opposite() {
			continue
		}
		kept = append(kept, l)
	}
	s.removeClause(ref)

	newRef, ok, err := s.newClause(kept, false)
	if err != nil {
		return err
	}
	if ok && newRef != RefUndef {
		s.constraints = append(s.constraints, newRef)
		if s.proofWriter != nil {
			dimacs := s.toDimacs(kept)
			_ = s.proofWriter.Add(dimacs)
		}
	}
	if !ok {
		s.unsat = true
	}
	return nil
}

func smallestOccurLit(occurs [][]ClauseRef, lits []Literal) Literal {
	best := lits[0]
	for _, l := range lits[1:] {
		if len(occurs[l]) < len(occurs[best]) {
			best = l
		}
	}
	return best
}

// tryEliminate attempts to remove v by resolving every clause containing v
// against every clause containing Opposite(v), replacing both sets with
// their resolvents, provided doing so does not grow the clause count beyond
// Options.InprocessingGrowthBound (0 means "no growth allowed": the
// conservative default spec.md section 4.8 describes).
func (ip *inprocessor) tryEliminate(v int) error {
	s := ip.s
	pos := PositiveLiteral(v)
	neg := NegativeLiteral(v)

	posClauses := ip.occurs[pos]
	negClauses := ip.occurs[neg]
	before := len(posClauses) + len(negClauses)

	if len(posClauses) == 0 || len(negClauses) == 0 {
		return ip.eliminatePure(v, posClauses, negClauses)
	}

	var resolvents [][]Literal
	for _, pr := range posClauses {
		if s.arena.isDeleted(pr) {
			continue
		}
		for _, nr := range negClauses {
			if s.arena.isDeleted(nr) {
				continue
			}
			resolvent, tautology := resolveLiterals(s.arena.literalsOf(pr), s.arena.literalsOf(nr), v)
			if tautology {
				continue
			}
			resolvents = append(resolvents, resolvent)
		}
	}

	bound := s.opts.InprocessingGrowthBound
	if len(resolvents) > before+bound {
		return nil // elimination would grow the database too much, leave v alone
	}

	ip.recordElimination(v, posClauses, negClauses)

	for _, ref := range posClauses {
		s.removeClause(ref)
	}
	for _, ref := range negClauses {
		s.removeClause(ref)
	}

	for _, r := range resolvents {
		ref, ok, err := s.newClause(r, false)
		if err != nil {
			return err
		}
		if !ok {
			s.unsat = true
			continue
		}
		if ref != RefUndef {
			s.constraints = append(s.constraints, ref)
			if s.proofWriter != nil {
				_ = s.proofWriter.Add(s.toDimacs(r))
			}
		}
	}

	s.eliminated[v] = true
	ip.elimOrder = append(ip.elimOrder, v)
	return nil
}

// eliminatePure handles the case where v occurs with only one polarity: the
// clauses mentioning it are satisfied once v is fixed to that polarity, so
// they can simply be dropped and v itself assigned directly.
func (ip *inprocessor) eliminatePure(v int, pos, neg []ClauseRef) error {
	s := ip.s
	if len(pos) == 0 && len(neg) == 0 {
		return nil
	}
	ip.recordElimination(v, pos, neg)
	for _, ref := range pos {
		s.removeClause(ref)
	}
	for _, ref := range neg {
		s.removeClause(ref)
	}
	s.eliminated[v] = true
	ip.elimOrder = append(ip.elimOrder, v)
	return nil
}

func (ip *inprocessor) recordElimination(v int, pos, neg []ClauseRef) {
	s := ip.s
	for _, ref := range pos {
		if s.arena.isDeleted(ref) {
			continue
		}
		lits := append([]Literal(nil), s.arena.literalsOf(ref)...)
		ip.elimStack = append(ip.elimStack, eliminatedClause{v: v, lits: lits})
	}
	for _, ref := range neg {
		if s.arena.isDeleted(ref) {
			continue
		}
		lits := append([]Literal(nil), s.arena.literalsOf(ref)...)
		ip.elimStack = append(ip.elimStack, eliminatedClause{v: v, lits: lits})
	}
}

// resolveLiterals computes the resolvent of two clauses on variable v,
// reporting tautology if the result would contain a literal and its
// negation (in which case the resolvent is vacuous and skipped).
func resolveLiterals(a, b []Literal, v int) ([]Literal, bool) {
	seen := map[Literal]bool{}
	out := make([]Literal, 0, len(a)+len(b))
	for _, l := range a {
		if l.VarID() == v || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	for _, l := range b {
		if l.VarID() == v {
			continue
		}
		if seen[l.Opposite()] {
			return nil, true
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, false
}

// Extend reconstructs values for eliminated variables in a satisfying
// model, walking the elimination stack in reverse order (last-eliminated
// first, following original_source/minisat/simp/SimpSolver.cc's
// extendModel). Each recorded clause still carries the eliminated
// variable's own literal at the polarity it had in that clause; if no
// other literal in the clause is already satisfied, the variable is set to
// whatever polarity makes its own literal true, which is always available
// because the clause is only in the stack by virtue of having contained it.
func (ip *inprocessor) Extend(model []bool) {
	for i := len(ip.elimStack) - 1; i >= 0; i-- {
		ec := ip.elimStack[i]
		satisfied := false
		var ownLit Literal
		for _, l := range ec.lits {
			if l.VarID() == ec.v {
				ownLit = l
				continue
			}
			if model[l.VarID()] == l.IsPositive() {
				satisfied = true
				break
			}
		}
		if !satisfied {
			model[ec.v] = ownLit.IsPositive()
		}
	}
}
