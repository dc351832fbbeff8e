package sat

import "time"

// This file is the public incremental API surface (spec.md section 6):
// build a formula up with NewVar/AddClause, optionally constrain a call to
// Solve with Assume, and read back the result with Value/Failed. It wraps
// the lower-level mechanics in solver.go/clause.go/search.go, mirroring
// the shape of the teacher's own AddVariable/AddClause/Solve trio.

// NewVar allocates a fresh variable and returns its 0-indexed ID.
func (s *Solver) NewVar() int {
	return s.newVar()
}

// Freeze marks a variable as ineligible for inprocessing's variable
// elimination, required before using it as an assumption or otherwise
// relying on its identity surviving Solve (spec.md section 4.8).
func (s *Solver) Freeze(v int) {
	s.frozen[v] = true
}

// AddClause adds an original (non-learnt) clause. It must be called at
// decision level 0; use Solve's return value and a backtrack (there is
// none needed in the non-incremental case) to guarantee this between
// successive calls.
func (s *Solver) AddClause(lits []Literal) error {
	if s.disposed {
		return ErrSolverDisposed
	}
	if s.decisionLevel() != 0 {
		return ErrRootLevelOnly
	}

	tmp := append([]Literal(nil), lits...)
	ref, ok, err := s.newClause(tmp, false)
	if err != nil {
		return wrapf(err, "sat: AddClause")
	}
	if ref != RefUndef {
		s.constraints = append(s.constraints, ref)
		if s.proofWriter != nil {
			dimacs := s.toDimacs(s.arena.literalsOf(ref))
			_ = s.proofWriter.Add(dimacs)
		}
	}
	if !ok {
		s.unsat = true
	}
	return nil
}

// Assume registers lit as an assumption for every later Solve call, until
// ClearAssumptions. Assumption
// literals are forced as the first decisions of the search, in the order
// registered; if they are jointly unsatisfiable with the formula, Solve
// returns False and Failed reports which of them were implicated.
func (s *Solver) Assume(lit Literal) {
	s.assumptions = append(s.assumptions, lit)
	s.Freeze(lit.VarID())
}

// ClearAssumptions drops every registered assumption (Solve never clears
// them), restoring plain (non-incremental) solving.
func (s *Solver) ClearAssumptions() {
	s.assumptions = s.assumptions[:0]
}

// Solve runs the CDCL search with whatever assumptions are currently
// registered, returning True, False, or Unknown (resource limit or
// cooperative termination). The solver remains usable afterward: add more
// clauses, change assumptions, and Solve again.
func (s *Solver) Solve() LBool {
	if s.disposed {
		return Unknown
	}
	if s.unsat {
		s.state = StateUnsat
		return False
	}

	s.startTime = time.Now()
	s.terminated = false
	for a := range s.failedLiteral {
		delete(s.failedLiteral, a)
	}

	result := s.search()
	if result == True {
		s.saveModel() // before backtracking: saveModel reads the current assignment
	}
	s.cancelUntil(0)

	switch result {
	case True:
		s.state = StateSat
	case False:
		s.state = StateUnsat
	default:
		s.state = StateUnknown
	}
	return result
}

// SolveFinal is like Solve but disposes of the solver afterward: no further
// AddClause/Assume/Solve call is valid (spec.md section 6's one-shot usage
// mode, matching IPASIR's ipasir_release after a single solve).
func (s *Solver) SolveFinal() LBool {
	result := s.Solve()
	s.disposed = true
	return result
}

// Value returns the value of lit in the most recent satisfying model, or
// Unknown if the last Solve did not return True.
func (s *Solver) Value(lit Literal) LBool {
	if s.state != StateSat || len(s.Models) == 0 {
		assertPrecondition(false, "Value called without a satisfiable model")
		return Unknown
	}
	model := s.Models[len(s.Models)-1]
	v := lit.VarID()
	if v >= len(model) {
		assertPrecondition(false, "Value called with an unknown variable")
		return Unknown
	}
	if model[v] == lit.IsPositive() {
		return True
	}
	return False
}

// Failed reports whether lit was one of the assumptions implicated in the
// most recent unsatisfiable core, valid only after Solve returned False
// with assumptions registered.
func (s *Solver) Failed(lit Literal) bool {
	assertPrecondition(s.state == StateUnsat, "Failed called without an unsatisfiable result")
	return s.failedLiteral[lit]
}

// saveModel records a satisfying assignment, reconstructing any variable
// removed by inprocessing's variable elimination before saving it.
func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for v := range model {
		model[v] = s.VarValue(v) == True
	}
	if s.opts.InprocessingEnabled {
		s.elim.Extend(model)
	}
	s.Models = append(s.Models, model)
}
