package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSolver returns a solver configured for small, deterministic unit
// tests: inprocessing and SLS are disabled so a clause's variables cannot
// be eliminated or have their phase perturbed out from under an assertion.
func newTestSolver() *Solver {
	opts := DefaultOptions
	opts.InprocessingEnabled = false
	opts.SLSEnabled = false
	return NewSolver(opts)
}

func addClause(t *testing.T, s *Solver, lits ...Literal) {
	t.Helper()
	require.NoError(t, s.AddClause(lits))
}

func TestSolver_UnitPropagationChain(t *testing.T) {
	s := newTestSolver()
	a, b, c := s.NewVar(), s.NewVar(), s.NewVar()

	addClause(t, s, PositiveLiteral(a))
	addClause(t, s, NegativeLiteral(a), PositiveLiteral(b))
	addClause(t, s, NegativeLiteral(b), PositiveLiteral(c))

	got := s.Solve()
	require.Equal(t, True, got)
	assert.Equal(t, True, s.Value(PositiveLiteral(a)))
	assert.Equal(t, True, s.Value(PositiveLiteral(b)))
	assert.Equal(t, True, s.Value(PositiveLiteral(c)))
}

func TestSolver_SimpleUnsat(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()

	addClause(t, s, PositiveLiteral(a))
	addClause(t, s, NegativeLiteral(a))

	require.Equal(t, False, s.Solve())
}

func TestSolver_EmptyClauseIsUnsat(t *testing.T) {
	s := newTestSolver()
	s.NewVar()

	require.NoError(t, s.AddClause(nil))
	require.Equal(t, False, s.Solve())
}

func TestSolver_EmptyFormulaIsSat(t *testing.T) {
	s := newTestSolver()

	require.Equal(t, True, s.Solve())
}

func TestSolver_PigeonholeThreeIntoTwoIsUnsat(t *testing.T) {
	// Variable v(p, h) is true iff pigeon p sits in hole h; 3 pigeons, 2
	// holes: every pigeon needs a hole, no hole may hold two pigeons.
	s := newTestSolver()
	v := make([][]int, 3)
	for p := range v {
		v[p] = []int{s.NewVar(), s.NewVar()}
	}

	for p := 0; p < 3; p++ {
		addClause(t, s, PositiveLiteral(v[p][0]), PositiveLiteral(v[p][1]))
	}
	for h := 0; h < 2; h++ {
		for p1 := 0; p1 < 3; p1++ {
			for p2 := p1 + 1; p2 < 3; p2++ {
				addClause(t, s, NegativeLiteral(v[p1][h]), NegativeLiteral(v[p2][h]))
			}
		}
	}

	require.Equal(t, False, s.Solve())
}

func TestSolver_AllClausesSatisfiedByModel(t *testing.T) {
	s := newTestSolver()
	vs := make([]int, 4)
	for i := range vs {
		vs[i] = s.NewVar()
	}

	clauses := [][]Literal{
		{PositiveLiteral(vs[0]), NegativeLiteral(vs[1])},
		{PositiveLiteral(vs[1]), PositiveLiteral(vs[2])},
		{NegativeLiteral(vs[2]), NegativeLiteral(vs[3])},
		{PositiveLiteral(vs[3]), PositiveLiteral(vs[0])},
	}
	for _, c := range clauses {
		addClause(t, s, c...)
	}

	require.Equal(t, True, s.Solve())

	for _, c := range clauses {
		satisfied := false
		for _, l := range c {
			if s.Value(l) == True {
				satisfied = true
				break
			}
		}
		assert.Truef(t, satisfied, "clause %v not satisfied by model", c)
	}
}

func TestSolver_AssumeSatisfiable(t *testing.T) {
	s := newTestSolver()
	a, b := s.NewVar(), s.NewVar()

	addClause(t, s, PositiveLiteral(a), PositiveLiteral(b))

	s.Assume(NegativeLiteral(a))
	require.Equal(t, True, s.Solve())
	assert.Equal(t, True, s.Value(PositiveLiteral(b)))
}

func TestSolver_AssumeConflictingReportsFailed(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()

	addClause(t, s, PositiveLiteral(a))

	s.Assume(NegativeLiteral(a))
	require.Equal(t, False, s.Solve())
	assert.True(t, s.Failed(NegativeLiteral(a)))
}

func TestSolver_ClearAssumptionsRestoresPlainSolving(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()

	addClause(t, s, PositiveLiteral(a))

	s.Assume(NegativeLiteral(a))
	require.Equal(t, False, s.Solve())

	s.ClearAssumptions()
	require.Equal(t, True, s.Solve())
	assert.Equal(t, True, s.Value(PositiveLiteral(a)))
}

func TestSolver_IncrementalAddClauseBetweenSolves(t *testing.T) {
	s := newTestSolver()
	a, b := s.NewVar(), s.NewVar()

	addClause(t, s, PositiveLiteral(a), PositiveLiteral(b))
	require.Equal(t, True, s.Solve())

	// Now force both false, which the first clause already forbids.
	addClause(t, s, NegativeLiteral(a))
	addClause(t, s, NegativeLiteral(b))
	require.Equal(t, False, s.Solve())
}

func TestSolver_SolveFinalDisposesSolver(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	addClause(t, s, PositiveLiteral(a))

	require.Equal(t, True, s.SolveFinal())
	require.Equal(t, Unknown, s.Solve())
	require.ErrorIs(t, s.AddClause([]Literal{PositiveLiteral(a)}), ErrSolverDisposed)
}

func TestSolver_AddClauseRejectsNonRootLevel(t *testing.T) {
	s := newTestSolver()
	a, b := s.NewVar(), s.NewVar()
	addClause(t, s, PositiveLiteral(a), PositiveLiteral(b))

	s.trail.NewDecisionLevel()
	err := s.AddClause([]Literal{PositiveLiteral(a)})
	require.ErrorIs(t, err, ErrRootLevelOnly)
}
