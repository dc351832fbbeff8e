package sat

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// pigeonholeClauses returns the classic pigeonhole-principle formula (n
// pigeons, n-1 holes, always unsatisfiable), over variables p_{i,j} =
// i*(n-1)+j. It is small but forces enough conflicts to exercise restarts,
// reduction, and inprocessing in the same run.
func pigeonholeClauses(n int) [][]Literal {
	holes := n - 1
	var clauses [][]Literal
	for i := 0; i < n; i++ {
		clause := make([]Literal, holes)
		for j := 0; j < holes; j++ {
			clause[j] = PositiveLiteral(i*holes + j)
		}
		clauses = append(clauses, clause)
	}
	for j := 0; j < holes; j++ {
		for i1 := 0; i1 < n; i1++ {
			for i2 := i1 + 1; i2 < n; i2++ {
				clauses = append(clauses, []Literal{
					NegativeLiteral(i1*holes + j),
					NegativeLiteral(i2*holes + j),
				})
			}
		}
	}
	return clauses
}

func solvePigeonhole(t *testing.T, logger *logrus.Logger) (LBool, Stats) {
	t.Helper()
	opts := DefaultOptions
	opts.Logger = logger

	s := NewSolver(opts)
	for i := 0; i < 5*4; i++ {
		s.NewVar()
	}
	for _, clause := range pigeonholeClauses(5) {
		require.NoError(t, s.AddClause(clause))
	}
	return s.Solve(), s.Stats()
}

func TestLogging_DoesNotChangeSolverBehavior(t *testing.T) {
	withoutLogger, statsWithout := solvePigeonhole(t, nil)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	withLogger, statsWith := solvePigeonhole(t, logger)

	require.Equal(t, False, withoutLogger, "pigeonhole formula must be unsatisfiable")
	require.Equal(t, withoutLogger, withLogger)
	require.Equal(t, statsWithout, statsWith)
}
