package parsers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-sat/cdcl/internal/sat"
)

type fakeSolver struct {
	vars    int
	clauses [][]sat.Literal
}

func (f *fakeSolver) NewVar() int {
	v := f.vars
	f.vars++
	return v
}

func (f *fakeSolver) AddClause(lits []sat.Literal) error {
	f.clauses = append(f.clauses, lits)
	return nil
}

func TestLoadDIMACS_DeclaresVarsAndTranslatesClauseSigns(t *testing.T) {
	f := &fakeSolver{}
	err := LoadDIMACS("testdata/simple.cnf", false, f)
	require.NoError(t, err)

	assert.Equal(t, 2, f.vars)
	require.Len(t, f.clauses, 2)
	assert.Equal(t, []sat.Literal{sat.PositiveLiteral(0), sat.PositiveLiteral(1)}, f.clauses[0])
	assert.Equal(t, []sat.Literal{sat.NegativeLiteral(0), sat.PositiveLiteral(1)}, f.clauses[1])
}

func TestLoadDIMACS_ReadsGzippedFile(t *testing.T) {
	f := &fakeSolver{}
	err := LoadDIMACS("testdata/simple.cnf.gz", true, f)
	require.NoError(t, err)

	assert.Equal(t, 2, f.vars)
	assert.Len(t, f.clauses, 2)
}

func TestLoadDIMACS_MissingFileReturnsWrappedError(t *testing.T) {
	f := &fakeSolver{}
	err := LoadDIMACS("testdata/does-not-exist.cnf", false, f)
	assert.Error(t, err)
}

func TestLoadDIMACS_RejectsNonCNFProblemLine(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/not-cnf.cnf"
	require.NoError(t, os.WriteFile(path, []byte("p wcnf 1 1\n1 0\n"), 0o644))

	f := &fakeSolver{}
	err := LoadDIMACS(path, false, f)
	assert.Error(t, err)
}

func TestLoadDIMACS_FeedsARealSolver(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions)
	require.NoError(t, LoadDIMACS("testdata/simple.cnf", false, s))

	got := s.Solve()
	assert.Equal(t, sat.True, got)
}

func TestReadModels_ParsesEachLineAsOneModel(t *testing.T) {
	models, err := ReadModels("testdata/models.txt")
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, []bool{true, true}, models[0])
	assert.Equal(t, []bool{false, true}, models[1])
}

func TestReadModels_RejectsFileWithProblemLine(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/has-problem-line.txt"
	require.NoError(t, os.WriteFile(path, []byte("p cnf 1 1\n1 0\n"), 0o644))

	_, err := ReadModels(path)
	assert.Error(t, err)
}
