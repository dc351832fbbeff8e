// Package parsers is the thin public glue between DIMACS files on disk and
// an internal/sat.Solver: load a CNF instance into a fresh solver, and read
// back a model file written in the same format. It is the one place in the
// module that depends on the third-party rhartert/dimacs scanner rather
// than internal/dimacs's own hand-rolled one, the same split the teacher
// repo itself carries between internal/dimacs and parsers.
package parsers

import (
	"compress/gzip"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rhartert/dimacs"

	"github.com/go-sat/cdcl/internal/sat"
)

// SATSolver is the subset of *sat.Solver's API a DIMACS file can drive.
type SATSolver interface {
	NewVar() int
	AddClause([]sat.Literal) error
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file at filename and loads its formula
// into solver, one NewVar per declared variable and one AddClause per
// clause line.
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) error {
	reader, err := reader(filename, gzipped)
	if err != nil {
		return errors.Wrapf(err, "error reading file %q", filename)
	}
	defer reader.Close()

	b := &builder{solver}
	return dimacs.ReadBuilder(reader, b)
}

// builder wraps a SATSolver to implement dimacs.Builder.
type builder struct {
	solver SATSolver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return errors.New("parsers: not a CNF problem")
	}
	for i := 0; i < nVars; i++ {
		b.solver.NewVar()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(-l - 1)
		} else {
			clause[i] = sat.PositiveLiteral(l - 1)
		}
	}
	return b.solver.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// ReadModels returns the list of models (if any) contained in filename, a
// DIMACS-style file of satisfying assignments (one clause line per model,
// literal signs give each variable's value).
func ReadModels(filename string) ([][]bool, error) {
	reader, err := reader(filename, false)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading file %q", filename)
	}
	defer reader.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(reader, b); err != nil {
		return nil, err
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return errors.New("parsers: model files should not have a problem line")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
