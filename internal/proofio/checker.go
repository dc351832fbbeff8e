package proofio

import "fmt"

// CheckError reports a clause that the online checker could not verify.
// Per spec.md section 4.10 / section 7, the checker halts the search on
// the first such error; it never attempts to repair or skip a record.
type CheckError struct {
	Clause []int32
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("proofio: could not verify clause %v by unit propagation or RAT", e.Clause)
}

// Checker independently verifies a DRUP/DRAT proof stream by maintaining
// its own clause database and running its own unit propagation, entirely
// decoupled from the solver's arena/watch-list machinery. It trades the
// solver's amortized-O(1) watched propagation for a simple, obviously
// correct scan, which is the right trade for a verifier whose only job is
// to catch regressions, not to be fast.
type Checker struct {
	clauses [][]int32
}

// NewChecker returns a checker seeded with the problem's original clauses.
func NewChecker(original [][]int32) *Checker {
	c := &Checker{}
	for _, cl := range original {
		c.clauses = append(c.clauses, append([]int32(nil), cl...))
	}
	return c
}

// Verify checks that adding clause preserves unsatisfiability-equivalence:
// either clause is RUP (negating it and unit-propagating the existing
// database yields a conflict) or, failing that, RAT on its first literal
// (every resolvent with a clause containing the negation of that literal
// is itself RUP). On success the clause is added to the checker's own
// database so later records can resolve against it.
func (c *Checker) Verify(clause []int32) error {
	if len(clause) == 0 {
		// The empty clause is always a valid derivation of UNSAT; nothing
		// to propagate against.
		c.clauses = append(c.clauses, nil)
		return nil
	}

	if c.isRUP(clause, c.clauses) {
		c.clauses = append(c.clauses, append([]int32(nil), clause...))
		return nil
	}

	if c.isRAT(clause) {
		c.clauses = append(c.clauses, append([]int32(nil), clause...))
		return nil
	}

	return &CheckError{Clause: append([]int32(nil), clause...)}
}

// Delete removes the first clause in the database equal to clause as a
// set of literals (order-independent, matching the DRUP spec's notion of
// clause identity).
func (c *Checker) Delete(clause []int32) {
	key := litSet(clause)
	for i, cl := range c.clauses {
		if sameSet(key, litSet(cl)) {
			c.clauses = append(c.clauses[:i], c.clauses[i+1:]...)
			return
		}
	}
}

// isRUP reports whether unit-propagating the negation of clause against db
// derives a conflict (the reverse unit propagation property).
func (c *Checker) isRUP(clause []int32, db [][]int32) bool {
	assign := map[int32]int8{}
	for _, l := range clause {
		v, val := splitLit(l)
		assign[v] = -val
	}
	return propagateConflict(db, assign)
}

// isRAT reports whether clause is RAT on its first literal: for every
// clause in the database containing the negation of that literal, the
// resolvent is either a tautology or RUP.
func (c *Checker) isRAT(clause []int32) bool {
	pivot := clause[0]
	for _, d := range c.clauses {
		if !containsLit(d, -pivot) {
			continue
		}
		resolvent, tautology := resolve(clause, d, pivot)
		if tautology {
			continue
		}
		if !c.isRUP(resolvent, c.clauses) {
			return false
		}
	}
	return true
}

func splitLit(l int32) (v int32, val int8) {
	if l < 0 {
		return -l, -1
	}
	return l, 1
}

func containsLit(clause []int32, l int32) bool {
	for _, x := range clause {
		if x == l {
			return true
		}
	}
	return false
}

// resolve computes the resolvent of c1 and c2 on pivot (which must be in
// c1; -pivot must be in c2), reporting tautology if the resolvent contains
// both a literal and its negation.
func resolve(c1, c2 []int32, pivot int32) (resolvent []int32, tautology bool) {
	seen := map[int32]bool{}
	for _, l := range c1 {
		if l == pivot {
			continue
		}
		seen[l] = true
	}
	for _, l := range c2 {
		if l == -pivot {
			continue
		}
		if seen[-l] {
			return nil, true
		}
		seen[l] = true
	}
	for l := range seen {
		resolvent = append(resolvent, l)
	}
	return resolvent, false
}

// propagateConflict runs simple (non-watched) unit propagation over db
// starting from the given partial assignment, reporting whether it reaches
// a conflict.
func propagateConflict(db [][]int32, assign map[int32]int8) bool {
	for {
		progressed := false
		for _, cl := range db {
			status, unit := evalClause(cl, assign)
			switch status {
			case clauseFalse:
				return true
			case clauseUnit:
				v, val := splitLit(unit)
				assign[v] = val
				progressed = true
			}
		}
		if !progressed {
			return false
		}
	}
}

type clauseStatus int

const (
	clauseUnresolved clauseStatus = iota
	clauseSatisfied
	clauseFalse
	clauseUnit
)

func evalClause(clause []int32, assign map[int32]int8) (clauseStatus, int32) {
	unassignedCount := 0
	var unassigned int32
	for _, l := range clause {
		v, want := splitLit(l)
		if val, ok := assign[v]; ok {
			if val == want {
				return clauseSatisfied, 0
			}
			continue // false literal
		}
		unassignedCount++
		unassigned = l
	}
	switch unassignedCount {
	case 0:
		return clauseFalse, 0
	case 1:
		return clauseUnit, unassigned
	default:
		return clauseUnresolved, 0
	}
}

func litSet(clause []int32) map[int32]struct{} {
	s := make(map[int32]struct{}, len(clause))
	for _, l := range clause {
		s[l] = struct{}{}
	}
	return s
}

func sameSet(a, b map[int32]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
