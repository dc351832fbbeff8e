package proofio

import "testing"

func TestChecker_VerifyRUPClause(t *testing.T) {
	// (1 2), (-1 2) derive (2) by resolution on 1, which is RUP: negating
	// (2) and propagating forces 1 and -1 both, a conflict.
	c := NewChecker([][]int32{{1, 2}, {-1, 2}})

	if err := c.Verify([]int32{2}); err != nil {
		t.Errorf("Verify([2]) = %v, want nil (RUP)", err)
	}
}

func TestChecker_VerifyRejectsUnjustifiedClause(t *testing.T) {
	// (1 2) and (1 -2) together only imply (1); (-1 3) is neither RUP nor
	// RAT against them.
	c := NewChecker([][]int32{{1, 2}, {1, -2}})

	if err := c.Verify([]int32{-1, 3}); err == nil {
		t.Errorf("Verify([-1 3]) = nil, want an error (not RUP or RAT against the database)")
	}
}

func TestChecker_VerifyEmptyClauseAlwaysSucceeds(t *testing.T) {
	c := NewChecker([][]int32{{1}, {-1}})

	if err := c.Verify(nil); err != nil {
		t.Errorf("Verify(nil) = %v, want nil", err)
	}
}

func TestChecker_VerifyChainsAgainstPreviouslyVerifiedClauses(t *testing.T) {
	c := NewChecker([][]int32{{1, 2, 3}, {-1, 2}, {-2, 3}})

	if err := c.Verify([]int32{2}); err != nil {
		t.Fatalf("Verify([2]) = %v, want nil", err)
	}
	if err := c.Verify([]int32{3}); err != nil {
		t.Fatalf("Verify([3]) = %v, want nil (now RUP given the just-added unit [2])", err)
	}
}

func TestChecker_DeleteRemovesMatchingClause(t *testing.T) {
	c := NewChecker([][]int32{{1, 2}, {-1, 2}})
	require := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Verify(): %v", err)
		}
	}
	require(c.Verify([]int32{2}))

	c.Delete([]int32{1, 2})
	if got := len(c.clauses); got != 2 {
		t.Errorf("len(clauses) after Delete = %d, want 2", got)
	}

	// With (1 2) gone, (2) is still verified because the unit (2) itself
	// remains in the database.
	if err := c.Verify([]int32{2}); err != nil {
		t.Errorf("Verify([2]) after Delete = %v, want nil (already in the database)", err)
	}
}

func TestCheckError_Error(t *testing.T) {
	err := &CheckError{Clause: []int32{1, -2}}
	if got := err.Error(); got == "" {
		t.Errorf("Error() returned an empty string")
	}
}
