package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrail_PushAndLevels(t *testing.T) {
	tr := newTrail()

	tr.Push(PositiveLiteral(0)) // level 0
	tr.NewDecisionLevel()
	tr.Push(PositiveLiteral(1)) // level 1
	tr.Push(NegativeLiteral(2)) // level 1
	tr.NewDecisionLevel()
	tr.Push(PositiveLiteral(3)) // level 2

	if got, want := tr.DecisionLevel(), 2; got != want {
		t.Fatalf("DecisionLevel() = %d, want %d", got, want)
	}
	if got, want := tr.Len(), 4; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got, want := tr.LevelStart(1), 1; got != want {
		t.Errorf("LevelStart(1) = %d, want %d", got, want)
	}
	if got, want := tr.LevelStart(2), 3; got != want {
		t.Errorf("LevelStart(2) = %d, want %d", got, want)
	}
	if got, want := tr.At(0), PositiveLiteral(0); got != want {
		t.Errorf("At(0) = %v, want %v", got, want)
	}
}

func TestTrail_TruncateOrderAndCaching(t *testing.T) {
	tr := newTrail()
	reasons := map[Literal]ClauseRef{
		PositiveLiteral(1): ClauseRef(10),
		NegativeLiteral(2): ClauseRef(11),
		PositiveLiteral(3): ClauseRef(12),
	}

	tr.Push(PositiveLiteral(0))
	tr.NewDecisionLevel()
	tr.Push(PositiveLiteral(1))
	tr.Push(NegativeLiteral(2))
	tr.NewDecisionLevel()
	tr.Push(PositiveLiteral(3))

	popped := tr.Truncate(0, func(l Literal) ClauseRef { return reasons[l] })

	want := []Literal{PositiveLiteral(3), NegativeLiteral(2), PositiveLiteral(1)}
	if diff := cmp.Diff(want, popped); diff != "" {
		t.Errorf("Truncate() popped order mismatch (-want +got):\n%s", diff)
	}
	if got, want := tr.DecisionLevel(), 0; got != want {
		t.Errorf("DecisionLevel() after Truncate = %d, want %d", got, want)
	}
	if got, want := tr.Len(), 1; got != want {
		t.Errorf("Len() after Truncate = %d, want %d", got, want)
	}

	saved := tr.TakeReplayCandidates()
	if got, want := len(saved), 3; got != want {
		t.Fatalf("len(TakeReplayCandidates()) = %d, want %d", got, want)
	}
	for _, s := range saved {
		if s.reason != reasons[s.lit] {
			t.Errorf("saved reason for %v = %v, want %v", s.lit, s.reason, reasons[s.lit])
		}
	}

	if more := tr.TakeReplayCandidates(); more != nil {
		t.Errorf("TakeReplayCandidates() did not drain the cache: got %v", more)
	}
}

func TestTrail_TruncateNoOpAboveCurrentLevel(t *testing.T) {
	tr := newTrail()
	tr.Push(PositiveLiteral(0))
	tr.NewDecisionLevel()
	tr.Push(PositiveLiteral(1))

	popped := tr.Truncate(5, func(Literal) ClauseRef { return RefUndef })
	if popped != nil {
		t.Errorf("Truncate(above current level) = %v, want nil", popped)
	}
	if got, want := tr.Len(), 2; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}
