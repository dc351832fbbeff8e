package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func litsOf(vs ...int) []Literal {
	lits := make([]Literal, len(vs))
	for i, v := range vs {
		if v >= 0 {
			lits[i] = PositiveLiteral(v)
		} else {
			lits[i] = NegativeLiteral(-v - 1)
		}
	}
	return lits
}

func TestArena_AllocAndLiteralsOf(t *testing.T) {
	a := NewArena(0)

	ref, err := a.Alloc(litsOf(0, 1, -3), false)
	if err != nil {
		t.Fatalf("Alloc(): %v", err)
	}

	got := a.literalsOf(ref)
	want := litsOf(0, 1, -3)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("literalsOf() mismatch (-want +got):\n%s", diff)
	}
	if a.isLearnt(ref) {
		t.Errorf("isLearnt() = true, want false")
	}
}

func TestArena_LiteralsOfAliasesBackingArray(t *testing.T) {
	a := NewArena(0)
	ref, _ := a.Alloc(litsOf(0, 1), false)

	lits := a.literalsOf(ref)
	lits[0] = NegativeLiteral(0)

	got := a.literalsOf(ref)
	if got[0] != NegativeLiteral(0) {
		t.Errorf("literalsOf() does not alias the arena's backing array: got %v", got[0])
	}
}

func TestArena_LearntActivityAndLBD(t *testing.T) {
	a := NewArena(0)
	ref, err := a.Alloc(litsOf(0, 1), true)
	if err != nil {
		t.Fatalf("Alloc(): %v", err)
	}

	if !a.isLearnt(ref) {
		t.Fatalf("isLearnt() = false, want true")
	}

	a.setActivity(ref, 3.5)
	if got := a.activity(ref); got != 3.5 {
		t.Errorf("activity() = %v, want 3.5", got)
	}

	a.setLBD(ref, 7)
	if got := a.lbd(ref); got != 7 {
		t.Errorf("lbd() = %v, want 7", got)
	}

	a.setTier(ref, TierTier2)
	if got := a.tier(ref); got != TierTier2 {
		t.Errorf("tier() = %v, want TierTier2", got)
	}

	a.setProtected(ref, true)
	if !a.isProtected(ref) {
		t.Errorf("isProtected() = false, want true")
	}
	a.setProtected(ref, false)
	if a.isProtected(ref) {
		t.Errorf("isProtected() = true, want false")
	}
}

func TestArena_FreeMarksWasted(t *testing.T) {
	a := NewArena(0)
	ref, _ := a.Alloc(litsOf(0, 1, 2), false)
	before := a.Wasted()

	a.Free(ref)

	if !a.isDeleted(ref) {
		t.Errorf("isDeleted() = false after Free(), want true")
	}
	if a.Wasted() <= before {
		t.Errorf("Wasted() = %d, want > %d after Free()", a.Wasted(), before)
	}
}

func TestArena_AllocExceedsMaxWords(t *testing.T) {
	a := NewArena(2)

	_, err := a.Alloc(litsOf(0, 1, 2, 3, 4), false)
	if err != ErrArenaExhausted {
		t.Errorf("Alloc() error = %v, want ErrArenaExhausted", err)
	}
}

func TestArena_RelocateDropsDeletedKeepsLive(t *testing.T) {
	a := NewArena(0)
	dead, _ := a.Alloc(litsOf(0, 1), false)
	live, _ := a.Alloc(litsOf(2, 3), false)
	a.Free(dead)

	fresh, mapping := a.Relocate()

	if _, ok := mapping[dead]; ok {
		t.Errorf("Relocate() kept a mapping for a deleted clause")
	}
	newRef, ok := mapping[live]
	if !ok {
		t.Fatalf("Relocate() dropped a live clause from the mapping")
	}
	if diff := cmp.Diff(litsOf(2, 3), fresh.literalsOf(newRef)); diff != "" {
		t.Errorf("relocated literals mismatch (-want +got):\n%s", diff)
	}
	if fresh.Wasted() != 0 {
		t.Errorf("fresh.Wasted() = %d, want 0", fresh.Wasted())
	}
}

func TestArena_ShouldCompact(t *testing.T) {
	a := NewArena(0)
	if a.ShouldCompact(0.2) {
		t.Errorf("ShouldCompact() = true on an empty arena, want false")
	}

	ref, _ := a.Alloc(litsOf(0, 1, 2, 3, 4, 5, 6, 7), false)
	a.Free(ref)

	if !a.ShouldCompact(0.2) {
		t.Errorf("ShouldCompact(0.2) = false, want true once most of the arena is wasted")
	}
}
