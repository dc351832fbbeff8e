package sat

import (
	"math"
	"unsafe"
)

// ClauseRef is a relocatable reference to a clause stored in an Arena. It is
// a logical word offset into the arena's backing buffer, not a pointer:
// per the design notes (spec.md section 9), clauses are never addressed
// through Go pointers so that an Arena can compact itself and the solver
// can rewrite every outstanding reference (watches, reasons, the lastUsed
// table, constraint/learnt lists) in one pass without invalidating
// anything the solver still holds.
type ClauseRef uint32

// RefUndef is the reference held by a variable with no reason clause (it
// was a decision, or an original unit fact).
const RefUndef ClauseRef = 0

// header bit layout for the single word preceding a clause's literals.
//
//	bits 0-23:  literal count
//	bit  24:    learnt
//	bit  25:    deleted (wasted, awaiting compaction)
//	bit  26:    hasExtra (an activity+LBD word pair follows the literals)
//	bit  27:    relocated (reserved: Relocate never sets it and writes no forwarding ClauseRef)
//	bits 28-29: tier (0=Core, 1=Tier2, 2=Local; meaningless unless learnt)
//	bit  30:    protected (never dropped by the current ReduceDB pass)
const (
	hdrSizeMask     = 0x00FFFFFF
	hdrLearntBit    = 1 << 24
	hdrDeletedBit   = 1 << 25
	hdrHasExtraBit  = 1 << 26
	hdrRelocBit     = 1 << 27
	hdrTierShift    = 28
	hdrTierMask     = 0x3 << hdrTierShift
	hdrProtectedBit = 1 << 30
)

// Tier is the retention class of a learnt clause (spec.md section 3,
// "Clause tiers").
type Tier uint8

const (
	TierCore Tier = iota
	TierTier2
	TierLocal
)

// Arena is a contiguous, byte-addressable (here, word-addressable) region
// storing variable-length clause records. It is the sole owner of clause
// storage; every other component (watch lists, reasons, learnt/constraint
// lists, the lastUsed table) refers to clauses only via ClauseRef.
//
// literalsOf returns a slice aliasing the arena's own backing array, not a
// copy, so that propagation's watch-swap mutates the clause in place. That
// view is only valid until the next Alloc, which may grow (and thus
// relocate) the backing array: callers must re-fetch it via literalsOf
// rather than hold it across an Alloc call, exactly as MiniSAT-family
// allocators require re-dereferencing a ClauseRef after any allocation.
type Arena struct {
	buf    []uint32
	wasted int // words marked deleted but not yet reclaimed

	// maxWords bounds arena growth (Options.MaxArenaWords); 0 means
	// unbounded. Exceeding it returns ErrArenaExhausted, a fatal,
	// non-recoverable condition per spec.md section 7.
	maxWords int
}

// NewArena returns an empty arena. Word 0 is reserved so that RefUndef (the
// zero value of ClauseRef) never aliases a real clause.
func NewArena(maxWords int) *Arena {
	return &Arena{
		buf:      make([]uint32, 1, 4096),
		maxWords: maxWords,
	}
}

// Total returns the arena's current size in words, including wasted space.
func (a *Arena) Total() int { return len(a.buf) }

// Wasted returns the number of words occupied by freed clauses.
func (a *Arena) Wasted() int { return a.wasted }

// ShouldCompact reports whether the wasted fraction exceeds the given
// threshold (spec.md section 4.1 suggests 0.2).
func (a *Arena) ShouldCompact(threshold float64) bool {
	if len(a.buf) == 0 {
		return false
	}
	return float64(a.wasted)/float64(len(a.buf)) > threshold
}

func encodeHeader(size int, learnt, hasExtra bool) uint32 {
	h := uint32(size) & hdrSizeMask
	if learnt {
		h |= hdrLearntBit
	}
	if hasExtra {
		h |= hdrHasExtraBit
	}
	return h
}

// Alloc reserves space for a new clause, writes its header and literals,
// and returns a reference to it. Learnt clauses additionally reserve an
// extra word pair for activity and LBD, initialized to zero.
func (a *Arena) Alloc(literals []Literal, learnt bool) (ClauseRef, error) {
	size := len(literals)
	words := 1 + size
	if learnt {
		words += 2
	}
	if a.maxWords > 0 && len(a.buf)+words > a.maxWords {
		return RefUndef, ErrArenaExhausted
	}

	ref := ClauseRef(len(a.buf))
	a.buf = append(a.buf, encodeHeader(size, learnt, learnt))
	for _, l := range literals {
		a.buf = append(a.buf, uint32(l))
	}
	if learnt {
		a.buf = append(a.buf, math.Float32bits(0)) // activity
		a.buf = append(a.buf, 0)                    // lbd
	}
	return ref, nil
}

func (a *Arena) header(ref ClauseRef) uint32 { return a.buf[ref] }

func (a *Arena) setHeader(ref ClauseRef, h uint32) { a.buf[ref] = h }

// size returns the number of literals currently stored in the clause.
func (a *Arena) size(ref ClauseRef) int {
	return int(a.header(ref) & hdrSizeMask)
}

func (a *Arena) setSize(ref ClauseRef, n int) {
	h := a.header(ref)
	a.setHeader(ref, (h &^ hdrSizeMask) | (uint32(n) & hdrSizeMask))
}

// words returns the total word count (header + literals + extra) currently
// occupied by the clause, used both for wasted-space accounting and for
// copying the clause whole during relocation.
func (a *Arena) words(ref ClauseRef) int {
	h := a.header(ref)
	n := 1 + int(h&hdrSizeMask)
	if h&hdrHasExtraBit != 0 {
		n += 2
	}
	return n
}

func (a *Arena) isLearnt(ref ClauseRef) bool { return a.header(ref)&hdrLearntBit != 0 }
func (a *Arena) isDeleted(ref ClauseRef) bool { return a.header(ref)&hdrDeletedBit != 0 }

func (a *Arena) literalsOf(ref ClauseRef) []Literal {
	size := a.size(ref)
	if size == 0 {
		return nil
	}
	start := int(ref) + 1
	// Literal and uint32 share representation (Literal is defined as
	// int32), so this is a view into the arena's own backing array, not a
	// copy: callers (propagateClause's watch-swap, simplifyClause's compaction)
	// mutate watched positions directly through it.
	return unsafe.Slice((*Literal)(unsafe.Pointer(&a.buf[start])), size)
}

// Free marks the clause's words as wasted. Its storage is reclaimed only at
// the next compaction (Relocate).
func (a *Arena) Free(ref ClauseRef) {
	h := a.header(ref)
	a.setHeader(ref, h|hdrDeletedBit)
	a.wasted += a.words(ref)
}

func (a *Arena) activity(ref ClauseRef) float64 {
	size := a.size(ref)
	return float64(math.Float32frombits(a.buf[int(ref)+1+size]))
}

func (a *Arena) setActivity(ref ClauseRef, v float64) {
	size := a.size(ref)
	a.buf[int(ref)+1+size] = math.Float32bits(float32(v))
}

func (a *Arena) lbd(ref ClauseRef) int {
	size := a.size(ref)
	return int(a.buf[int(ref)+2+size])
}

func (a *Arena) setLBD(ref ClauseRef, v int) {
	size := a.size(ref)
	a.buf[int(ref)+2+size] = uint32(v)
}

func (a *Arena) tier(ref ClauseRef) Tier {
	return Tier((a.header(ref) & hdrTierMask) >> hdrTierShift)
}

func (a *Arena) setTier(ref ClauseRef, t Tier) {
	h := a.header(ref)
	a.setHeader(ref, (h &^ uint32(hdrTierMask))|(uint32(t)<<hdrTierShift))
}

func (a *Arena) isProtected(ref ClauseRef) bool {
	return a.header(ref)&hdrProtectedBit != 0
}

func (a *Arena) setProtected(ref ClauseRef, v bool) {
	h := a.header(ref)
	if v {
		a.setHeader(ref, h|hdrProtectedBit)
	} else {
		a.setHeader(ref, h&^uint32(hdrProtectedBit))
	}
}

// Relocate copies every live (non-deleted) clause of a, in buffer order,
// into a fresh arena, and returns the new arena along with a map from old
// references to new ones. The caller (Solver) must use that map to rewrite
// every external reference it holds — watch lists, reasons, the lastUsed
// table, constraint/learnt lists — exactly once; Relocate writes nothing
// outside the fresh arena.
//
// This is a two-pass compaction: pass one copies live clause words in
// order and records old->new in the map; pass two is performed by the
// caller. The old arena's headers are left unchanged (no forwarding
// reference is stored in them), so old references translate only through
// the returned map.
func (a *Arena) Relocate() (*Arena, map[ClauseRef]ClauseRef) {
	fresh := NewArena(a.maxWords)
	mapping := make(map[ClauseRef]ClauseRef, len(a.buf)/4)

	for ref := ClauseRef(1); int(ref) < len(a.buf); {
		w := a.words(ref)
		if !a.isDeleted(ref) {
			newRef := ClauseRef(len(fresh.buf))
			fresh.buf = append(fresh.buf, a.buf[ref:int(ref)+w]...)
			mapping[ref] = newRef
		}
		ref = ClauseRef(int(ref) + w)
	}

	return fresh, mapping
}
