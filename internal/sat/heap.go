package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// VarOrder maintains the order in which unassigned variables are offered to
// the decision procedure: a max-heap keyed by per-variable activity (or, for
// the first Options.DistanceConflicts conflicts, by recent conflict-history
// count — the "distance" heuristic of spec.md section 4.5), with phase
// saving for the polarity of the returned literal.
type VarOrder struct {
	order *yagh.IntMap[float64] // keyed by -score so Pop yields the max

	scores     []float64
	scoreInc   float64
	scoreDecay float64

	distance       []float64 // recent conflict-history count, used while useDistance
	useDistance    bool
	distanceUntil  int64

	phases      []LBool
	phaseSaving bool
	defaultMode PolarityMode
	rng         *rand.Rand
}

// NewVarOrder returns an empty VarOrder configured from opts.
func NewVarOrder(opts Options) *VarOrder {
	return &VarOrder{
		order:         yagh.New[float64](0),
		scoreInc:      1,
		scoreDecay:    opts.VariableDecay,
		useDistance:   opts.DistanceConflicts > 0,
		distanceUntil: opts.DistanceConflicts,
		phaseSaving:   opts.PhaseSaving,
		defaultMode:   opts.DefaultPhase,
		rng:           rand.New(rand.NewSource(1)),
	}
}

// NewVar registers a freshly created variable with zero initial activity
// and no saved phase.
func (vo *VarOrder) NewVar() {
	v := len(vo.phases)
	vo.scores = append(vo.scores, 0)
	vo.distance = append(vo.distance, 0)
	vo.phases = append(vo.phases, Unknown)
	vo.order.GrowBy(1)
	vo.order.Put(v, 0)
}

// key returns the value a variable is currently ranked by: activity, unless
// the distance heuristic is still active for the current conflict count.
func (vo *VarOrder) key(v int, totalConflicts int64) float64 {
	if vo.useDistance && totalConflicts < vo.distanceUntil {
		return vo.distance[v]
	}
	return vo.scores[v]
}

// Reinsert makes v a candidate again after it is unassigned by a backtrack,
// saving its last value as its phase if phase saving is enabled.
func (vo *VarOrder) Reinsert(v int, val LBool, totalConflicts int64) {
	if vo.phaseSaving {
		vo.phases[v] = val
	}
	vo.order.Put(v, -vo.key(v, totalConflicts))
}

// BumpActivity increases v's activity, per spec.md section 4.5: a
// multiplicative increment that itself grows every conflict, with a
// rescale of every activity (and the increment) once any value crosses a
// large threshold.
func (vo *VarOrder) BumpActivity(v int) {
	vo.scores[v] += vo.scoreInc
	if vo.order.Contains(v) {
		vo.order.Put(v, -vo.scores[v])
	}
	if vo.scores[v] > 1e100 {
		vo.rescale()
	}
}

// BumpDistance increments v's conflict-history counter, used by the
// distance heuristic while it is active.
func (vo *VarOrder) BumpDistance(v int) {
	vo.distance[v]++
	if vo.useDistance && vo.order.Contains(v) {
		vo.order.Put(v, -vo.distance[v])
	}
}

// Decay scales up the activity increment, the usual trick for decaying
// every activity without touching every stored value.
func (vo *VarOrder) Decay() {
	vo.scoreInc /= vo.scoreDecay
	if vo.scoreInc > 1e100 {
		vo.rescale()
	}
}

func (vo *VarOrder) rescale() {
	vo.scoreInc *= 1e-100
	for v, s := range vo.scores {
		vo.scores[v] = s * 1e-100
		if vo.order.Contains(v) {
			vo.order.Put(v, -vo.scores[v])
		}
	}
}

// NextDecision pops the next candidate variable (skipping any that has
// since become assigned) and returns the literal to assign it to, honoring
// the saved phase or the configured default.
func (vo *VarOrder) NextDecision(valueOf func(varID int) LBool) (Literal, bool) {
	for {
		next, ok := vo.order.Pop()
		if !ok {
			return LitUndef, false
		}
		if valueOf(next.Elem) != Unknown {
			continue // already assigned, stale heap entry
		}

		switch vo.phases[next.Elem] {
		case True:
			return PositiveLiteral(next.Elem), true
		case False:
			return NegativeLiteral(next.Elem), true
		default:
			switch vo.defaultMode {
			case PolarityTrue:
				return PositiveLiteral(next.Elem), true
			case PolarityRandom:
				if vo.rng.Intn(2) == 0 {
					return PositiveLiteral(next.Elem), true
				}
				return NegativeLiteral(next.Elem), true
			default:
				return NegativeLiteral(next.Elem), true
			}
		}
	}
}
