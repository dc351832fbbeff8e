package sat

import "github.com/pkg/errors"

// Sentinel errors returned by the core. Per spec, only resource exhaustion
// and proof-check violations unwind out of the solver; everything else
// (conflicts during BCP, failed assumptions) is a normal search outcome,
// not an error.
var (
	// ErrArenaExhausted is returned when the clause arena cannot grow to
	// satisfy an allocation within Options.MaxArenaWords. It is fatal:
	// the solver that produced it must not be used again.
	ErrArenaExhausted = errors.New("sat: clause arena exhausted")

	// ErrProofCheckFailed is returned (wrapped with the failing clause) when
	// the online DRUP/DRAT checker cannot verify a clause addition.
	ErrProofCheckFailed = errors.New("sat: proof check failed")

	// ErrRootLevelOnly is returned by AddClause when the solver is not at
	// decision level 0.
	ErrRootLevelOnly = errors.New("sat: operation requires decision level 0")

	// ErrSolverDisposed is returned by any call made after SolveFinal.
	ErrSolverDisposed = errors.New("sat: solver is one-shot and has already solved")
)

// wrapf is a thin helper over pkg/errors so call sites read the way
// operator-framework's error paths do: a short sentinel wrapped with the
// call-specific detail, never a bare fmt.Errorf chain.
func wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}
