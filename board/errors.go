package board

import "errors"

// Sentinel errors returned by TryPlace. All three are recoverable: the
// caller (typically the move package) treats any of them as "this move did
// not take effect" and simply discards the attempt.
var (
	// ErrOffStage indicates the requested position is outside the (inset)
	// stage.
	ErrOffStage = errors.New("board: position is off stage")

	// ErrTooClose indicates the requested position is within the musician
	// exclusion radius of another already-placed musician.
	ErrTooClose = errors.New("board: too close to another musician")

	// ErrAlreadyPlaced indicates the musician already has a position.
	ErrAlreadyPlaced = errors.New("board: musician already placed")

	// ErrNotAllPlaced indicates Solution was requested before every
	// musician had a position.
	ErrNotAllPlaced = errors.New("board: not all musicians are placed")
)

// InvariantViolation is panicked when a caller breaks a precondition that no
// correctly-written caller should ever break: unplacing an already-unplaced
// musician, or swapping musicians in a mode where swap is not well-defined.
// It is a typed panic value (rather than a plain string) so a caller that
// wants to convert a cell-local programmer error into a recoverable failure
// (the subdivision solver, at its per-cell goroutine boundary) can recover
// and type-assert instead of crashing the whole run.
type InvariantViolation struct {
	Msg string
}

func (e InvariantViolation) Error() string { return "board: invariant violation: " + e.Msg }
