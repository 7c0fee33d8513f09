package recommend

import "errors"

// Recoverable conditions surfaced to the request boundary. The caller may
// fall back to preference-only ranking; the engine never substitutes one
// signal for the other on its own.
var (
	// ErrNoHistory means the user has no ratings at all, so history
	// scoring is impossible.
	ErrNoHistory = errors.New("user has no rating history")

	// ErrInsufficientData means the co-rating neighborhood was too sparse
	// after support filtering to build a usable matrix.
	ErrInsufficientData = errors.New("not enough overlapping ratings to build a local matrix")

	// ErrNoSignal means similarity propagation produced no positively
	// scored movies.
	ErrNoSignal = errors.New("no positively scored movies for this user")
)
