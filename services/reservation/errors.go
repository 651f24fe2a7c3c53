package reservation

import "errors"

var (
	// ErrInvalidState blocks a save when both the approved and rejected
	// flags are set on the same record.
	ErrInvalidState = errors.New("a reservation cannot be approved and rejected at the same time")

	// ErrGenerationExhausted means no unique reservation number could be
	// found within the retry cap. Practically unreachable.
	ErrGenerationExhausted = errors.New("reservation number space exhausted")

	// ErrConflict is returned by the store when a save loses an
	// optimistic version check to a concurrent update.
	ErrConflict = errors.New("reservation was modified concurrently")

	// ErrNotFound is returned by the store for missing records.
	ErrNotFound = errors.New("reservation not found")
)

// ValidationError reports invalid caller input (over-cap payments and
// the like). The request layer shows it to the user and re-prompts.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
