package reservation

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	numberLength = 6

	// With ~9*10^5 usable values and random candidates, hitting the cap
	// means the number space is effectively exhausted.
	maxGenerationAttempts = 1000
)

// numberCandidate derives a candidate from the leading decimal digits
// of a random UUID's integer form.
func numberCandidate() string {
	id := uuid.New()
	digits := new(big.Int).SetBytes(id[:]).String()
	if len(digits) < numberLength {
		return ""
	}
	return digits[:numberLength]
}

// generateNumber produces a unique six-digit reservation number that
// does not start with zero. Returns ErrGenerationExhausted after the
// retry cap.
func (e *Engine) generateNumber() (string, error) {
	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		candidate := numberCandidate()
		if candidate == "" || strings.HasPrefix(candidate, "0") {
			continue
		}
		exists, err := e.store.ExistsByNumber(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrGenerationExhausted
}
