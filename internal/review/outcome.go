package review

import (
	"errors"
	"fmt"
)

// Outcome is the user's self-assessed result for a presented card
type Outcome string

const (
	OutcomeRemembered Outcome = "remembered"
	OutcomeForgotten  Outcome = "forgotten"
)

// ErrInvalidOutcome is returned for outcome values outside
// {remembered, forgotten}
var ErrInvalidOutcome = errors.New("invalid review outcome")

// ParseOutcome validates a raw outcome value coming from the outer
// surface (web form, bot callback)
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeRemembered, OutcomeForgotten:
		return Outcome(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}

// Remembered reports whether the outcome was a successful recall
func (o Outcome) Remembered() bool {
	return o == OutcomeRemembered
}
