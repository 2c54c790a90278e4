// Package dice provides the randomness abstraction, the dice-notation parser
// and the roll-result types used by every roll in rollkit.
package dice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is wrapped by every error the engine returns.
// Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New("dice: invalid argument")

// invalidArgument wraps ErrInvalidArgument with a formatted reason.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

const (
	// DefaultSides is the die size used when a caller does not name one.
	DefaultSides = 6
	// DefaultCount is the number of dice rolled when a caller does not name one.
	DefaultCount = 1
	// DefaultNotation is rolled when an empty notation is given.
	DefaultNotation = "1d6"
	// MaxDiceCount caps the dice in one roll. Roller.WithMaxCount can lower it further.
	MaxDiceCount = 1 << 20
)

// Selector picks one die out of a function-form roll.
// The zero value means the standard (summing) form.
type Selector string

const (
	SelectorNone Selector = ""
	SelectorMax  Selector = "max"
	SelectorMin  Selector = "min"
)

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// SumResult is the outcome of RollDiceWithSum.
//
// Postcondition: Sum == sum(Rolls); len(Rolls) == Count.
type SumResult struct {
	Rolls []int `json:"rolls"`
	Sum   int   `json:"sum"`
	Count int   `json:"count"`
	Max   int   `json:"max"`
}

// NotationResult holds the full audit trail for a single notation roll.
//
// Postcondition: Sum == BaseSum + Modifier.
// Postcondition: when SelectedFunction != SelectorNone, SelectedValue is
// non-nil and BaseSum == *SelectedValue; otherwise BaseSum == sum(Rolls).
type NotationResult struct {
	Notation         string   `json:"notation"`
	Rolls            []int    `json:"rolls"`
	SelectedValue    *int     `json:"selectedValue,omitempty"`
	SelectedFunction Selector `json:"selectedFunction,omitempty"`
	BaseSum          int      `json:"baseSum"`
	Modifier         int      `json:"modifier"`
	Sum              int      `json:"sum"`
	Count            int      `json:"count"`
	Sides            int      `json:"sides"`
}

// String returns a human-readable audit string, e.g.
//
//	"2d6+3 → [4 5] +3 = 12"
//	"max(2d20) → [4 17] max 17 +0 = 17"
func (r NotationResult) String() string {
	var b strings.Builder
	expr := r.Notation
	if strings.TrimSpace(expr) == "" {
		expr = fmt.Sprintf("%dd%d", r.Count, r.Sides)
	}
	fmt.Fprintf(&b, "%s → %v", expr, r.Rolls)
	if r.SelectedFunction != SelectorNone && r.SelectedValue != nil {
		fmt.Fprintf(&b, " %s %d", r.SelectedFunction, *r.SelectedValue)
	}
	fmt.Fprintf(&b, " %+d = %d", r.Modifier, r.Sum)
	return b.String()
}
