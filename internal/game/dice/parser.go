package dice

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	functionForm = regexp.MustCompile(`(?i)^(max|min)\((\d+)d(\d+)([+-]\d+)?\)$`)
	standardForm = regexp.MustCompile(`(?i)^(\d+)d(\d+)([+-]\d+)?$`)
)

const acceptedFormats = `use format like "3d6", "1d20+5", "2d8-2", "max(2d20)", or "min(3d6)"`

// Notation is a parsed dice notation ready to be rolled.
//
// Selector == SelectorNone is the standard form ("3d6+2"); SelectorMax and
// SelectorMin are the function form ("max(2d20)", "min(3d6+1)").
//
// Invariant: Count >= 1 and Sides >= 1 after a successful Parse.
type Notation struct {
	Raw      string   // original input string, whitespace preserved
	Count    int      // number of dice
	Sides    int      // faces per die
	Modifier int      // flat modifier (may be negative)
	Selector Selector // max/min for the function form
}

// String renders the canonical form of n, without whitespace.
func (n Notation) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(n.Count))
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(n.Sides))
	if n.Modifier != 0 {
		if n.Modifier > 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n.Modifier))
	}
	if n.Selector == SelectorNone {
		return b.String()
	}
	return string(n.Selector) + "(" + b.String() + ")"
}

// Parse parses a dice notation string into a Notation.
//
// Supported forms: "3d6", "1d20+5", "2d8-2", "max(2d20)", "min(3d6+1)".
// Whitespace anywhere in the input is ignored and matching is
// case-insensitive. A modifier of the function form belongs inside the
// parentheses; "max(2d20)+3" is rejected. The empty string parses as
// DefaultNotation.
//
// Postcondition: Returns a Notation with Count >= 1 and Sides >= 1, or an
// error wrapping ErrInvalidArgument.
func Parse(notation string) (Notation, error) {
	clean := stripSpace(notation)
	if notation == "" {
		clean = DefaultNotation
	}

	var (
		selector Selector
		parts    []string
	)
	if m := functionForm.FindStringSubmatch(clean); m != nil {
		selector = Selector(strings.ToLower(m[1]))
		parts = m[2:]
	} else if m := standardForm.FindStringSubmatch(clean); m != nil {
		parts = m[1:]
	} else {
		return Notation{}, invalidArgument("invalid dice notation %q: %s", notation, acceptedFormats)
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return Notation{}, invalidArgument("invalid die count in %q: %v", notation, err)
	}
	if count < 1 {
		return Notation{}, invalidArgument("count must be a positive number in %q", notation)
	}
	sides, err := strconv.Atoi(parts[1])
	if err != nil {
		return Notation{}, invalidArgument("invalid die sides in %q: %v", notation, err)
	}
	if sides < 1 {
		return Notation{}, invalidArgument("max value must be a positive number in %q", notation)
	}
	modifier := 0
	if parts[2] != "" {
		modifier, err = strconv.Atoi(parts[2])
		if err != nil {
			return Notation{}, invalidArgument("invalid modifier in %q: %v", notation, err)
		}
	}

	n := Notation{
		Raw:      notation,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
		Selector: selector,
	}
	if err := n.validate(); err != nil {
		return Notation{}, err
	}
	return n, nil
}

// validate checks that n can be rolled and that every Sum it can produce,
// and the sum of its rolls, fits in an int.
func (n Notation) validate() error {
	if n.Count < 1 {
		return invalidArgument("count must be a positive number, got %d", n.Count)
	}
	if n.Sides < 1 {
		return invalidArgument("max value must be a positive number, got %d", n.Sides)
	}
	switch n.Selector {
	case SelectorNone, SelectorMax, SelectorMin:
	default:
		return invalidArgument("unknown selector function %q", n.Selector)
	}
	lo, hi := 1, n.Sides
	if n.Selector == SelectorNone {
		if n.Sides > math.MaxInt/n.Count {
			return invalidArgument("%dd%d overflows the sum of rolls", n.Count, n.Sides)
		}
		lo, hi = n.Count, n.Count*n.Sides
	}
	if n.Modifier > 0 && hi > math.MaxInt-n.Modifier {
		return invalidArgument("modifier %+d overflows the largest sum of %s", n.Modifier, n)
	}
	if n.Modifier < 0 && lo < math.MinInt-n.Modifier {
		return invalidArgument("modifier %+d overflows the smallest sum of %s", n.Modifier, n)
	}
	return nil
}

// MustParse parses notation and panics on error. Useful for package-level values.
//
// Precondition: notation must be valid.
func MustParse(notation string) Notation {
	n, err := Parse(notation)
	if err != nil {
		panic("dice: MustParse failed for notation " + notation + ": " + err.Error())
	}
	return n
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Bounds returns the smallest and largest Sum a roll of n can produce.
//
// Precondition: n came from Parse, or Roll accepts it.
func (n Notation) Bounds() (lo, hi int) {
	if n.Selector != SelectorNone {
		return 1 + n.Modifier, n.Sides + n.Modifier
	}
	return n.Count + n.Modifier, n.Count*n.Sides + n.Modifier
}
