package dice

import "math"

// RollDie returns a single uniformly distributed value in [1, max].
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value in [1, max], or ErrInvalidArgument when max < 1.
func RollDie(src Source, max int) (int, error) {
	if max < 1 {
		return 0, invalidArgument("max value must be a positive number, got %d", max)
	}
	return src.Intn(max) + 1, nil
}

// RollDice rolls count independent dice of max sides, in generation order.
//
// Precondition: src must be non-nil.
// Postcondition: len(result) == count and every element is in [1, max].
func RollDice(src Source, count, max int) ([]int, error) {
	if count < 1 {
		return nil, invalidArgument("count must be a positive number, got %d", count)
	}
	if max < 1 {
		return nil, invalidArgument("max value must be a positive number, got %d", max)
	}
	if count > MaxDiceCount {
		return nil, invalidArgument("count %d exceeds the limit of %d dice", count, MaxDiceCount)
	}
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = src.Intn(max) + 1
	}
	return rolls, nil
}

// RollDiceWithSum rolls like RollDice and also reports the total.
//
// Postcondition: result.Sum == sum(result.Rolls).
func RollDiceWithSum(src Source, count, max int) (SumResult, error) {
	if count >= 1 && max > math.MaxInt/count {
		return SumResult{}, invalidArgument("%dd%d overflows the sum of rolls", count, max)
	}
	rolls, err := RollDice(src, count, max)
	if err != nil {
		return SumResult{}, err
	}
	return SumResult{
		Rolls: rolls,
		Sum:   sum(rolls),
		Count: count,
		Max:   max,
	}, nil
}

// Roll evaluates a parsed Notation using src.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Rolls) == n.Count; result.Sum == result.BaseSum + n.Modifier.
func Roll(src Source, n Notation) (NotationResult, error) {
	if err := n.validate(); err != nil {
		return NotationResult{}, err
	}
	rolls, err := RollDice(src, n.Count, n.Sides)
	if err != nil {
		return NotationResult{}, err
	}

	result := NotationResult{
		Notation: n.Raw,
		Rolls:    rolls,
		Modifier: n.Modifier,
		Count:    n.Count,
		Sides:    n.Sides,
	}

	switch n.Selector {
	case SelectorNone:
		result.BaseSum = sum(rolls)
	case SelectorMax, SelectorMin:
		selected := rolls[0]
		for _, v := range rolls[1:] {
			if (n.Selector == SelectorMax && v > selected) || (n.Selector == SelectorMin && v < selected) {
				selected = v
			}
		}
		result.SelectedFunction = n.Selector
		result.SelectedValue = &selected
		result.BaseSum = selected
	}

	result.Sum = result.BaseSum + result.Modifier
	return result, nil
}

// RollNotation parses notation and rolls it using src in a single call.
//
// Postcondition: Returns a NotationResult or an error wrapping ErrInvalidArgument.
func RollNotation(src Source, notation string) (NotationResult, error) {
	n, err := Parse(notation)
	if err != nil {
		return NotationResult{}, err
	}
	return Roll(src, n)
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
