package dice

import "math"

// RandomBetween returns a uniformly distributed int in [min, max] inclusive.
//
// Postcondition: Returns ErrInvalidArgument when min > max or when the range
// does not fit in an int.
func RandomBetween(src Source, min, max int) (int, error) {
	if min > max {
		return 0, invalidArgument("min value cannot be greater than max value (%d > %d)", min, max)
	}
	span := max - min
	if span < 0 || span == math.MaxInt {
		return 0, invalidArgument("range [%d, %d] is too large", min, max)
	}
	return min + src.Intn(span+1), nil
}

// RandomChoice returns one element of items chosen uniformly. items is not modified.
func RandomChoice[T any](src Source, items []T) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, invalidArgument("array must be a non-empty array")
	}
	return items[src.Intn(len(items))], nil
}

// Shuffle returns a new slice holding the elements of items in a uniformly
// random order (Fisher–Yates, last index down to 1). items is not modified.
//
// Postcondition: len(result) == len(items); result is never nil.
func Shuffle[T any](src Source, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
