package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with notation, dice values, modifier, and sum.
type Roller struct {
	src      Source
	logger   *zap.Logger
	maxCount int
}

// RollerOption configures a Roller.
type RollerOption func(*Roller)

// WithMaxCount rejects notations and dice requests rolling more than n dice.
// n <= 0 disables the limit.
func WithMaxCount(n int) RollerOption {
	return func(r *Roller) { r.maxCount = n }
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger, opts ...RollerOption) *Roller {
	if src == nil {
		panic("dice: NewLoggedRoller precondition violated: src must be non-nil")
	}
	if logger == nil {
		panic("dice: NewLoggedRoller precondition violated: logger must be non-nil")
	}
	r := &Roller{src: src, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the randomness provider behind r.
func (r *Roller) Source() Source { return r.src }

// RollDie rolls one die of max sides.
func (r *Roller) RollDie(max int) (int, error) {
	v, err := RollDie(r.src, max)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("die roll", zap.Int("max", max), zap.Int("value", v))
	return v, nil
}

// RollDice rolls count dice of max sides.
func (r *Roller) RollDice(count, max int) ([]int, error) {
	if err := r.checkCount(count); err != nil {
		return nil, err
	}
	rolls, err := RollDice(r.src, count, max)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("dice roll",
		zap.Int("count", count),
		zap.Int("max", max),
		zap.Ints("dice", rolls),
	)
	return rolls, nil
}

// RollDiceWithSum rolls count dice of max sides and totals them.
func (r *Roller) RollDiceWithSum(count, max int) (SumResult, error) {
	if err := r.checkCount(count); err != nil {
		return SumResult{}, err
	}
	result, err := RollDiceWithSum(r.src, count, max)
	if err != nil {
		return SumResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.Int("count", count),
		zap.Int("max", max),
		zap.Ints("dice", result.Rolls),
		zap.Int("sum", result.Sum),
	)
	return result, nil
}

// Roll evaluates n and logs the result at debug level.
//
// Postcondition: result logged; returns NotationResult or error.
func (r *Roller) Roll(n Notation) (NotationResult, error) {
	if err := r.checkCount(n.Count); err != nil {
		return NotationResult{}, err
	}
	result, err := Roll(r.src, n)
	if err != nil {
		return NotationResult{}, err
	}
	fields := []zap.Field{
		zap.String("notation", result.Notation),
		zap.Ints("dice", result.Rolls),
		zap.Int("modifier", result.Modifier),
		zap.Int("sum", result.Sum),
	}
	if result.SelectedFunction != SelectorNone {
		fields = append(fields, zap.String("selector", string(result.SelectedFunction)))
	}
	r.logger.Debug("notation roll", fields...)
	return result, nil
}

// RollNotation parses notation and rolls it, logging the result.
func (r *Roller) RollNotation(notation string) (NotationResult, error) {
	n, err := Parse(notation)
	if err != nil {
		return NotationResult{}, err
	}
	return r.Roll(n)
}

// RandomBetween returns a value in [min, max].
func (r *Roller) RandomBetween(min, max int) (int, error) {
	v, err := RandomBetween(r.src, min, max)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("random between", zap.Int("min", min), zap.Int("max", max), zap.Int("value", v))
	return v, nil
}

func (r *Roller) checkCount(count int) error {
	if r.maxCount > 0 && count > r.maxCount {
		return invalidArgument("count %d exceeds the limit of %d dice", count, r.maxCount)
	}
	return nil
}
