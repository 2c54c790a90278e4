package dice_test

import (
	"math"
	"testing"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRollDie_Range(t *testing.T) {
	src := dice.NewSeededSource(1)
	counts := make(map[int]int)
	const n = 10000
	for i := 0; i < n; i++ {
		v, err := dice.RollDie(src, 6)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
		counts[v]++
	}
	require.Len(t, counts, 6, "every face must appear")
	for face, c := range counts {
		assert.InDelta(t, n/6, c, 250, "face %d frequency", face)
	}
}

func TestRollDie_UsesSourceOffsetByOne(t *testing.T) {
	src := script(0, 5)
	v, err := dice.RollDie(src, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = dice.RollDie(src, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.Equal(t, []int{6, 6}, src.calls)
}

func TestRollDie_RejectsNonPositiveMax(t *testing.T) {
	for _, max := range []int{0, -1, -100} {
		_, err := dice.RollDie(script(), max)
		assert.ErrorIs(t, err, dice.ErrInvalidArgument, "max %d", max)
	}
}

func TestRollDice_OrderPreserved(t *testing.T) {
	rolls, err := dice.RollDice(script(2, 0, 7), 3, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 8}, rolls)
}

func TestRollDice_RejectsInvalidArguments(t *testing.T) {
	_, err := dice.RollDice(script(), 0, 6)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = dice.RollDice(script(), 2, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = dice.RollDice(script(), -3, -3)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestRollDice_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 50).Draw(rt, "count")
		max := rapid.IntRange(1, 1000).Draw(rt, "max")
		rolls, err := dice.RollDice(dice.NewCryptoSource(), count, max)
		require.NoError(rt, err)
		assert.Len(rt, rolls, count)
		for _, v := range rolls {
			assert.GreaterOrEqual(rt, v, 1)
			assert.LessOrEqual(rt, v, max)
		}
	})
}

func TestRollDiceWithSum(t *testing.T) {
	res, err := dice.RollDiceWithSum(script(3, 4, 0), 3, 6)
	require.NoError(t, err)
	assert.Equal(t, dice.SumResult{Rolls: []int{4, 5, 1}, Sum: 10, Count: 3, Max: 6}, res)
}

func TestRollDiceWithSum_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 50).Draw(rt, "count")
		max := rapid.IntRange(1, 100).Draw(rt, "max")
		seed := rapid.Int64().Draw(rt, "seed")
		res, err := dice.RollDiceWithSum(dice.NewSeededSource(seed), count, max)
		require.NoError(rt, err)
		total := 0
		for _, v := range res.Rolls {
			total += v
		}
		assert.Equal(rt, total, res.Sum)
		assert.Equal(rt, count, res.Count)
		assert.Equal(rt, max, res.Max)
	})
}

func TestRollDiceWithSum_PropagatesError(t *testing.T) {
	_, err := dice.RollDiceWithSum(script(), 0, 6)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestRollNotation_ThreeD6(t *testing.T) {
	res, err := dice.RollNotation(script(0, 2, 5), "3d6")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 6, res.Sides)
	assert.Equal(t, 0, res.Modifier)
	assert.Equal(t, []int{1, 3, 6}, res.Rolls)
	assert.Equal(t, 10, res.BaseSum)
	assert.Equal(t, res.BaseSum, res.Sum)
	assert.Nil(t, res.SelectedValue)
	assert.Equal(t, dice.SelectorNone, res.SelectedFunction)
}

func TestRollNotation_PositiveModifier(t *testing.T) {
	res, err := dice.RollNotation(script(13), "1d20+5")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 20, res.Sides)
	assert.Equal(t, 5, res.Modifier)
	assert.Equal(t, res.Rolls[0]+5, res.Sum)
	assert.Equal(t, 19, res.Sum)
}

func TestRollNotation_NegativeModifier(t *testing.T) {
	res, err := dice.RollNotation(script(0, 0), "2d8-2")
	require.NoError(t, err)
	assert.Equal(t, -2, res.Modifier)
	assert.Equal(t, 2, res.BaseSum)
	assert.Equal(t, 0, res.Sum)
}

func TestRollNotation_Max(t *testing.T) {
	res, err := dice.RollNotation(script(3, 16), "max(2d20)")
	require.NoError(t, err)
	assert.Equal(t, dice.SelectorMax, res.SelectedFunction)
	require.NotNil(t, res.SelectedValue)
	assert.Equal(t, 17, *res.SelectedValue)
	assert.Equal(t, 17, res.BaseSum)
	assert.Equal(t, 17, res.Sum)
	assert.Equal(t, []int{4, 17}, res.Rolls)
	assert.Equal(t, "max(2d20) → [4 17] max 17 +0 = 17", res.String())
}

func TestRollNotation_MinWithModifierInside(t *testing.T) {
	res, err := dice.RollNotation(script(4, 1, 5), "min(3d6+1)")
	require.NoError(t, err)
	assert.Equal(t, dice.SelectorMin, res.SelectedFunction)
	require.NotNil(t, res.SelectedValue)
	assert.Equal(t, 2, *res.SelectedValue)
	assert.Equal(t, 2, res.BaseSum)
	assert.Equal(t, 1, res.Modifier)
	assert.Equal(t, 3, res.Sum)
}

func TestRollNotation_MinModifierOutsideRejected(t *testing.T) {
	src := script()
	_, err := dice.RollNotation(src, "min(3d6)+1")
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	assert.Empty(t, src.calls, "no dice may be rolled for a rejected notation")
}

func TestRollNotation_EchoesOriginalNotation(t *testing.T) {
	res, err := dice.RollNotation(script(0, 0, 0), " 3d6 + 2 ")
	require.NoError(t, err)
	assert.Equal(t, " 3d6 + 2 ", res.Notation)
	assert.Equal(t, 5, res.Sum)
}

func TestRollNotation_Default(t *testing.T) {
	res, err := dice.RollNotation(script(2), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 6, res.Sides)
	assert.Equal(t, 3, res.Sum)
}

func TestRollNotation_Invalid(t *testing.T) {
	_, err := dice.RollNotation(script(), "foo")
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestRoll_RejectsHandBuiltInvalidNotation(t *testing.T) {
	_, err := dice.Roll(script(), dice.Notation{Count: 0, Sides: 6})
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = dice.Roll(script(0), dice.Notation{Count: 1, Sides: 6, Selector: "avg"})
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = dice.Roll(script(), dice.Notation{Count: 2, Sides: math.MaxInt})
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = dice.Roll(script(), dice.Notation{Count: 1, Sides: math.MaxInt, Modifier: 1})
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

// topSource always returns the highest face.
type topSource struct{}

func (topSource) Intn(n int) int { return n - 1 }

func TestRollNotation_HugeDiceKeepSumInvariant(t *testing.T) {
	res, err := dice.RollNotation(topSource{}, "1d9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, res.Sum)

	res, err = dice.RollNotation(topSource{}, "max(2d9223372036854775807)")
	require.NoError(t, err)
	assert.Equal(t, []int{math.MaxInt, math.MaxInt}, res.Rolls)
	assert.Equal(t, math.MaxInt, res.Sum)

	for _, in := range []string{"2d9223372036854775807", "1d9223372036854775807+1"} {
		_, err := dice.RollNotation(topSource{}, in)
		assert.ErrorIs(t, err, dice.ErrInvalidArgument, in)
	}
}

func TestRollDice_RejectsCountAboveCap(t *testing.T) {
	_, err := dice.RollDice(script(), dice.MaxDiceCount+1, 6)
	require.ErrorIs(t, err, dice.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "exceeds the limit")

	_, err = dice.RollNotation(script(), "99999999999999d6")
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestRollDiceWithSum_RejectsOverflowingSum(t *testing.T) {
	_, err := dice.RollDiceWithSum(script(), 2, math.MaxInt)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestRollNotation_SameSeedSameResult(t *testing.T) {
	a, err := dice.RollNotation(dice.NewSeededSource(99), "max(4d20+2)")
	require.NoError(t, err)
	b, err := dice.RollNotation(dice.NewSeededSource(99), "max(4d20+2)")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
