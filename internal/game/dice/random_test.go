package dice_test

import (
	"math"
	"sort"
	"testing"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRandomBetween_SingleValue(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v, err := dice.RandomBetween(src, 5, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	}
}

func TestRandomBetween_MinGreaterThanMax(t *testing.T) {
	_, err := dice.RandomBetween(script(), 5, 1)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestRandomBetween_RangeTooLarge(t *testing.T) {
	_, err := dice.RandomBetween(script(), math.MinInt, math.MaxInt)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = dice.RandomBetween(script(), 0, math.MaxInt)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestRandomBetween_OffsetsSource(t *testing.T) {
	src := script(0, 10)
	v, err := dice.RandomBetween(src, -5, 5)
	require.NoError(t, err)
	assert.Equal(t, -5, v)
	v, err = dice.RandomBetween(src, -5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, []int{11, 11}, src.calls)
}

func TestRandomBetween_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-1_000_000, 1_000_000).Draw(rt, "min")
		hi := rapid.IntRange(lo, lo+1_000_000).Draw(rt, "max")
		v, err := dice.RandomBetween(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")), lo, hi)
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

func TestRandomChoice(t *testing.T) {
	items := []string{"a", "b", "c"}
	v, err := dice.RandomChoice(script(2), items)
	require.NoError(t, err)
	assert.Equal(t, "c", v)
	assert.Equal(t, []string{"a", "b", "c"}, items)
}

func TestRandomChoice_Empty(t *testing.T) {
	_, err := dice.RandomChoice(script(), []int{})
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = dice.RandomChoice[int](script(), nil)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestShuffle_FisherYatesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4}
	src := script(0, 2, 0)
	got := dice.Shuffle(src, items)
	assert.Equal(t, []int{2, 4, 3, 1}, got)
	assert.Equal(t, []int{4, 3, 2}, src.calls, "bounds must run from len down to 2")
	assert.Equal(t, []int{1, 2, 3, 4}, items, "input must be unchanged")
}

func TestShuffle_Empty(t *testing.T) {
	got := dice.Shuffle[int](script(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	got = dice.Shuffle(script(), []int{7})
	assert.Equal(t, []int{7}, got)
}

func TestShuffle_Permutation_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		items := rapid.SliceOf(rapid.IntRange(-100, 100)).Draw(rt, "items")
		orig := append([]int(nil), items...)
		got := dice.Shuffle(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")), items)

		assert.Equal(rt, orig, items, "input must be unchanged")
		sortedGot := append([]int(nil), got...)
		sortedOrig := append([]int(nil), orig...)
		sort.Ints(sortedGot)
		sort.Ints(sortedOrig)
		assert.Equal(rt, sortedOrig, sortedGot, "same multiset")
	})
}
