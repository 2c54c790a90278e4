package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
)

func TestRoller_RollNotation_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(script(3, 16), zap.New(core))

	res, err := roller.RollNotation("max(2d20)")
	require.NoError(t, err)
	assert.Equal(t, 17, res.Sum)

	entries := logs.FilterMessage("notation roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "max(2d20)", fields["notation"])
	assert.Equal(t, int64(17), fields["sum"])
	assert.Equal(t, "max", fields["selector"])
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
}

func TestRoller_InvalidNotation_NotLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(script(), zap.New(core))
	_, err := roller.RollNotation("nope")
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	assert.Zero(t, logs.Len())
}

func TestRoller_WithMaxCount(t *testing.T) {
	src := script()
	roller := dice.NewLoggedRoller(src, zaptest.NewLogger(t), dice.WithMaxCount(10))

	_, err := roller.RollNotation("11d6")
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = roller.RollDice(11, 6)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = roller.RollDiceWithSum(11, 6)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	assert.Empty(t, src.calls)
}

func TestRoller_Primitives(t *testing.T) {
	roller := dice.NewLoggedRoller(script(5, 0, 1, 2, 3, 9), zaptest.NewLogger(t))

	v, err := roller.RollDie(6)
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	rolls, err := roller.RollDice(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rolls)

	sum, err := roller.RollDiceWithSum(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Sum)

	between, err := roller.RandomBetween(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, between)

	_, err = roller.RandomBetween(2, 1)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = roller.RollDie(0)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestNewLoggedRoller_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { dice.NewLoggedRoller(nil, zap.NewNop()) })
	assert.Panics(t, func() { dice.NewLoggedRoller(dice.NewCryptoSource(), nil) })
}

func TestRoller_Source(t *testing.T) {
	src := dice.NewSeededSource(1)
	roller := dice.NewLoggedRoller(src, zap.NewNop())
	assert.Same(t, src, roller.Source())
}
