package scripting_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
)

// callMacro loads body as the Lua function "m" and calls it.
func callMacro(t *testing.T, src dice.Source, body string) (string, error) {
	t.Helper()
	mgr, _ := newTestManager(t, src, 0)
	dir := writeTempLua(t, "m.lua", "function m()\n"+body+"\nend\n")
	require.NoError(t, mgr.LoadDir(dir))
	return mgr.Call(context.Background(), "m")
}

func TestDiceModule_Results(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"die default", `return dice.die()`, "3"},
		{"die max", `return dice.die(20)`, "3"},
		{"roll_dice", `return dice.roll_dice(3, 6)`, "[3 3 3]"},
		{"roll_dice default", `return dice.roll_dice()`, "[3]"},
		{"roll_sum", `local r = dice.roll_sum(2, 6) return r.sum .. "/" .. r.count .. "/" .. r.max`, "6/2/6"},
		{"roll", `local r = dice.roll("2d6+1") return r.sum`, "7"},
		{"roll fields", `local r = dice.roll("2d6+1") return r.base_sum .. "," .. r.modifier .. "," .. r.sides`, "6,1,6"},
		{"roll default", `local r = dice.roll() return r.count .. "d" .. r.sides`, "1d6"},
		{"roll selector", `local r = dice.roll("max(2d20)") return r.selected_function .. r.selected_value`, "max3"},
		{"roll no selector", `return tostring(dice.roll("1d6").selected_value)`, "nil"},
		{"between", `return dice.between(1, 10)`, "3"},
		{"between default", `return dice.between()`, "3"},
		{"choice", `return dice.choice({"a", "b", "c"})`, "c"},
		{"shuffle", `return dice.shuffle({"a", "b", "c"})`, "[b a c]"},
		{"shuffle empty", `return #dice.shuffle({})`, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := callMacro(t, fixedSource{v: 2}, tc.body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestDiceModule_InvalidArguments(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"roll number", `return dice.roll(123)`, "notation must be a string"},
		{"roll bad notation", `return dice.roll("foo")`, "invalid dice notation"},
		{"die string", `return dice.die("x")`, "max must be a number"},
		{"die fraction", `return dice.die(2.5)`, "max must be an integer"},
		{"die zero", `return dice.die(0)`, "invalid argument"},
		{"roll_dice count", `return dice.roll_dice("3", 6)`, "count must be a number"},
		{"roll_sum max", `return dice.roll_sum(1, {})`, "max must be a number"},
		{"between order", `return dice.between(10, 1)`, "invalid argument"},
		{"between type", `return dice.between(true, 1)`, "min must be a number"},
		{"choice type", `return dice.choice("abc")`, "items must be an array"},
		{"choice empty", `return dice.choice({})`, "invalid argument"},
		{"shuffle type", `return dice.shuffle(5)`, "items must be an array"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := callMacro(t, fixedSource{v: 2}, tc.body)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Contains(t, err.Error(), "dice: invalid argument")
		})
	}
}

func TestDiceModule_ErrorCatchableInLua(t *testing.T) {
	out, err := callMacro(t, fixedSource{}, `
		local ok, msg = pcall(dice.roll, 123)
		if ok then return "no error" end
		return "caught"
	`)
	require.NoError(t, err)
	assert.Equal(t, "caught", out)
}

func TestLogModule_AllLevels(t *testing.T) {
	mgr, logs := newTestManager(t, fixedSource{}, 0)
	dir := writeTempLua(t, "log.lua", `
		function do_all_logs()
			log.debug("d")
			log.info("i")
			log.warn("w")
			log.error("e")
		end
	`)
	require.NoError(t, mgr.LoadDir(dir))
	_, err := mgr.Call(context.Background(), "do_all_logs")
	require.NoError(t, err)

	levels := map[string]bool{}
	for _, e := range logs.FilterField(zap.String("source", "lua")).All() {
		levels[e.Level.String()] = true
	}
	assert.True(t, levels["debug"], "expected debug log")
	assert.True(t, levels["info"], "expected info log")
	assert.True(t, levels["warn"], "expected warn log")
	assert.True(t, levels["error"], "expected error log")
}

func TestProperty_DiceModule_DieInRange(t *testing.T) {
	mgr, _ := newTestManager(t, dice.NewSeededSource(42), 0)
	dir := writeTempLua(t, "d.lua", `function d(n) return dice.die(n) end`)
	require.NoError(t, mgr.LoadDir(dir))

	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.IntRange(1, 1000).Draw(rt, "max")
		out, err := mgr.Call(context.Background(), "d", strconv.Itoa(max))
		require.NoError(rt, err)
		v, err := strconv.Atoi(out)
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, v, 1)
		assert.LessOrEqual(rt, v, max)
	})
}
