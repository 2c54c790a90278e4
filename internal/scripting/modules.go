package scripting

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
)

// RegisterModules registers the dice and log Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: dice and log globals are defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	L.SetGlobal("dice", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"die":       m.luaDie,
		"roll_dice": m.luaRollDice,
		"roll_sum":  m.luaRollSum,
		"roll":      m.luaRoll,
		"between":   m.luaBetween,
		"choice":    m.luaChoice,
		"shuffle":   m.luaShuffle,
	}))
	L.SetGlobal("log", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": m.luaLog(zap.DebugLevel),
		"info":  m.luaLog(zap.InfoLevel),
		"warn":  m.luaLog(zap.WarnLevel),
		"error": m.luaLog(zap.ErrorLevel),
	}))
}

// raiseInvalid aborts the running Lua function with an invalid-argument message.
func raiseInvalid(L *lua.LState, format string, args ...any) {
	L.RaiseError("%s: %s", dice.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// raiseErr aborts the running Lua function with err's message.
func raiseErr(L *lua.LState, err error) {
	L.RaiseError("%s", err.Error())
}

// optInt returns argument n as an int, or def when it is absent or nil.
// Non-numbers and non-integral numbers raise an invalid-argument error.
func optInt(L *lua.LState, n int, name string, def int) int {
	v := L.Get(n)
	if v == lua.LNil {
		return def
	}
	num, ok := v.(lua.LNumber)
	if !ok {
		raiseInvalid(L, "%s must be a number, got %s", name, v.Type())
		return 0
	}
	f := float64(num)
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		raiseInvalid(L, "%s must be an integer, got %v", name, f)
		return 0
	}
	return int(f)
}

// optString returns argument n as a string, or def when it is absent or nil.
func optString(L *lua.LState, n int, name, def string) string {
	v := L.Get(n)
	if v == lua.LNil {
		return def
	}
	s, ok := v.(lua.LString)
	if !ok {
		raiseInvalid(L, "%s must be a string, got %s", name, v.Type())
		return ""
	}
	return string(s)
}

// checkArray returns the array part of argument n.
func checkArray(L *lua.LState, n int, name string) []lua.LValue {
	v := L.Get(n)
	tbl, ok := v.(*lua.LTable)
	if !ok {
		raiseInvalid(L, "%s must be an array, got %s", name, v.Type())
		return nil
	}
	items := make([]lua.LValue, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		items = append(items, tbl.RawGetInt(i))
	}
	return items
}

func intsTable(L *lua.LState, values []int) *lua.LTable {
	t := L.CreateTable(len(values), 0)
	for _, v := range values {
		t.Append(lua.LNumber(v))
	}
	return t
}

func (m *Manager) luaDie(L *lua.LState) int {
	max := optInt(L, 1, "max", dice.DefaultSides)
	v, err := m.roller.RollDie(max)
	if err != nil {
		raiseErr(L, err)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (m *Manager) luaRollDice(L *lua.LState) int {
	count := optInt(L, 1, "count", dice.DefaultCount)
	max := optInt(L, 2, "max", dice.DefaultSides)
	rolls, err := m.roller.RollDice(count, max)
	if err != nil {
		raiseErr(L, err)
		return 0
	}
	L.Push(intsTable(L, rolls))
	return 1
}

func (m *Manager) luaRollSum(L *lua.LState) int {
	count := optInt(L, 1, "count", dice.DefaultCount)
	max := optInt(L, 2, "max", dice.DefaultSides)
	res, err := m.roller.RollDiceWithSum(count, max)
	if err != nil {
		raiseErr(L, err)
		return 0
	}
	t := L.NewTable()
	t.RawSetString("rolls", intsTable(L, res.Rolls))
	t.RawSetString("sum", lua.LNumber(res.Sum))
	t.RawSetString("count", lua.LNumber(res.Count))
	t.RawSetString("max", lua.LNumber(res.Max))
	L.Push(t)
	return 1
}

func (m *Manager) luaRoll(L *lua.LState) int {
	notation := optString(L, 1, "notation", dice.DefaultNotation)
	res, err := m.roller.RollNotation(notation)
	if err != nil {
		raiseErr(L, err)
		return 0
	}
	t := L.NewTable()
	t.RawSetString("notation", lua.LString(res.Notation))
	t.RawSetString("rolls", intsTable(L, res.Rolls))
	t.RawSetString("base_sum", lua.LNumber(res.BaseSum))
	t.RawSetString("modifier", lua.LNumber(res.Modifier))
	t.RawSetString("sum", lua.LNumber(res.Sum))
	t.RawSetString("count", lua.LNumber(res.Count))
	t.RawSetString("sides", lua.LNumber(res.Sides))
	if res.SelectedValue != nil {
		t.RawSetString("selected_value", lua.LNumber(*res.SelectedValue))
		t.RawSetString("selected_function", lua.LString(res.SelectedFunction))
	}
	L.Push(t)
	return 1
}

func (m *Manager) luaBetween(L *lua.LState) int {
	min := optInt(L, 1, "min", 1)
	max := optInt(L, 2, "max", dice.DefaultSides)
	v, err := m.roller.RandomBetween(min, max)
	if err != nil {
		raiseErr(L, err)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (m *Manager) luaChoice(L *lua.LState) int {
	items := checkArray(L, 1, "items")
	v, err := dice.RandomChoice(m.roller.Source(), items)
	if err != nil {
		raiseErr(L, err)
		return 0
	}
	L.Push(v)
	return 1
}

func (m *Manager) luaShuffle(L *lua.LState) int {
	items := checkArray(L, 1, "items")
	shuffled := dice.Shuffle(m.roller.Source(), items)
	t := L.CreateTable(len(shuffled), 0)
	for _, v := range shuffled {
		t.Append(v)
	}
	L.Push(t)
	return 1
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}
