// Package scripting runs roll macros in a sandboxed GopherLua VM. Scripts
// reach the dice engine only through the dice and log modules registered
// by the Manager.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget used when no limit is configured.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's mainLoopWithContext calls Done() once per opcode, making this
// an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done decrements the remaining budget and returns the cancellation channel.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a child of parent that cancels after limit calls to Done().
//
// Precondition: limit > 0.
func newCountingContext(parent context.Context, limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(parent)
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{
		Context:   base,
		cancel:    cancel,
		remaining: rem,
	}, cancel
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultInstructionLimit
	}
	return limit
}

// withBudget installs a fresh opcode budget of limit on L, bound to parent.
//
// Postcondition: the returned cancel func must be called once the budgeted
// execution has finished.
func withBudget(parent context.Context, L *lua.LState, limit int) context.CancelFunc {
	ctx, cancel := newCountingContext(parent, effectiveLimit(limit))
	L.SetContext(ctx)
	return cancel
}

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, loadstring, collectgarbage, require
//   - Execution limited to at most limit Lua opcodes
//
// Precondition: limit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState and the cancel func of its initial
// budget. The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(limit int) (*lua.LState, context.CancelFunc) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L, withBudget(context.Background(), L, limit)
}
