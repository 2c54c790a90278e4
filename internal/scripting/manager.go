package scripting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
)

// ErrUnknownMacro is returned by Call when no macro has the requested name.
var ErrUnknownMacro = errors.New("scripting: unknown macro")

// Manager owns one sandboxed LState holding the loaded macros.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	macros map[string]bool
	roller *dice.Roller
	logger *zap.Logger
	limit  int
}

// NewManager creates a Manager with no macros loaded.
//
// Precondition: roller and logger must be non-nil; limit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager.
func NewManager(roller *dice.Roller, logger *zap.Logger, limit int) *Manager {
	if roller == nil {
		panic("scripting: NewManager precondition violated: roller must be non-nil")
	}
	if logger == nil {
		panic("scripting: NewManager precondition violated: logger must be non-nil")
	}
	return &Manager{
		macros: make(map[string]bool),
		roller: roller,
		logger: logger,
		limit:  limit,
	}
}

// LoadDir creates a fresh VM, registers the dice and log modules, then executes
// every *.lua file in dir in lexicographic order. Global functions defined by
// those files whose names do not start with "_" become macros.
//
// Precondition: dir must be a readable directory.
// Postcondition: On success the previous VM (if any) is replaced; on error it is kept.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading macro dir %q: %w", dir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, cancel := NewSandboxedState(m.limit)
	m.RegisterModules(L)
	builtin := globalFunctions(L)

	for _, path := range luaFiles {
		cancel()
		cancel = withBudget(context.Background(), L, m.limit)
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	cancel()

	macros := make(map[string]bool)
	for name := range globalFunctions(L) {
		if !builtin[name] && !strings.HasPrefix(name, "_") {
			macros[name] = true
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.macros = macros
	m.mu.Unlock()

	m.logger.Info("macros loaded",
		zap.String("dir", dir),
		zap.Int("files", len(luaFiles)),
		zap.Int("macros", len(macros)),
	)
	return nil
}

func globalFunctions(L *lua.LState) map[string]bool {
	names := make(map[string]bool)
	L.G.Global.ForEach(func(k, v lua.LValue) {
		if _, ok := v.(*lua.LFunction); ok {
			if s, ok := k.(lua.LString); ok {
				names[string(s)] = true
			}
		}
	})
	return names
}

// Macros returns the names of the loaded macros in sorted order.
func (m *Manager) Macros() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.macros))
	for name := range m.macros {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Call invokes macro name with args and renders its first return value.
// Arguments that parse as numbers are passed as Lua numbers, all others as strings.
// Each call runs under a fresh instruction budget and is aborted when ctx is done.
//
// Postcondition: Returns ErrUnknownMacro (wrapped) when name is not loaded;
// Lua runtime errors are returned wrapped with the macro name.
func (m *Manager) Call(ctx context.Context, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil || !m.macros[name] {
		return "", fmt.Errorf("%w: %q", ErrUnknownMacro, name)
	}
	L := m.state

	luaArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		luaArgs[i] = toLua(a)
	}

	cancel := withBudget(ctx, L, m.limit)
	defer cancel()

	start := time.Now()
	top := L.GetTop()
	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal(name),
		NRet:    1,
		Protect: true,
	}, luaArgs...)
	if err != nil {
		L.SetTop(top)
		m.logger.Warn("macro failed",
			zap.String("macro", name),
			zap.Strings("args", args),
			zap.Error(err),
		)
		return "", fmt.Errorf("macro %q: %w", name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	out := render(ret)
	m.logger.Debug("macro call",
		zap.String("macro", name),
		zap.Strings("args", args),
		zap.String("result", out),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
	m.macros = make(map[string]bool)
}

func toLua(arg string) lua.LValue {
	if f, err := strconv.ParseFloat(arg, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return lua.LNumber(f)
	}
	return lua.LString(arg)
}

// maxRenderDepth bounds how deeply nested tables are rendered.
const maxRenderDepth = 32

// render formats v for display: arrays as "[a b c]", other tables as
// "{k=v ...}" with sorted keys, scalars as Lua's tostring would. A table
// that contains itself, or nesting deeper than maxRenderDepth, renders as "{...}".
func render(v lua.LValue) string {
	return renderValue(v, make(map[*lua.LTable]bool), 0)
}

func renderValue(v lua.LValue, open map[*lua.LTable]bool, depth int) string {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return v.String()
	}
	if open[tbl] || depth >= maxRenderDepth {
		return "{...}"
	}
	open[tbl] = true
	defer delete(open, tbl)

	if n := tbl.Len(); n > 0 {
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, renderValue(tbl.RawGetInt(i), open, depth+1))
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	var parts []string
	tbl.ForEach(func(k, val lua.LValue) {
		parts = append(parts, k.String()+"="+renderValue(val, open, depth+1))
	})
	sort.Strings(parts)
	return "{" + strings.Join(parts, " ") + "}"
}
