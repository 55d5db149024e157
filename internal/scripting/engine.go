package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine owns one sandboxed LState loaded from a script directory and
// dispatches hook calls into it.
//
// Engine is safe for concurrent use; calls into the VM are serialized.
type Engine struct {
	mu     sync.Mutex
	ls     *lua.LState
	limit  int
	logger *zap.Logger
}

// NewEngine creates a sandboxed VM, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory; logger must be non-nil;
// instLimit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a ready Engine or an error naming the failing file.
func NewEngine(scriptDir string, instLimit int, logger *zap.Logger) (*Engine, error) {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	e := &Engine{
		ls:     NewSandboxedState(),
		limit:  instLimit,
		logger: logger,
	}
	e.registerModules()

	for _, path := range luaFiles {
		if err := WithBudget(e.ls, e.limit, func() error { return e.ls.DoFile(path) }); err != nil {
			e.ls.Close()
			return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	logger.Info("ring scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return e, nil
}

// Call invokes the named Lua global function. Returns LNil if the hook is not
// defined. Lua runtime errors, including an exhausted instruction budget, are
// logged at Warn level and never propagated.
//
// Precondition: args must be scalar values or values created on this Engine's state.
// Postcondition: Returns the first return value of the hook, or LNil.
func (e *Engine) Call(hook string, args ...lua.LValue) lua.LValue {
	return e.CallWith(hook, func(*lua.LState) []lua.LValue { return args })
}

// CallWith is Call with arguments built on the VM under the engine lock.
// build is not invoked when the hook is undefined.
func (e *Engine) CallWith(hook string, build func(L *lua.LState) []lua.LValue) lua.LValue {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.ls.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil
	}
	args := build(e.ls)

	err := WithBudget(e.ls, e.limit, func() error {
		return e.ls.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		e.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}

	ret := e.ls.Get(-1)
	e.ls.Pop(1)
	return ret
}

// Close releases the VM.
//
// Postcondition: The Engine must not be used after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ls.Close()
}
