package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/game/ring"
)

// registerModules installs the engine global:
//
//	engine.log.debug(msg) / info(msg) / warn(msg)
//	engine.win_probability(skill1, skill2)
func (e *Engine) registerModules() {
	L := e.ls
	engine := L.NewTable()

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": e.logger.Debug,
		"info":  e.logger.Info,
		"warn":  e.logger.Warn,
	} {
		logFn := fn
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	L.SetField(engine, "win_probability", L.NewFunction(func(L *lua.LState) int {
		p := ring.WinProbability(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
		L.Push(lua.LNumber(p))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
