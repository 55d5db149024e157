package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/game/ring"
)

// Lua globals invoked for ring events.
const (
	HookEnter = "on_enter"
	HookBout  = "on_bout"
	HookClear = "on_clear"
)

// RingHooks forwards ring events to Lua:
//
//	on_enter(boxer, corner)
//	on_bout(bout)
//	on_clear(removed)
//
// Boxers are passed as tables with id, name, weight, height, reach, age,
// weight_class, fights and wins fields.
type RingHooks struct {
	engine *Engine
}

var _ ring.Hook = (*RingHooks)(nil)

// NewRingHooks creates RingHooks dispatching into engine.
//
// Precondition: engine must be non-nil.
func NewRingHooks(engine *Engine) *RingHooks {
	return &RingHooks{engine: engine}
}

// BoxerEntered calls on_enter.
func (h *RingHooks) BoxerEntered(b *boxer.Boxer, corner int) {
	h.engine.CallWith(HookEnter, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{boxerTable(L, b), lua.LNumber(corner)}
	})
}

// BoutResolved calls on_bout.
func (h *RingHooks) BoutResolved(bout ring.Bout) {
	h.engine.CallWith(HookBout, func(L *lua.LState) []lua.LValue {
		t := L.NewTable()
		L.SetField(t, "id", lua.LString(bout.ID.String()))
		L.SetField(t, "winner", boxerTable(L, bout.Winner))
		L.SetField(t, "loser", boxerTable(L, bout.Loser))
		skills := L.NewTable()
		for _, s := range bout.Skills {
			skills.Append(lua.LNumber(s))
		}
		L.SetField(t, "skills", skills)
		L.SetField(t, "delta", lua.LNumber(bout.Delta))
		L.SetField(t, "probability", lua.LNumber(bout.Probability))
		L.SetField(t, "draw", lua.LNumber(bout.Draw))
		L.SetField(t, "first_corner_won", lua.LBool(bout.FirstCornerWon()))
		return []lua.LValue{t}
	})
}

// RingCleared calls on_clear.
func (h *RingHooks) RingCleared(removed int) {
	h.engine.CallWith(HookClear, func(*lua.LState) []lua.LValue {
		return []lua.LValue{lua.LNumber(removed)}
	})
}

func boxerTable(L *lua.LState, b *boxer.Boxer) *lua.LTable {
	t := L.NewTable()
	if b == nil {
		return t
	}
	L.SetField(t, "id", lua.LNumber(b.ID))
	L.SetField(t, "name", lua.LString(b.Name))
	L.SetField(t, "weight", lua.LNumber(b.Weight))
	L.SetField(t, "height", lua.LNumber(b.Height))
	L.SetField(t, "reach", lua.LNumber(b.Reach))
	L.SetField(t, "age", lua.LNumber(b.Age))
	L.SetField(t, "weight_class", lua.LString(string(b.WeightClass)))
	L.SetField(t, "fights", lua.LNumber(b.Fights))
	L.SetField(t, "wins", lua.LNumber(b.Wins))
	return t
}
