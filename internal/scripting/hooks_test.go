package scripting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/game/random"
	"github.com/cory-johannsen/boxing/internal/game/ring"
	"github.com/cory-johannsen/boxing/internal/scripting"
)

const recorderScript = `
entered = {}
bouts = {}
cleared = {}

function on_enter(b, corner)
	table.insert(entered, b.name .. "@" .. corner)
end

function on_bout(bout)
	table.insert(bouts, bout.winner.name .. ">" .. bout.loser.name)
	last_bout = bout
end

function on_clear(n)
	table.insert(cleared, n)
end

function summary()
	return table.concat(entered, ",") .. "|" .. table.concat(bouts, ",") .. "|" .. table.concat(cleared, ",")
end

function last_field(name)
	return last_bout[name]
end
`

type stubStats struct{}

func (stubStats) UpdateStats(context.Context, int64, boxer.Result) error { return nil }

func TestRingHooks_ForwardsRingEvents(t *testing.T) {
	e, _ := newTestEngine(t, recorderScript)
	hooks := scripting.NewRingHooks(e)

	src := random.SourceFunc(func(context.Context) (float64, error) { return 0.01, nil })
	r := ring.NewRing(src, stubStats{}, hooks)
	require.NoError(t, r.Admit(&boxer.Boxer{ID: 1, Name: "Ali", Weight: 150, Reach: 72.5, Age: 30}))
	require.NoError(t, r.Admit(&boxer.Boxer{ID: 2, Name: "Tyson", Weight: 160, Reach: 73, Age: 32}))

	winner, err := r.Fight(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ali", winner)

	assert.Equal(t, lua.LString("Ali@1,Tyson@2|Ali>Tyson|2"), e.Call("summary"))
	assert.Equal(t, lua.LNumber(0.01), e.Call("last_field", lua.LString("draw")))
	assert.Equal(t, lua.LTrue, e.Call("last_field", lua.LString("first_corner_won")))
}

func TestRingHooks_UndefinedHooksAreSkipped(t *testing.T) {
	e, logs := newTestEngine(t, `-- observes nothing`)
	hooks := scripting.NewRingHooks(e)

	assert.NotPanics(t, func() {
		hooks.BoxerEntered(&boxer.Boxer{ID: 1, Name: "Ali"}, 1)
		hooks.RingCleared(1)
	})
	assert.Zero(t, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestRingHooks_ScriptErrorDoesNotFailFight(t *testing.T) {
	e, logs := newTestEngine(t, `function on_bout(b) error("boom") end`)
	src := random.SourceFunc(func(context.Context) (float64, error) { return 0.9, nil })
	r := ring.NewRing(src, stubStats{}, scripting.NewRingHooks(e))
	require.NoError(t, r.Admit(&boxer.Boxer{ID: 1, Name: "Abe", Weight: 150, Reach: 70, Age: 30}))
	require.NoError(t, r.Admit(&boxer.Boxer{ID: 2, Name: "Bob", Weight: 150, Reach: 70, Age: 30}))

	winner, err := r.Fight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bob", winner)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestAnnouncer_UpsetFollowsSkillNotCorner(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e, err := scripting.NewEngine("../../content/scripts/ring", 0, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	hooks := scripting.NewRingHooks(e)

	weak := &boxer.Boxer{ID: 1, Name: "Weak"}
	strong := &boxer.Boxer{ID: 2, Name: "Strong"}
	cases := []struct {
		name  string
		bout  ring.Bout
		upset bool
	}{
		{"weaker first corner wins", ring.Bout{Winner: weak, Loser: strong, Skills: [2]float64{100, 200}, Probability: 0.9, Draw: 0.1}, true},
		{"weaker second corner wins", ring.Bout{Winner: weak, Loser: strong, Skills: [2]float64{200, 100}, Probability: 0.9, Draw: 0.95}, true},
		{"stronger second corner wins", ring.Bout{Winner: strong, Loser: weak, Skills: [2]float64{100, 200}, Probability: 0.9, Draw: 0.95}, false},
		{"stronger first corner wins", ring.Bout{Winner: strong, Loser: weak, Skills: [2]float64{200, 100}, Probability: 0.9, Draw: 0.1}, false},
	}
	for _, tc := range cases {
		logs.TakeAll()
		hooks.BoutResolved(tc.bout)

		entries := logs.FilterField(zap.String("source", "lua")).All()
		require.Len(t, entries, 1, tc.name)
		msg := tc.bout.Winner.Name + " defeats " + tc.bout.Loser.Name
		if tc.upset {
			msg += " in an upset"
		}
		assert.Equal(t, msg, entries[0].Message, tc.name)
	}
}
