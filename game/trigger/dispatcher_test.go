package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openstreets/server/game/mission"
)

// recorder implements Effects and logs every call by name.
type recorder struct {
	calls     []string
	completed []*mission.RewardBundle
}

func (r *recorder) note(s string) { r.calls = append(r.calls, s) }

func (r *recorder) SetSpawn(x, y float64)               { r.note("spawn") }
func (r *recorder) SaveGame(x, y float64)               { r.note("save") }
func (r *recorder) OpenShop(x, y float64)               { r.note("shop") }
func (r *recorder) FireEvent(x, y float64)              { r.note("event") }
func (r *recorder) Teleport(x, y float64)               { r.note("teleport") }
func (r *recorder) SetCheckpoint(x, y float64)          { r.note("checkpoint") }
func (r *recorder) ParkVehicle(x, y float64)            { r.note("parking") }
func (r *recorder) CollectItem(x, y float64)            { r.note("collect_item") }
func (r *recorder) ShowDialog(m *mission.Mission)       { r.note("dialog") }
func (r *recorder) ChangeMap(t mission.MapTransition)   { r.note("map_transition") }
func (r *recorder) ActivateObject(x, y float64)         { r.note("activate") }
func (r *recorder) DestroyObject(x, y float64)          { r.note("destroy") }
func (r *recorder) DefendPoint(x, y float64)            { r.note("defend") }
func (r *recorder) EscapeZone(x, y float64)             { r.note("escape") }
func (r *recorder) WaitZone(x, y float64)               { r.note("wait") }
func (r *recorder) EscortPoint(x, y float64)            { r.note("escort") }
func (r *recorder) MissionStarted(m *mission.Mission)   { r.note("mission_started") }
func (r *recorder) MissionCompleted(m *mission.Mission, reward *mission.RewardBundle) {
	r.note("mission_completed")
	r.completed = append(r.completed, reward)
}

func newDispatcher(t *testing.T) (*Dispatcher, *mission.Registry, *recorder) {
	t.Helper()
	reg := mission.NewRegistry(zap.NewNop())
	rec := &recorder{}
	return NewDispatcher(reg, rec, zap.NewNop()), reg, rec
}

func TestEffectFor(t *testing.T) {
	assert.Equal(t, EffectSpawn, EffectFor(100))
	assert.Equal(t, EffectSave, EffectFor(103))
	assert.Equal(t, EffectEscort, EffectFor(120))
	assert.Equal(t, EffectNone, EffectFor(101), "gap in the general range")
	assert.Equal(t, EffectNone, EffectFor(42), "terrain")
	assert.Equal(t, EffectNone, EffectFor(121))

	assert.True(t, IsTerrain(42))
	assert.False(t, IsTerrain(100))
	assert.True(t, IsMissionLifecycle(110))
	assert.True(t, IsMissionLifecycle(120))
	assert.False(t, IsMissionLifecycle(109))
}

func TestHandleIgnoresTerrainAndUnknown(t *testing.T) {
	d, _, rec := newDispatcher(t)

	assert.False(t, d.Handle(0, 1, 1))
	assert.False(t, d.Handle(42, 1, 1))
	assert.False(t, d.Handle(101, 1, 1))
	assert.False(t, d.Handle(999, 1, 1))
	assert.Empty(t, rec.calls)
}

func TestHandleGeneralTriggers(t *testing.T) {
	d, _, rec := newDispatcher(t)

	for _, id := range []int{100, 103, 104, 106, 107, 108, 109} {
		assert.True(t, d.Handle(id, 2, 3))
	}
	assert.Equal(t,
		[]string{"spawn", "save", "shop", "event", "teleport", "checkpoint", "parking"},
		rec.calls)
}

func TestHandleStartsAndCompletesMission(t *testing.T) {
	d, reg, rec := newDispatcher(t)

	m := mission.New(1, "Package Run", "", mission.TypeCollection)
	m.StartTrigger = 110
	m.AddTargetTrigger(112, 2)
	require.NoError(t, reg.AddMission(m))

	assert.True(t, d.Handle(110, 0, 0))
	require.NotNil(t, reg.Active())

	assert.True(t, d.Handle(112, 5, 5))
	assert.True(t, d.Handle(112, 6, 5))

	assert.Equal(t,
		[]string{"mission_started", "collect_item", "collect_item", "mission_completed"},
		rec.calls)
	require.Len(t, rec.completed, 1)
	assert.Equal(t, m.Rewards.Money, rec.completed[0].Money)
	assert.Equal(t, mission.StatusCompleted, m.Status)
}

func TestHandleEndTriggerEvaluatesCompletion(t *testing.T) {
	d, reg, rec := newDispatcher(t)

	m := mission.New(1, "Stakeout", "", mission.TypeTrigger)
	m.EndTrigger = 111
	obj := m.AddObjective(mission.Objective{Kind: mission.ObjectiveTrigger, TriggerID: 115})
	require.NoError(t, reg.AddMission(m))
	require.NoError(t, reg.Start(1))

	// Objective still open: end trigger does not complete.
	assert.True(t, d.Handle(111, 0, 0))
	assert.Empty(t, rec.completed)
	assert.Equal(t, mission.StatusActive, m.Status)

	reg.CompleteObjective(obj.ID)
	assert.True(t, d.Handle(111, 0, 0))
	require.Len(t, rec.completed, 1)
	assert.Equal(t, mission.StatusCompleted, m.Status)
}

func TestHandleObjectiveTriggerOnlyAffectsBoundMission(t *testing.T) {
	d, reg, _ := newDispatcher(t)

	m := mission.New(1, "Pickup", "", mission.TypeCollection)
	m.AddTargetTrigger(105, 1)
	require.NoError(t, reg.AddMission(m))

	// No active mission: nothing happens.
	assert.True(t, d.Handle(105, 0, 0))
	assert.Equal(t, 0, m.Targets[0].CollectedCount)

	require.NoError(t, reg.Start(1))
	assert.True(t, d.Handle(105, 0, 0))
	assert.Equal(t, mission.StatusCompleted, m.Status)
}

func TestHandleMapTransitionUsesActiveMission(t *testing.T) {
	d, reg, rec := newDispatcher(t)

	// No active mission: the map transition effect is skipped.
	assert.True(t, d.Handle(114, 0, 0))
	assert.Empty(t, rec.calls)

	m := mission.New(1, "Getaway", "", mission.TypeMapTransition)
	m.Transition = mission.MapTransition{TargetMap: "suburbs", KeepInventory: true}
	m.AddTargetTrigger(114, 1)
	require.NoError(t, reg.AddMission(m))
	require.NoError(t, reg.Start(1))

	assert.True(t, d.Handle(114, 0, 0))
	assert.Equal(t, []string{"map_transition", "mission_completed"}, rec.calls)
}
