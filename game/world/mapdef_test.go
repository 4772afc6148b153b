package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstreets/server/game/mission"
	"github.com/openstreets/server/game/trigger"
	"github.com/openstreets/server/resource"
)

func TestApplyMapBuildsWorld(t *testing.T) {
	w := newTestWorld(t)

	def := &resource.MapDef{
		Name:   "harbor",
		Width:  30,
		Height: 20,
		Triggers: []resource.TriggerPlacement{
			{ID: trigger.IDSpawn, X: 3, Y: 3},
			{ID: trigger.IDCollectItem, X: 10, Y: 10},
		},
		NPCs: []resource.NPCSpawn{
			{Archetype: "gangster", X: 15, Y: 15, Count: 3},
			{Archetype: "medic", X: 5, Y: 5},
		},
		Vehicles: []resource.VehicleSpawn{
			{Kind: "truck", X: 8, Y: 8, Speed: 2.5},
			{X: 9, Y: 9},
		},
		Missions: []*mission.Mission{
			mission.New(1, "Dockside Pickup", "", mission.TypeCollection),
		},
	}

	require.NoError(t, w.ApplyMap(def))

	assert.Equal(t, "harbor", w.CurrentMap())
	assert.Equal(t, trigger.IDCollectItem, w.Map().At(10, 10))

	p := w.PlayerState()
	assert.Equal(t, 3.0, p.X)
	assert.Equal(t, 3.0, p.SpawnX)
	assert.Equal(t, 3.0, p.CheckpointX)

	assert.Len(t, w.NPCs(), 4)
	vehicles := w.Vehicles()
	require.Len(t, vehicles, 2)
	for _, v := range vehicles {
		assert.NotEmpty(t, v.Kind)
		assert.Greater(t, v.Speed, 0.0)
	}

	require.NotNil(t, w.Registry().Mission(1))
}

func TestApplyMapRejectsInvalid(t *testing.T) {
	w := newTestWorld(t)
	assert.Error(t, w.ApplyMap(&resource.MapDef{Name: "", Width: 10, Height: 10}))

	// A duplicate mission id against the already-registered set fails.
	require.NoError(t, w.Registry().AddMission(mission.New(7, "Existing", "", mission.TypeTrigger)))
	assert.Error(t, w.ApplyMap(&resource.MapDef{
		Name: "x", Width: 10, Height: 10,
		Missions: []*mission.Mission{mission.New(7, "Clash", "", mission.TypeTrigger)},
	}))
}
