package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstreets/server/game/npc"
	"github.com/openstreets/server/game/trigger"
)

func TestWorldState(t *testing.T) {
	ts := newTestServer(t)

	w := getJSON(ts.router, "/api/world/state", ts.token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)

	assert.Equal(t, "downtown", resp["map"])
	player := resp["player"].(map[string]interface{})
	assert.Equal(t, 100.0, player["health"])
	assert.Nil(t, resp["active_mission"])
}

func TestWorldMove(t *testing.T) {
	ts := newTestServer(t)

	w := postJSON(ts.router, "/api/world/move", ts.token,
		map[string]interface{}{"dx": 1, "dy": 0, "delta_ms": 16})
	require.Equal(t, http.StatusOK, w.Code)
	player := decode(t, w)["player"].(map[string]interface{})
	assert.InDelta(t, 3.0, player["x"].(float64), 1e-9)
}

func TestWorldInteractCollectsMissionTrigger(t *testing.T) {
	ts := newTestServer(t)

	require.Equal(t, http.StatusOK,
		postJSON(ts.router, "/api/missions/1/start", ts.token, nil).Code)

	// Place a pickup under the player and collect it three times.
	for i := 0; i < 3; i++ {
		ts.world.Map().Set(0, 0, trigger.IDCollectItem)
		w := postJSON(ts.router, "/api/world/interact", ts.token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["handled"])
	}

	w := getJSON(ts.router, "/api/missions/1", ts.token)
	m := decode(t, w)["mission"].(map[string]interface{})
	assert.Equal(t, "completed", m["status"])

	// Rewards were applied through completion.
	state := decode(t, getJSON(ts.router, "/api/world/state", ts.token))
	player := state["player"].(map[string]interface{})
	assert.Equal(t, 500.0, player["money"])
}

func TestWorldAttackRanged(t *testing.T) {
	ts := newTestServer(t)

	w := postJSON(ts.router, "/api/world/attack/ranged", ts.token,
		map[string]interface{}{"target_x": 10, "target_y": 0})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode(t, w)["projectile"].(map[string]interface{})
	assert.Equal(t, 60.0, p["lifetime"])
}

func TestWorldAttackMeleeCountsHits(t *testing.T) {
	ts := newTestServer(t)
	ts.world.SpawnNPC(npc.ArchetypeCivilian, 0.5, 0.5)

	w := postJSON(ts.router, "/api/world/attack/melee", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["hit"])
}

func TestVehicleEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := postJSON(ts.router, "/api/world/vehicle/enter", ts.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "no car nearby")

	w = postJSON(ts.router, "/api/world/vehicle/exit", ts.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "not driving")
}
