package npc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testW = 50.0
	testH = 50.0
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestArchetypeParams(t *testing.T) {
	rng := testRand()

	cop := ParamsFor(ArchetypeCop, rng)
	assert.Equal(t, BehaviorPatrol, cop.Behavior)
	assert.Equal(t, 8.0, cop.VisionRange)
	assert.Equal(t, 0.8, cop.Speed)
	assert.Equal(t, 100, cop.Health)
	assert.Equal(t, 10, cop.Damage)

	gangster := ParamsFor(ArchetypeGangster, rng)
	assert.Equal(t, BehaviorAggressive, gangster.Behavior)
	assert.Equal(t, 15, gangster.Damage)
	assert.Equal(t, 6.0, gangster.VisionRange)

	civ := ParamsFor(ArchetypeCivilian, rng)
	assert.Equal(t, BehaviorIdle, civ.Behavior)
	assert.Equal(t, 3.0, civ.VisionRange)

	medic := ParamsFor(ArchetypeMedic, rng)
	assert.Equal(t, BehaviorPassive, medic.Behavior)
	assert.Equal(t, 0.5, medic.Speed)

	// Unknown archetypes get engine defaults and a randomized speed.
	odd := ParamsFor("street_performer", rng)
	assert.Equal(t, BehaviorIdle, odd.Behavior)
	assert.Equal(t, 5.0, odd.VisionRange)
	assert.GreaterOrEqual(t, odd.Speed, 0.5)
	assert.LessOrEqual(t, odd.Speed, 1.0)
}

func TestPatrolArchetypesGetWaypoints(t *testing.T) {
	n := New(1, ArchetypeCop, 20, 20, testRand())
	require.GreaterOrEqual(t, len(n.PatrolPoints), 3)
	require.LessOrEqual(t, len(n.PatrolPoints), 5)
	for _, p := range n.PatrolPoints {
		assert.InDelta(t, 20, p.X, 5)
		assert.InDelta(t, 20, p.Y, 5)
	}

	civ := New(2, ArchetypeCivilian, 20, 20, testRand())
	assert.Empty(t, civ.PatrolPoints)
}

func TestAggressiveSpotsAndChasesPlayer(t *testing.T) {
	n := New(1, ArchetypeGangster, 10, 10, testRand())

	// Player outside vision: keeps wandering.
	n.Update(16, 30, 30, testW, testH)
	assert.Equal(t, BehaviorAggressive, n.Behavior)

	// Player steps into vision: switches to chase and closes in.
	n.Update(50, 14, 10, testW, testH)
	assert.Equal(t, BehaviorChase, n.Behavior)

	before := n.distanceTo(14, 10)
	n.Update(50, 14, 10, testW, testH)
	assert.Less(t, n.distanceTo(14, 10), before)
}

func TestChaseAttacksWithCooldown(t *testing.T) {
	n := New(1, ArchetypeGangster, 10, 10, testRand())
	n.Behavior = BehaviorChase

	// In attack range: first tick hits, the next ticks are on cooldown.
	dmg := n.Update(50, 10.5, 10, testW, testH)
	assert.Equal(t, 15, dmg)

	total := 0
	elapsed := 0.0
	for elapsed < 950 {
		total += n.Update(50, 10.5, 10, testW, testH)
		elapsed += 50
	}
	assert.Zero(t, total, "cooldown holds for a full second")

	dmg = n.Update(100, 10.5, 10, testW, testH)
	assert.Equal(t, 15, dmg)
}

func TestChaseGivesUpBeyondHysteresisRange(t *testing.T) {
	n := New(1, ArchetypeGangster, 10, 10, testRand())
	n.Behavior = BehaviorChase

	// Beyond vision but inside 1.5x vision: keeps chasing.
	n.Update(50, 10+n.VisionRange*1.4, 10, testW, testH)
	assert.Equal(t, BehaviorChase, n.Behavior)

	// Beyond 1.5x vision: gives up and reverts to its default.
	n.X, n.Y = 10, 10
	n.Update(50, 10+n.VisionRange*1.6, 10, testW, testH)
	assert.Equal(t, BehaviorAggressive, n.Behavior)
}

func TestCivilianFleesWhenHurt(t *testing.T) {
	n := New(1, ArchetypeCivilian, 10, 10, testRand())

	dead := n.TakeDamage(30)
	assert.False(t, dead)
	assert.Equal(t, BehaviorFlee, n.Behavior)
	assert.Equal(t, 70, n.Health)

	// Fleeing moves away from the player, faster than walking.
	before := n.distanceTo(12, 10)
	n.Update(50, 12, 10, testW, testH)
	assert.Greater(t, n.distanceTo(12, 10), before)

	// Player far beyond twice vision: calms back down.
	n.Update(50, 40, 40, testW, testH)
	assert.Equal(t, BehaviorIdle, n.Behavior)
}

func TestMedicHoldsPost(t *testing.T) {
	n := New(1, ArchetypeMedic, 10, 10, testRand())
	require.Equal(t, BehaviorPassive, n.Behavior)

	// Never moves on its own, player nearby or not.
	for i := 0; i < 20; i++ {
		n.Update(50, 11, 10, testW, testH)
	}
	assert.Equal(t, 10.0, n.X)
	assert.Equal(t, 10.0, n.Y)

	// Taking a hit does not send a medic running.
	require.False(t, n.TakeDamage(30))
	assert.Equal(t, BehaviorPassive, n.Behavior)
	n.Update(50, 11, 10, testW, testH)
	assert.Equal(t, 10.0, n.X)
}

func TestFleeCalmsDownToIdle(t *testing.T) {
	n := New(1, ArchetypeCop, 10, 10, testRand())
	require.Equal(t, BehaviorPatrol, n.DefaultBehavior)
	require.False(t, n.TakeDamage(30))
	require.Equal(t, BehaviorFlee, n.Behavior)

	// Out of danger a spooked patroller idles instead of resuming
	// its route.
	n.Update(50, 45, 45, testW, testH)
	assert.Equal(t, BehaviorIdle, n.Behavior)
}

func TestHostileRetaliatesWhenHurt(t *testing.T) {
	n := New(1, ArchetypeGangster, 10, 10, testRand())
	require.False(t, n.TakeDamage(10))
	assert.Equal(t, BehaviorChase, n.Behavior)
}

func TestTakeDamageKills(t *testing.T) {
	n := New(1, ArchetypeCivilian, 10, 10, testRand())
	assert.False(t, n.TakeDamage(99))
	assert.True(t, n.TakeDamage(1))
	assert.Equal(t, 0, n.Health)
	assert.False(t, n.Alive())

	assert.False(t, n.TakeDamage(50), "dead NPCs absorb nothing")
	assert.Zero(t, n.Update(50, 10, 10, testW, testH), "dead NPCs do not act")
}

func TestPatrolAdvancesWaypoints(t *testing.T) {
	n := New(1, ArchetypeDriver, 25, 25, testRand())
	require.NotEmpty(t, n.PatrolPoints)

	first := n.PatrolPoints[0]
	for i := 0; i < 500 && n.PatrolIndex == 0; i++ {
		n.Update(50, 0, 0, testW, testH)
	}
	assert.Equal(t, 1, n.PatrolIndex, "reached the first waypoint")
	assert.Less(t, n.distanceTo(first.X, first.Y), 4.0, "at most one step past the waypoint")
}

func TestUpdateClampsToBounds(t *testing.T) {
	n := New(1, ArchetypeCivilian, 0, 0, testRand())
	n.Behavior = BehaviorFlee

	// Fleeing from a nearby player pushes into the corner.
	for i := 0; i < 50; i++ {
		n.Update(50, 2, 2, testW, testH)
	}
	assert.GreaterOrEqual(t, n.X, 0.0)
	assert.GreaterOrEqual(t, n.Y, 0.0)
}

func TestStepScalesWithDelta(t *testing.T) {
	a := New(1, ArchetypeGangster, 10, 10, testRand())
	b := New(2, ArchetypeGangster, 10, 10, testRand())
	a.Behavior = BehaviorChase
	b.Behavior = BehaviorChase

	a.Update(32, 15, 10, testW, testH)
	b.Update(16, 15, 10, testW, testH)
	b.Update(16, 15, 10, testW, testH)

	assert.InDelta(t, a.X, b.X, 1e-9, "two half ticks cover one full tick")
}
