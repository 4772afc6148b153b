package npc

import "math/rand"

// Behavior is an NPC's current behavior state. Archetypes define the
// default; chase and flee are transient states the engine enters and
// leaves at runtime.
type Behavior string

const (
	BehaviorIdle       Behavior = "idle"
	BehaviorPatrol     Behavior = "patrol"
	BehaviorAggressive Behavior = "aggressive"
	BehaviorPassive    Behavior = "passive"
	BehaviorChase      Behavior = "chase"
	BehaviorFlee       Behavior = "flee"
)

// Archetype selects an NPC's parameter set.
type Archetype string

const (
	ArchetypeCop      Archetype = "cop"
	ArchetypeGangster Archetype = "gangster"
	ArchetypeCivilian Archetype = "civilian"
	ArchetypeDealer   Archetype = "dealer"
	ArchetypeMedic    Archetype = "medic"
	ArchetypeDriver   Archetype = "driver"
)

// Params are the per-archetype tuning values. Zero fields fall back to
// the engine defaults when an NPC is built.
type Params struct {
	Name        string
	Behavior    Behavior
	Speed       float64
	Health      int
	VisionRange float64
	AttackRange float64
	Damage      int
}

// Engine defaults applied where an archetype leaves a field zero.
const (
	defaultHealth      = 100
	defaultVisionRange = 5
	defaultAttackRange = 1
	defaultDamage      = 10

	// State machine tuning. Chase gives up at 1.5x vision so an NPC at
	// the vision edge does not flap between states; flee calms down at
	// twice vision and runs at 1.5x speed.
	chaseExitFactor = 1.5
	fleeExitFactor  = 2.0
	fleeSpeedFactor = 1.5

	waypointThreshold = 0.5
	attackCooldownS   = 1.0

	idleTurnChance = 0.01
	idleMoveChance = 0.8
)

var archetypes = map[Archetype]Params{
	ArchetypeCop: {
		Name:        "Cop",
		Behavior:    BehaviorPatrol,
		Speed:       0.8,
		VisionRange: 8,
	},
	ArchetypeGangster: {
		Name:        "Gangster",
		Behavior:    BehaviorAggressive,
		Speed:       0.7,
		VisionRange: 6,
		Damage:      15,
	},
	ArchetypeCivilian: {
		Name:        "Civilian",
		Behavior:    BehaviorIdle,
		Speed:       0.4,
		VisionRange: 3,
	},
	ArchetypeDealer: {
		Name:     "Dealer",
		Behavior: BehaviorIdle,
		Speed:    0.3,
	},
	ArchetypeMedic: {
		Name:     "Medic",
		Behavior: BehaviorPassive,
		Speed:    0.5,
	},
	ArchetypeDriver: {
		Name:     "Driver",
		Behavior: BehaviorPatrol,
		Speed:    1.0,
	},
}

// ParamsFor returns the parameter set for an archetype with engine
// defaults filled in. Unknown archetypes get the full default set with
// a randomized walking speed.
func ParamsFor(a Archetype, rng *rand.Rand) Params {
	p, ok := archetypes[a]
	if !ok {
		p = Params{Name: string(a), Behavior: BehaviorIdle, Speed: 0.5 + rng.Float64()*0.5}
	}
	if p.Speed == 0 {
		p.Speed = 0.5 + rng.Float64()*0.5
	}
	if p.Health == 0 {
		p.Health = defaultHealth
	}
	if p.VisionRange == 0 {
		p.VisionRange = defaultVisionRange
	}
	if p.AttackRange == 0 {
		p.AttackRange = defaultAttackRange
	}
	if p.Damage == 0 {
		p.Damage = defaultDamage
	}
	if p.Behavior == "" {
		p.Behavior = BehaviorIdle
	}
	return p
}

// Archetypes returns the known archetype table, for catalogs and the
// admin API.
func Archetypes() map[Archetype]Params {
	out := make(map[Archetype]Params, len(archetypes))
	for k, v := range archetypes {
		out[k] = v
	}
	return out
}
