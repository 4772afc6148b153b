package npc

import (
	"math"
	"math/rand"
)

// Point is a map position in tile units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NPC is one live character. All exported fields are part of the save
// snapshot; the rng is attached by whoever owns the NPC.
type NPC struct {
	ID        int       `json:"id"`
	Archetype Archetype `json:"archetype"`
	Name      string    `json:"name"`

	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"` // radians

	Behavior        Behavior `json:"behavior"`
	DefaultBehavior Behavior `json:"default_behavior"`

	Speed       float64 `json:"speed"`
	Health      int     `json:"health"`
	MaxHealth   int     `json:"max_health"`
	VisionRange float64 `json:"vision_range"`
	AttackRange float64 `json:"attack_range"`
	Damage      int     `json:"damage"`

	PatrolPoints []Point `json:"patrol_points,omitempty"`
	PatrolIndex  int     `json:"patrol_index"`

	AttackCooldown float64 `json:"attack_cooldown"` // seconds until next attack

	rng *rand.Rand
}

// New creates an NPC of the given archetype at (x, y). Patrol archetypes
// get 3-5 waypoints scattered within 5 tiles of the spawn.
func New(id int, a Archetype, x, y float64, rng *rand.Rand) *NPC {
	p := ParamsFor(a, rng)
	n := &NPC{
		ID:              id,
		Archetype:       a,
		Name:            p.Name,
		X:               x,
		Y:               y,
		Heading:         rng.Float64() * 2 * math.Pi,
		Behavior:        p.Behavior,
		DefaultBehavior: p.Behavior,
		Speed:           p.Speed,
		Health:          p.Health,
		MaxHealth:       p.Health,
		VisionRange:     p.VisionRange,
		AttackRange:     p.AttackRange,
		Damage:          p.Damage,
		rng:             rng,
	}
	if p.Behavior == BehaviorPatrol {
		count := 3 + rng.Intn(3)
		for i := 0; i < count; i++ {
			n.PatrolPoints = append(n.PatrolPoints, Point{
				X: x + (rng.Float64()*2-1)*5,
				Y: y + (rng.Float64()*2-1)*5,
			})
		}
	}
	return n
}

// AttachRand wires a random source onto an NPC restored from a
// snapshot.
func (n *NPC) AttachRand(rng *rand.Rand) {
	n.rng = rng
}

// Alive reports whether the NPC still has health.
func (n *NPC) Alive() bool {
	return n.Health > 0
}

func (n *NPC) distanceTo(x, y float64) float64 {
	return math.Hypot(n.X-x, n.Y-y)
}

// Update advances the NPC by one tick and returns damage dealt to the
// player this tick. Dead NPCs do nothing. deltaMs is wall time since
// the previous tick; step distance scales with it so tick jitter does
// not change walking speed.
func (n *NPC) Update(deltaMs, playerX, playerY, width, height float64) int {
	if !n.Alive() {
		return 0
	}

	if n.AttackCooldown > 0 {
		n.AttackCooldown -= deltaMs / 1000
		if n.AttackCooldown < 0 {
			n.AttackCooldown = 0
		}
	}

	step := n.Speed * deltaMs / 16
	dist := n.distanceTo(playerX, playerY)
	damage := 0

	switch n.Behavior {
	case BehaviorPassive:
		// Passive NPCs hold their post.

	case BehaviorIdle:
		n.wander(step)

	case BehaviorPatrol:
		n.patrol(step)

	case BehaviorAggressive:
		if dist <= n.VisionRange {
			n.Behavior = BehaviorChase
		} else {
			n.wander(step)
		}

	case BehaviorChase:
		switch {
		case dist > n.VisionRange*chaseExitFactor:
			n.Behavior = n.DefaultBehavior
		case dist <= n.AttackRange:
			if n.AttackCooldown == 0 {
				damage = n.Damage
				n.AttackCooldown = attackCooldownS
			}
		default:
			n.moveToward(playerX, playerY, step)
		}

	case BehaviorFlee:
		if dist > n.VisionRange*fleeExitFactor {
			// Fled NPCs calm down to idle rather than resuming
			// their old route.
			n.Behavior = BehaviorIdle
		} else {
			n.moveAway(playerX, playerY, step*fleeSpeedFactor)
		}
	}

	n.clamp(width, height)
	return damage
}

// TakeDamage applies damage and returns true when the NPC died. A
// surviving non-hostile NPC runs, hostile ones turn on the attacker,
// and passive ones stand their ground.
func (n *NPC) TakeDamage(dmg int) bool {
	if !n.Alive() {
		return false
	}
	n.Health -= dmg
	if n.Health <= 0 {
		n.Health = 0
		return true
	}
	switch n.DefaultBehavior {
	case BehaviorAggressive:
		n.Behavior = BehaviorChase
	case BehaviorPassive:
		// Medics and the like never run or retaliate.
	default:
		n.Behavior = BehaviorFlee
	}
	return false
}

// wander drifts in the current heading, occasionally picking a new one.
func (n *NPC) wander(step float64) {
	if n.rng.Float64() < idleTurnChance {
		n.Heading = n.rng.Float64() * 2 * math.Pi
	}
	if n.rng.Float64() < idleMoveChance {
		n.X += math.Cos(n.Heading) * step
		n.Y += math.Sin(n.Heading) * step
	}
}

// patrol walks the waypoint loop, advancing when close enough to the
// current target.
func (n *NPC) patrol(step float64) {
	if len(n.PatrolPoints) == 0 {
		n.wander(step)
		return
	}
	target := n.PatrolPoints[n.PatrolIndex%len(n.PatrolPoints)]
	if n.distanceTo(target.X, target.Y) < waypointThreshold {
		n.PatrolIndex = (n.PatrolIndex + 1) % len(n.PatrolPoints)
		target = n.PatrolPoints[n.PatrolIndex]
	}
	n.moveToward(target.X, target.Y, step)
}

func (n *NPC) moveToward(x, y, step float64) {
	dx, dy := x-n.X, y-n.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return
	}
	if step > d {
		step = d
	}
	n.X += dx / d * step
	n.Y += dy / d * step
	n.Heading = math.Atan2(dy, dx)
}

func (n *NPC) moveAway(x, y, step float64) {
	dx, dy := n.X-x, n.Y-y
	d := math.Hypot(dx, dy)
	if d == 0 {
		// Standing on the threat: pick a random escape direction.
		n.Heading = n.rng.Float64() * 2 * math.Pi
		dx, dy, d = math.Cos(n.Heading), math.Sin(n.Heading), 1
	}
	n.X += dx / d * step
	n.Y += dy / d * step
	n.Heading = math.Atan2(dy, dx)
}

func (n *NPC) clamp(width, height float64) {
	if n.X < 0 {
		n.X = 0
	} else if n.X > width {
		n.X = width
	}
	if n.Y < 0 {
		n.Y = 0
	} else if n.Y > height {
		n.Y = height
	}
}
