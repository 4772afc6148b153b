package combat

import (
	"math"
	"math/rand"
)

// Combat tuning. Melee is a short-radius swing around the attacker;
// projectiles fly in a straight line and die on lifetime, bounds, or
// first hit.
const (
	MeleeRadius = 1.5
	MeleeDamage = 10

	ProjectileSpeed    = 10.0 // tiles per second
	ProjectileLifetime = 60   // ticks
	HitRadius          = 0.5

	lootChance = 0.3
	lootItemID = "money_small"
)

// Projectile is one bullet in flight.
type Projectile struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	DirX     float64 `json:"dir_x"`
	DirY     float64 `json:"dir_y"`
	Speed    float64 `json:"speed"`
	Damage   int     `json:"damage"`
	Lifetime int     `json:"lifetime"` // remaining ticks
}

// NewProjectile spawns a bullet at (x, y) flying toward (tx, ty). A
// degenerate zero-length direction shoots along +x.
func NewProjectile(id int, x, y, tx, ty float64, damage int) *Projectile {
	dx, dy := tx-x, ty-y
	d := math.Hypot(dx, dy)
	if d == 0 {
		dx, dy, d = 1, 0, 1
	}
	if damage <= 0 {
		damage = MeleeDamage
	}
	return &Projectile{
		ID:       id,
		X:        x,
		Y:        y,
		DirX:     dx / d,
		DirY:     dy / d,
		Speed:    ProjectileSpeed,
		Damage:   damage,
		Lifetime: ProjectileLifetime,
	}
}

// Step advances the projectile by one tick and reports whether it
// expired (lifetime spent or left the map).
func (p *Projectile) Step(deltaMs, width, height float64) bool {
	step := p.Speed * deltaMs / 1000
	p.X += p.DirX * step
	p.Y += p.DirY * step
	p.Lifetime--
	if p.Lifetime <= 0 {
		return true
	}
	return p.X < 0 || p.X > width || p.Y < 0 || p.Y > height
}

// Hits reports whether the projectile is within hit radius of (x, y).
func (p *Projectile) Hits(x, y float64) bool {
	return math.Hypot(p.X-x, p.Y-y) <= HitRadius
}

// InMeleeRange reports whether a melee swing from (ax, ay) reaches
// (tx, ty).
func InMeleeRange(ax, ay, tx, ty float64) bool {
	return math.Hypot(ax-tx, ay-ty) <= MeleeRadius
}

// RollLoot rolls the drop table for a killed NPC. Returns the dropped
// item id, or ok=false when nothing drops.
func RollLoot(rng *rand.Rand) (string, bool) {
	if rng.Float64() < lootChance {
		return lootItemID, true
	}
	return "", false
}
