package combat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectileNormalizesDirection(t *testing.T) {
	p := NewProjectile(1, 0, 0, 3, 4, 12)
	assert.InDelta(t, 0.6, p.DirX, 1e-9)
	assert.InDelta(t, 0.8, p.DirY, 1e-9)
	assert.Equal(t, 12, p.Damage)
	assert.Equal(t, ProjectileLifetime, p.Lifetime)

	// Firing at your own feet still produces a valid direction.
	self := NewProjectile(2, 5, 5, 5, 5, 0)
	assert.Equal(t, 1.0, self.DirX)
	assert.Equal(t, 0.0, self.DirY)
	assert.Equal(t, MeleeDamage, self.Damage)
}

func TestProjectileStepAndLifetime(t *testing.T) {
	p := NewProjectile(1, 10, 10, 20, 10, 10)

	expired := p.Step(50, 50, 50)
	assert.False(t, expired)
	assert.InDelta(t, 10.5, p.X, 1e-9, "10 tiles/s over 50ms")
	assert.Equal(t, 10.0, p.Y)

	for i := 0; i < ProjectileLifetime-2; i++ {
		require.False(t, p.Step(1, 1000, 1000))
	}
	assert.True(t, p.Step(1, 1000, 1000), "lifetime reached")
}

func TestProjectileExpiresOutOfBounds(t *testing.T) {
	p := NewProjectile(1, 49, 25, 60, 25, 10)
	expired := false
	for i := 0; i < 10 && !expired; i++ {
		expired = p.Step(50, 50, 50)
	}
	assert.True(t, expired)
	assert.Greater(t, p.Lifetime, 0, "bounds, not lifetime, killed it")
}

func TestProjectileHits(t *testing.T) {
	p := &Projectile{X: 10, Y: 10}
	assert.True(t, p.Hits(10.3, 10))
	assert.True(t, p.Hits(10, 10.5))
	assert.False(t, p.Hits(10.6, 10))
}

func TestInMeleeRange(t *testing.T) {
	assert.True(t, InMeleeRange(10, 10, 11, 11))
	assert.True(t, InMeleeRange(10, 10, 11.5, 10))
	assert.False(t, InMeleeRange(10, 10, 12, 10))
}

func TestRollLootRate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	drops := 0
	for i := 0; i < 10000; i++ {
		if id, ok := RollLoot(rng); ok {
			assert.Equal(t, "money_small", id)
			drops++
		}
	}
	assert.InDelta(t, 3000, drops, 300)
}
