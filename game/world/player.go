package world

import "github.com/openstreets/server/game/item"

// Player is the single controlled character of a world.
type Player struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Speed  float64 `json:"speed"`
	Health int     `json:"health"`
	MaxHP  int     `json:"max_hp"`
	Armor  int     `json:"armor"`

	// Facing is the last movement direction, normalized. Ranged
	// attacks with no explicit target fire along it.
	FacingX float64 `json:"facing_x"`
	FacingY float64 `json:"facing_y"`

	Money      int          `json:"money"`
	Experience int          `json:"experience"`
	Inventory  []item.Stack `json:"inventory"`

	// Respawn anchors. Spawn is where trigger 100 put the player;
	// Checkpoint moves forward as checkpoints are touched.
	SpawnX      float64 `json:"spawn_x"`
	SpawnY      float64 `json:"spawn_y"`
	CheckpointX float64 `json:"checkpoint_x"`
	CheckpointY float64 `json:"checkpoint_y"`

	VehicleID int `json:"vehicle_id"` // 0 when on foot
}

// Vehicle is a drivable car parked or in use on the map.
type Vehicle struct {
	ID       int     `json:"id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Speed    float64 `json:"speed"`
	Occupied bool    `json:"occupied"`
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool {
	return p.Health > 0
}

// respawn returns the player to the last checkpoint at full health.
func (p *Player) respawn() {
	p.X, p.Y = p.CheckpointX, p.CheckpointY
	p.Health = p.MaxHP
	p.VehicleID = 0
}
