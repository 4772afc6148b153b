package world

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/openstreets/server/cache"
	"github.com/openstreets/server/config"
	"github.com/openstreets/server/game/combat"
	"github.com/openstreets/server/game/item"
	"github.com/openstreets/server/game/mission"
	"github.com/openstreets/server/game/npc"
	"github.com/openstreets/server/game/trigger"
)

// EventChannel is the pubsub channel world events are published on.
const EventChannel = "game.events"

// interactRange is how close an NPC has to be for Interact to talk to
// it instead of scanning tiles.
const interactRange = 1.5

// World is one simulated city: the map, the player, the NPC
// population, projectiles in flight, and the mission registry. All
// public methods are safe for concurrent use; the tick loop and the
// REST handlers share it.
type World struct {
	mu     sync.Mutex
	cfg    config.GameConfig
	logger *zap.Logger
	rng    *rand.Rand

	reg      *mission.Registry
	dispatch *trigger.Dispatcher
	pub      cache.PubSub

	tiles      *TileMap
	currentMap string
	player     Player
	npcs       map[int]*npc.NPC
	vehicles   map[int]*Vehicle
	shots      []*combat.Projectile

	nextNPCID     int
	nextVehicleID int
	nextShotID    int

	missionTimer  float64     // seconds left on the active mission, 0 = untimed
	killCounts    map[int]int // objective id -> kills this attempt
	saveRequested bool

	ticks uint64
}

// New builds a world from config with an empty map and a player at the
// origin. Call Seed or Load before ticking.
func New(cfg config.GameConfig, reg *mission.Registry, pub cache.PubSub, logger *zap.Logger, rng *rand.Rand) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	w := &World{
		cfg:           cfg,
		logger:        logger,
		rng:           rng,
		reg:           reg,
		pub:           pub,
		tiles:         NewTileMap(cfg.WorldWidth, cfg.WorldHeight),
		currentMap:    "downtown",
		npcs:          make(map[int]*npc.NPC),
		vehicles:      make(map[int]*Vehicle),
		nextNPCID:     1,
		nextVehicleID: 1,
		nextShotID:    1,
		killCounts:    make(map[int]int),
	}
	w.player = Player{
		Speed:   cfg.PlayerSpeed,
		Health:  cfg.PlayerHealth,
		MaxHP:   cfg.PlayerHealth,
		Money:   cfg.StartingMoney,
		FacingX: 1,
	}
	w.dispatch = trigger.NewDispatcher(reg, w, logger)
	return w
}

// Registry exposes the mission registry for the API layer.
func (w *World) Registry() *mission.Registry {
	return w.reg
}

// Map returns the tile grid. Callers must treat it as read-only.
func (w *World) Map() *TileMap {
	return w.tiles
}

// CurrentMap returns the name of the loaded map.
func (w *World) CurrentMap() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentMap
}

// Default street population, spawned when no save provides one.
var defaultPopulation = []struct {
	archetype npc.Archetype
	count     int
}{
	{npc.ArchetypeCivilian, 8},
	{npc.ArchetypeGangster, 4},
	{npc.ArchetypeCop, 3},
	{npc.ArchetypeDealer, 2},
	{npc.ArchetypeDriver, 2},
	{npc.ArchetypeMedic, 1},
}

// Seed populates an empty world with the default NPC population and a
// few parked cars.
func (w *World) Seed() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seedNPCsLocked()
	w.seedVehiclesLocked()
}

func (w *World) seedNPCsLocked() {
	w.npcs = make(map[int]*npc.NPC)
	for _, pop := range defaultPopulation {
		for i := 0; i < pop.count; i++ {
			x := w.rng.Float64() * float64(w.tiles.Width)
			y := w.rng.Float64() * float64(w.tiles.Height)
			n := npc.New(w.nextNPCID, pop.archetype, x, y, w.rng)
			w.npcs[n.ID] = n
			w.nextNPCID++
		}
	}
}

func (w *World) seedVehiclesLocked() {
	w.vehicles = make(map[int]*Vehicle)
	for i := 0; i < 3; i++ {
		v := &Vehicle{
			ID:    w.nextVehicleID,
			Kind:  "sedan",
			X:     w.rng.Float64() * float64(w.tiles.Width),
			Y:     w.rng.Float64() * float64(w.tiles.Height),
			Speed: 3.0,
		}
		w.vehicles[v.ID] = v
		w.nextVehicleID++
	}
}

// SpawnNPC adds one NPC of the given archetype and returns a copy of
// it.
func (w *World) SpawnNPC(a npc.Archetype, x, y float64) npc.NPC {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := npc.New(w.nextNPCID, a, x, y, w.rng)
	w.npcs[n.ID] = n
	w.nextNPCID++
	return *n
}

// Tick advances the simulation by deltaMs of wall time: NPC behavior,
// projectile flight and hits, the mission timer, and player death.
func (w *World) Tick(deltaMs float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticks++

	width := float64(w.tiles.Width)
	height := float64(w.tiles.Height)

	incoming := 0
	for _, n := range w.npcs {
		incoming += n.Update(deltaMs, w.player.X, w.player.Y, width, height)
	}

	w.stepShotsLocked(deltaMs, width, height)

	if m := w.reg.Active(); m != nil && m.TimeLimit > 0 {
		w.missionTimer -= deltaMs / 1000
		if w.missionTimer <= 0 {
			w.missionTimer = 0
			w.reg.Fail(m.ID, "time_out")
			w.publish("mission_failed", map[string]any{"mission_id": m.ID, "reason": "time_out"})
		}
	}

	if incoming > 0 && w.player.Alive() {
		// Armor soaks damage before health.
		if w.player.Armor > 0 {
			soak := min(w.player.Armor, incoming)
			w.player.Armor -= soak
			incoming -= soak
		}
		w.player.Health -= incoming
		if w.player.Health <= 0 {
			w.player.Health = 0
			w.onPlayerDownLocked()
		}
	}
}

func (w *World) stepShotsLocked(deltaMs, width, height float64) {
	alive := w.shots[:0]
	for _, p := range w.shots {
		expired := p.Step(deltaMs, width, height)
		if !expired {
			for _, n := range w.npcs {
				if n.Alive() && p.Hits(n.X, n.Y) {
					w.hitNPCLocked(n, p.Damage)
					expired = true
					break
				}
			}
		}
		if !expired {
			alive = append(alive, p)
		}
	}
	w.shots = alive
}

// hitNPCLocked applies damage and handles death: loot, elimination
// objectives, removal from the population.
func (w *World) hitNPCLocked(n *npc.NPC, dmg int) {
	if !n.TakeDamage(dmg) {
		return
	}
	w.logger.Debug("npc killed",
		zap.Int("npc_id", n.ID),
		zap.String("archetype", string(n.Archetype)))
	delete(w.npcs, n.ID)
	w.publish("npc_killed", map[string]any{"npc_id": n.ID, "archetype": string(n.Archetype)})

	if id, ok := combat.RollLoot(w.rng); ok {
		w.player.Inventory = item.Add(w.player.Inventory, w.reg.Items(), id, 1)
		w.publish("loot", map[string]any{"item_id": id})
	}

	w.countEliminationLocked(string(n.Archetype))
}

// countEliminationLocked advances any eliminate objective of the active
// mission that matches the killed archetype.
func (w *World) countEliminationLocked(archetype string) {
	m := w.reg.Active()
	if m == nil {
		return
	}
	for i := range m.Objectives {
		obj := &m.Objectives[i]
		if obj.Kind != mission.ObjectiveEliminate || obj.Completed {
			continue
		}
		if obj.Archetype != "" && obj.Archetype != archetype {
			continue
		}
		w.killCounts[obj.ID]++
		need := obj.Count
		if need < 1 {
			need = 1
		}
		if w.killCounts[obj.ID] >= need {
			w.reg.CompleteObjective(obj.ID)
			if reward, done := w.reg.CheckCompletion(); done {
				w.MissionCompleted(m, reward)
			}
		}
	}
}

// onPlayerDownLocked fails the active mission and respawns the player
// at the last checkpoint. Half the carried money is lost.
func (w *World) onPlayerDownLocked() {
	if m := w.reg.Active(); m != nil {
		w.reg.Fail(m.ID, "player_down")
		w.publish("mission_failed", map[string]any{"mission_id": m.ID, "reason": "player_down"})
	}
	w.publish("player_down", map[string]any{"x": w.player.X, "y": w.player.Y})
	w.player.Money /= 2
	w.player.respawn()
}

// walk-on triggers fire the moment the player steps on them; everything
// else waits for an explicit Interact.
func walkOnTrigger(id int) bool {
	switch id {
	case trigger.IDTeleport, trigger.IDCheckpoint, trigger.IDMapTransition,
		trigger.IDEscape, trigger.IDWait:
		return true
	}
	return false
}

// MovePlayer steps the player in direction (dx, dy) over deltaMs.
// Stepping onto a walk-on trigger tile fires it.
func (w *World) MovePlayer(dx, dy, deltaMs float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.player.Alive() {
		return
	}
	d := math.Hypot(dx, dy)
	if d == 0 {
		return
	}
	speed := w.player.Speed
	if v := w.vehicles[w.player.VehicleID]; v != nil {
		speed = v.Speed
	}
	step := speed * deltaMs / 16
	w.player.FacingX, w.player.FacingY = dx/d, dy/d
	w.player.X += dx / d * step
	w.player.Y += dy / d * step
	w.clampPlayerLocked()

	if v := w.vehicles[w.player.VehicleID]; v != nil {
		v.X, v.Y = w.player.X, w.player.Y
	}

	tx, ty := int(w.player.X), int(w.player.Y)
	if id := w.tiles.At(tx, ty); walkOnTrigger(id) {
		w.dispatch.Handle(id, float64(tx), float64(ty))
	}
}

func (w *World) clampPlayerLocked() {
	width := float64(w.tiles.Width)
	height := float64(w.tiles.Height)
	if w.player.X < 0 {
		w.player.X = 0
	} else if w.player.X > width {
		w.player.X = width
	}
	if w.player.Y < 0 {
		w.player.Y = 0
	} else if w.player.Y > height {
		w.player.Y = height
	}
}

// Interact checks the player's surroundings: a nearby NPC first
// (dealers open their shop, medics patch the player up, anyone else
// talks), then every trigger tile in the 3x3 block around the player.
// Returns whether anything responded.
func (w *World) Interact() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if n := w.nearestNPCLocked(interactRange); n != nil {
		switch n.Archetype {
		case npc.ArchetypeDealer:
			w.OpenShop(n.X, n.Y)
		case npc.ArchetypeMedic:
			w.player.Health = w.player.MaxHP
			w.publish("healed", map[string]any{"npc_id": n.ID})
		default:
			w.publish("npc_dialog", map[string]any{"npc_id": n.ID, "name": n.Name})
		}
		return true
	}

	px, py := int(w.player.X), int(w.player.Y)
	handled := false
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := px+dx, py+dy
			id := w.tiles.At(x, y)
			if trigger.IsTerrain(id) {
				continue
			}
			if w.dispatch.Handle(id, float64(x), float64(y)) {
				handled = true
			}
		}
	}
	return handled
}

func (w *World) nearestNPCLocked(within float64) *npc.NPC {
	var best *npc.NPC
	bestD := within
	for _, n := range w.npcs {
		if !n.Alive() {
			continue
		}
		d := math.Hypot(n.X-w.player.X, n.Y-w.player.Y)
		if d <= bestD {
			best, bestD = n, d
		}
	}
	return best
}

// AttackMelee swings at everything within melee radius and returns the
// number of NPCs hit.
func (w *World) AttackMelee() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	hit := 0
	for _, n := range w.npcs {
		if n.Alive() && combat.InMeleeRange(w.player.X, w.player.Y, n.X, n.Y) {
			w.hitNPCLocked(n, combat.MeleeDamage)
			hit++
		}
	}
	return hit
}

// AttackRanged fires a projectile from the player toward (tx, ty).
// A target on the player's own tile fires along the facing direction.
func (w *World) AttackRanged(tx, ty float64) combat.Projectile {
	w.mu.Lock()
	defer w.mu.Unlock()

	if tx == w.player.X && ty == w.player.Y {
		tx += w.player.FacingX
		ty += w.player.FacingY
	}
	p := combat.NewProjectile(w.nextShotID, w.player.X, w.player.Y, tx, ty, 0)
	w.nextShotID++
	w.shots = append(w.shots, p)
	return *p
}

// EnterVehicle puts the player in the nearest free vehicle, if one is
// in reach.
func (w *World) EnterVehicle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.player.VehicleID != 0 {
		return false
	}
	for _, v := range w.vehicles {
		if v.Occupied {
			continue
		}
		if math.Hypot(v.X-w.player.X, v.Y-w.player.Y) <= interactRange {
			v.Occupied = true
			w.player.VehicleID = v.ID
			w.publish("vehicle_entered", map[string]any{"vehicle_id": v.ID})
			return true
		}
	}
	return false
}

// ExitVehicle puts the player back on foot.
func (w *World) ExitVehicle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := w.vehicles[w.player.VehicleID]
	if v == nil {
		w.player.VehicleID = 0
		return false
	}
	v.Occupied = false
	v.X, v.Y = w.player.X, w.player.Y
	w.player.VehicleID = 0
	w.publish("vehicle_exited", map[string]any{"vehicle_id": v.ID})
	return true
}

// StartMission activates a mission through the API rather than a map
// trigger.
func (w *World) StartMission(id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.reg.Start(id); err != nil {
		return err
	}
	w.MissionStarted(w.reg.Mission(id))
	return nil
}

// PlayerState returns a copy of the player for the API layer.
func (w *World) PlayerState() Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := w.player
	p.Inventory = append([]item.Stack(nil), w.player.Inventory...)
	return p
}

// NPCs returns a snapshot copy of the live population.
func (w *World) NPCs() []npc.NPC {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]npc.NPC, 0, len(w.npcs))
	for _, n := range w.npcs {
		out = append(out, *n)
	}
	return out
}

// Vehicles returns a snapshot copy of the vehicles on the map.
func (w *World) Vehicles() []Vehicle {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Vehicle, 0, len(w.vehicles))
	for _, v := range w.vehicles {
		out = append(out, *v)
	}
	return out
}

// MissionTimer returns seconds left on the active mission, 0 when
// untimed.
func (w *World) MissionTimer() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.missionTimer
}

// Ticks returns how many simulation ticks have run.
func (w *World) Ticks() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticks
}

// ConsumeSaveRequest reports whether a save-point trigger fired since
// the last call and clears the flag.
func (w *World) ConsumeSaveRequest() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	req := w.saveRequested
	w.saveRequested = false
	return req
}

// publish emits a world event. Events are fire-and-forget.
func (w *World) publish(kind string, data map[string]any) {
	if w.pub == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{"type": kind, "data": data})
	if err != nil {
		return
	}
	if err := w.pub.Publish(context.Background(), EventChannel, string(payload)); err != nil {
		w.logger.Debug("event publish failed", zap.String("type", kind), zap.Error(err))
	}
}
