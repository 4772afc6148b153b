package world

import (
	"go.uber.org/zap"

	"github.com/openstreets/server/game/item"
	"github.com/openstreets/server/game/mission"
	"github.com/openstreets/server/game/trigger"
)

// World implements trigger.Effects. The dispatcher only runs inside
// MovePlayer, Interact, Tick and StartMission, so every method here is
// entered with the world lock already held and must not lock again.
var _ trigger.Effects = (*World)(nil)

// SetSpawn places the world spawn anchor. The checkpoint follows it
// until an actual checkpoint is touched.
func (w *World) SetSpawn(x, y float64) {
	w.player.SpawnX, w.player.SpawnY = x, y
	if w.player.CheckpointX == 0 && w.player.CheckpointY == 0 {
		w.player.CheckpointX, w.player.CheckpointY = x, y
	}
}

// SaveGame flags that a save point was touched; the server loop picks
// the flag up and persists a snapshot.
func (w *World) SaveGame(x, y float64) {
	w.saveRequested = true
	w.publish("save_point", map[string]any{"x": x, "y": y})
}

// OpenShop announces a shop at (x, y). The shop UI lives client-side;
// the world only emits the event with the purchasable catalog.
func (w *World) OpenShop(x, y float64) {
	w.publish("shop_opened", map[string]any{"x": x, "y": y})
}

// FireEvent triggers a scripted map event.
func (w *World) FireEvent(x, y float64) {
	w.publish("map_event", map[string]any{"x": x, "y": y})
}

// Teleport moves the player.
func (w *World) Teleport(x, y float64) {
	w.player.X, w.player.Y = x, y
	w.clampPlayerLocked()
	w.publish("teleport", map[string]any{"x": x, "y": y})
}

// SetCheckpoint advances the respawn anchor.
func (w *World) SetCheckpoint(x, y float64) {
	w.player.CheckpointX, w.player.CheckpointY = x, y
	w.publish("checkpoint", map[string]any{"x": x, "y": y})
}

// ParkVehicle spawns a parked car at a parking trigger, once.
func (w *World) ParkVehicle(x, y float64) {
	for _, v := range w.vehicles {
		if v.X == x && v.Y == y {
			return
		}
	}
	v := &Vehicle{ID: w.nextVehicleID, Kind: "sedan", X: x, Y: y, Speed: 3.0}
	w.nextVehicleID++
	w.vehicles[v.ID] = v
}

// CollectItem consumes a pickup tile.
func (w *World) CollectItem(x, y float64) {
	w.tiles.Set(int(x), int(y), 0)
	w.publish("item_collected", map[string]any{"x": x, "y": y})
}

// ShowDialog opens the active mission's dialog tree from its first
// node. With no mission or no dialogs it stays silent.
func (w *World) ShowDialog(m *mission.Mission) {
	if m == nil || len(m.Dialogs) == 0 {
		return
	}
	node := m.Dialogs[0]
	w.publish("dialog", map[string]any{
		"mission_id": m.ID,
		"dialog_id":  node.ID,
		"character":  node.Character,
		"text":       node.Text,
	})
}

// ChangeMap applies a mission map transition: new map name, player
// moved to the spawn anchor, inventory optionally wiped. The NPC
// population and vehicles are reseeded for the new map.
func (w *World) ChangeMap(t mission.MapTransition) {
	if t.TargetMap == "" {
		return
	}
	w.currentMap = t.TargetMap
	if !t.KeepInventory {
		w.player.Inventory = nil
	}
	w.player.X, w.player.Y = w.player.SpawnX, w.player.SpawnY
	w.player.CheckpointX, w.player.CheckpointY = w.player.SpawnX, w.player.SpawnY
	w.player.VehicleID = 0
	w.shots = nil
	w.seedNPCsLocked()
	w.seedVehiclesLocked()
	w.publish("map_changed", map[string]any{"map": t.TargetMap})

	w.logger.Info("map transition",
		zap.String("map", t.TargetMap),
		zap.Bool("keep_inventory", t.KeepInventory))
}

// ActivateObject flips an activatable object on.
func (w *World) ActivateObject(x, y float64) {
	w.publish("object_activated", map[string]any{"x": x, "y": y})
}

// DestroyObject removes a destructible object tile.
func (w *World) DestroyObject(x, y float64) {
	w.tiles.Set(int(x), int(y), 0)
	w.publish("object_destroyed", map[string]any{"x": x, "y": y})
}

// DefendPoint marks a defend zone engagement.
func (w *World) DefendPoint(x, y float64) {
	w.publish("defend_point", map[string]any{"x": x, "y": y})
}

// EscapeZone marks the player reaching an escape zone.
func (w *World) EscapeZone(x, y float64) {
	w.publish("escape_zone", map[string]any{"x": x, "y": y})
}

// WaitZone marks the player entering a wait zone.
func (w *World) WaitZone(x, y float64) {
	w.publish("wait_zone", map[string]any{"x": x, "y": y})
}

// EscortPoint marks an escort waypoint reached.
func (w *World) EscortPoint(x, y float64) {
	w.publish("escort_point", map[string]any{"x": x, "y": y})
}

// MissionStarted arms the mission timer and clears elimination
// progress for the fresh attempt.
func (w *World) MissionStarted(m *mission.Mission) {
	w.missionTimer = m.TimeLimit
	w.killCounts = make(map[int]int)
	w.publish("mission_started", map[string]any{
		"mission_id": m.ID,
		"name":       m.Name,
		"time_limit": m.TimeLimit,
	})
}

// MissionCompleted pays the reward bundle out to the player.
func (w *World) MissionCompleted(m *mission.Mission, reward *mission.RewardBundle) {
	w.missionTimer = 0
	if reward != nil {
		w.applyRewardsLocked(reward)
	}
	w.publish("mission_completed", map[string]any{
		"mission_id": m.ID,
		"name":       m.Name,
	})
	if m.Transition.TargetMap != "" {
		w.ChangeMap(m.Transition)
	}
}

// applyRewardsLocked credits money and experience and stacks reward
// items into the inventory.
func (w *World) applyRewardsLocked(b *mission.RewardBundle) {
	w.player.Money += b.Money
	w.player.Experience += b.Experience
	for _, ri := range b.Items {
		w.player.Inventory = item.Add(w.player.Inventory, w.reg.Items(), ri.ItemID, ri.Quantity)
	}
	w.logger.Info("rewards applied",
		zap.Int("money", b.Money),
		zap.Int("experience", b.Experience),
		zap.Int("items", len(b.Items)))
}
