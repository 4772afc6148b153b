package world

import (
	"fmt"

	"github.com/openstreets/server/game/npc"
	"github.com/openstreets/server/game/trigger"
	"github.com/openstreets/server/resource"
)

// ApplyMap builds the world from an authored map definition: grid,
// trigger tiles, missions, population, and vehicles. It replaces
// whatever the world held before.
func (w *World) ApplyMap(def *resource.MapDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	for _, m := range def.Missions {
		if err := w.reg.AddMission(m); err != nil {
			return fmt.Errorf("map %s: %w", def.Name, err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.currentMap = def.Name
	w.tiles = NewTileMap(def.Width, def.Height)
	for _, tp := range def.Triggers {
		w.tiles.Set(tp.X, tp.Y, tp.ID)
		if tp.ID == trigger.IDSpawn {
			w.player.SpawnX, w.player.SpawnY = float64(tp.X), float64(tp.Y)
			w.player.CheckpointX, w.player.CheckpointY = float64(tp.X), float64(tp.Y)
			w.player.X, w.player.Y = float64(tp.X), float64(tp.Y)
		}
	}

	w.npcs = make(map[int]*npc.NPC)
	for _, sp := range def.NPCs {
		count := sp.Count
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			x := sp.X + (w.rng.Float64()*2-1)*2
			y := sp.Y + (w.rng.Float64()*2-1)*2
			if x < 0 {
				x = 0
			} else if x > float64(def.Width) {
				x = float64(def.Width)
			}
			if y < 0 {
				y = 0
			} else if y > float64(def.Height) {
				y = float64(def.Height)
			}
			n := npc.New(w.nextNPCID, npc.Archetype(sp.Archetype), x, y, w.rng)
			w.npcs[n.ID] = n
			w.nextNPCID++
		}
	}

	w.vehicles = make(map[int]*Vehicle)
	for _, vs := range def.Vehicles {
		speed := vs.Speed
		if speed <= 0 {
			speed = 3.0
		}
		kind := vs.Kind
		if kind == "" {
			kind = "sedan"
		}
		v := &Vehicle{ID: w.nextVehicleID, Kind: kind, X: vs.X, Y: vs.Y, Speed: speed}
		w.vehicles[v.ID] = v
		w.nextVehicleID++
	}

	w.shots = nil
	return nil
}
