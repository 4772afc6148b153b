package world

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openstreets/server/game/mission"
	"github.com/openstreets/server/game/npc"
	"github.com/openstreets/server/model"
)

// playerSection is the player column of a save slot: the player plus
// the bits of world state that travel with them.
type playerSection struct {
	Player       Player      `json:"player"`
	CurrentMap   string      `json:"current_map"`
	MissionTimer float64     `json:"mission_timer"`
	KillCounts   map[int]int `json:"kill_counts"`
}

// Save persists the world into the given slot, overwriting any
// previous save there.
func (w *World) Save(db *gorm.DB, slot int, name string) error {
	w.mu.Lock()

	ps := playerSection{
		Player:       w.player,
		CurrentMap:   w.currentMap,
		MissionTimer: w.missionTimer,
		KillCounts:   w.killCounts,
	}
	npcs := make([]npc.NPC, 0, len(w.npcs))
	for _, n := range w.npcs {
		npcs = append(npcs, *n)
	}
	vehicles := make([]Vehicle, 0, len(w.vehicles))
	for _, v := range w.vehicles {
		vehicles = append(vehicles, *v)
	}
	w.mu.Unlock()

	playerJSON, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	missionsJSON, err := json.Marshal(w.reg.Snapshot())
	if err != nil {
		return err
	}
	npcsJSON, err := json.Marshal(npcs)
	if err != nil {
		return err
	}
	vehiclesJSON, err := json.Marshal(vehicles)
	if err != nil {
		return err
	}

	save := model.SaveSlot{
		Slot:     slot,
		Name:     name,
		Player:   playerJSON,
		Missions: missionsJSON,
		NPCs:     npcsJSON,
		Vehicles: vehiclesJSON,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		UpdateAll: true,
	}).Create(&save).Error
	if err != nil {
		return err
	}

	w.logger.Info("world saved",
		zap.Int("slot", slot),
		zap.String("name", name),
		zap.Int("npcs", len(npcs)))
	return nil
}

// ErrNoSave is returned by Load when the slot has never been saved.
var ErrNoSave = errors.New("save slot is empty")

// Load restores the world from a save slot. Each section is decoded
// independently; a corrupt or missing section falls back to defaults
// while the healthy sections still load. The only hard error is the
// slot not existing at all.
func (w *World) Load(db *gorm.DB, slot int) error {
	var save model.SaveSlot
	if err := db.Where("slot = ?", slot).First(&save).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSave
		}
		return err
	}

	var ps playerSection
	playerOK := json.Unmarshal(save.Player, &ps) == nil && ps.Player.MaxHP > 0

	var missionSnap mission.Snapshot
	missionsOK := json.Unmarshal(save.Missions, &missionSnap) == nil && len(missionSnap.Missions) > 0

	var npcs []npc.NPC
	npcsOK := json.Unmarshal(save.NPCs, &npcs) == nil && len(npcs) > 0

	var vehicles []Vehicle
	vehiclesOK := json.Unmarshal(save.Vehicles, &vehicles) == nil

	if missionsOK {
		w.reg.Restore(missionSnap)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if playerOK {
		w.player = ps.Player
		w.currentMap = ps.CurrentMap
		w.missionTimer = ps.MissionTimer
		w.killCounts = ps.KillCounts
		if w.killCounts == nil {
			w.killCounts = make(map[int]int)
		}
		if w.currentMap == "" {
			w.currentMap = "downtown"
		}
	} else {
		w.player = Player{
			Speed:   w.cfg.PlayerSpeed,
			Health:  w.cfg.PlayerHealth,
			MaxHP:   w.cfg.PlayerHealth,
			Money:   w.cfg.StartingMoney,
			FacingX: 1,
		}
		w.missionTimer = 0
		w.killCounts = make(map[int]int)
		// The timer lives in the player section. If a timed mission
		// survived the load, re-arm it instead of letting the first
		// tick expire it.
		if m := w.reg.Active(); m != nil && m.TimeLimit > 0 {
			w.missionTimer = m.TimeLimit
		}
	}

	if npcsOK {
		w.npcs = make(map[int]*npc.NPC, len(npcs))
		maxID := 0
		for i := range npcs {
			n := npcs[i]
			n.AttachRand(w.rng)
			w.npcs[n.ID] = &n
			if n.ID > maxID {
				maxID = n.ID
			}
		}
		w.nextNPCID = maxID + 1
	} else {
		w.seedNPCsLocked()
	}

	if vehiclesOK && len(vehicles) > 0 {
		w.vehicles = make(map[int]*Vehicle, len(vehicles))
		maxID := 0
		for i := range vehicles {
			v := vehicles[i]
			w.vehicles[v.ID] = &v
			if v.ID > maxID {
				maxID = v.ID
			}
		}
		w.nextVehicleID = maxID + 1
	} else {
		w.seedVehiclesLocked()
	}

	// A ride saved mid-drive may reference a car that fell out of a
	// corrupt vehicle section.
	if w.player.VehicleID != 0 && w.vehicles[w.player.VehicleID] == nil {
		w.player.VehicleID = 0
	}

	w.shots = nil

	w.logger.Info("world loaded",
		zap.Int("slot", slot),
		zap.Bool("player_section", playerOK),
		zap.Bool("mission_section", missionsOK),
		zap.Bool("npc_section", npcsOK),
		zap.Bool("vehicle_section", vehiclesOK))
	return nil
}
