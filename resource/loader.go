package resource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/openstreets/server/game/mission"
)

// MapDef is one authored city map: the grid dimensions, trigger tile
// placements, the street population, parked cars, and the missions the
// map ships with.
type MapDef struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	Triggers []TriggerPlacement `json:"triggers"`
	NPCs     []NPCSpawn         `json:"npcs"`
	Vehicles []VehicleSpawn     `json:"vehicles"`
	Missions []*mission.Mission `json:"missions"`
}

// TriggerPlacement puts a trigger id on a tile.
type TriggerPlacement struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// NPCSpawn places Count NPCs of an archetype near (X, Y).
type NPCSpawn struct {
	Archetype string  `json:"archetype"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Count     int     `json:"count"`
}

// VehicleSpawn parks a car on the map.
type VehicleSpawn struct {
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
}

// Validate checks structural soundness of a loaded map.
func (d *MapDef) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("map has no name")
	}
	if d.Width < 1 || d.Height < 1 {
		return fmt.Errorf("map %s: invalid dimensions %dx%d", d.Name, d.Width, d.Height)
	}
	for _, tp := range d.Triggers {
		if tp.X < 0 || tp.X >= d.Width || tp.Y < 0 || tp.Y >= d.Height {
			return fmt.Errorf("map %s: trigger %d at (%d,%d) out of bounds", d.Name, tp.ID, tp.X, tp.Y)
		}
	}
	seen := make(map[int]bool)
	for _, m := range d.Missions {
		if m.ID != 0 && seen[m.ID] {
			return fmt.Errorf("map %s: duplicate mission id %d", d.Name, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// Loader reads map definitions from a directory of JSON files.
type Loader struct {
	dir    string
	logger *zap.Logger

	maps map[string]*MapDef
}

// NewLoader creates a Loader for the given maps directory.
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger, maps: make(map[string]*MapDef)}
}

// Load reads every *.json file in the directory. A file that fails to
// parse or validate aborts the load; maps are all-or-nothing.
func (l *Loader) Load() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read maps dir: %w", err)
	}

	loaded := make(map[string]*MapDef)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var def MapDef
		if err := json.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validate %s: %w", e.Name(), err)
		}
		if _, dup := loaded[def.Name]; dup {
			return fmt.Errorf("duplicate map name %q in %s", def.Name, e.Name())
		}
		loaded[def.Name] = &def

		l.logger.Info("map loaded",
			zap.String("map", def.Name),
			zap.Int("triggers", len(def.Triggers)),
			zap.Int("missions", len(def.Missions)))
	}

	l.maps = loaded
	return nil
}

// Map returns a loaded map by name, or nil.
func (l *Loader) Map(name string) *MapDef {
	return l.maps[name]
}

// Names lists the loaded map names.
func (l *Loader) Names() []string {
	out := make([]string, 0, len(l.maps))
	for name := range l.maps {
		out = append(out, name)
	}
	return out
}
