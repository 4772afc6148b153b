package trigger

// Trigger ids are partitioned by range: everything below 100 is terrain
// metadata for the collision layer, 100-109 are general map triggers,
// and 110-120 belong to the mission lifecycle. Unknown ids inside the
// known ranges dispatch to no effect and are ignored.
const (
	IDSpawn      = 100
	IDSavePoint  = 103
	IDShop       = 104
	IDObjective  = 105
	IDEvent      = 106
	IDTeleport   = 107
	IDCheckpoint = 108
	IDParking    = 109

	IDMissionStart  = 110
	IDMissionEnd    = 111
	IDCollectItem   = 112
	IDDialog        = 113
	IDMapTransition = 114
	IDActivate      = 115
	IDDestroy       = 116
	IDDefend        = 117
	IDEscape        = 118
	IDWait          = 119
	IDEscort        = 120
)

// Effect is the closed set of things a trigger can do to the world.
type Effect int

const (
	EffectNone Effect = iota
	EffectSpawn
	EffectSave
	EffectShop
	EffectObjective
	EffectEvent
	EffectTeleport
	EffectCheckpoint
	EffectParking
	EffectMissionStart
	EffectMissionEnd
	EffectCollectItem
	EffectDialog
	EffectMapTransition
	EffectActivate
	EffectDestroy
	EffectDefend
	EffectEscape
	EffectWait
	EffectEscort
)

var effectNames = map[Effect]string{
	EffectNone:          "none",
	EffectSpawn:         "spawn",
	EffectSave:          "save",
	EffectShop:          "shop",
	EffectObjective:     "objective",
	EffectEvent:         "event",
	EffectTeleport:      "teleport",
	EffectCheckpoint:    "checkpoint",
	EffectParking:       "parking",
	EffectMissionStart:  "mission_start",
	EffectMissionEnd:    "mission_end",
	EffectCollectItem:   "collect_item",
	EffectDialog:        "dialog",
	EffectMapTransition: "map_transition",
	EffectActivate:      "activate",
	EffectDestroy:       "destroy",
	EffectDefend:        "defend",
	EffectEscape:        "escape",
	EffectWait:          "wait",
	EffectEscort:        "escort",
}

func (e Effect) String() string {
	if s, ok := effectNames[e]; ok {
		return s
	}
	return "none"
}

// EffectFor maps a trigger id to its effect. Terrain ids and gaps in
// the tables map to EffectNone.
func EffectFor(id int) Effect {
	switch id {
	case IDSpawn:
		return EffectSpawn
	case IDSavePoint:
		return EffectSave
	case IDShop:
		return EffectShop
	case IDObjective:
		return EffectObjective
	case IDEvent:
		return EffectEvent
	case IDTeleport:
		return EffectTeleport
	case IDCheckpoint:
		return EffectCheckpoint
	case IDParking:
		return EffectParking
	case IDMissionStart:
		return EffectMissionStart
	case IDMissionEnd:
		return EffectMissionEnd
	case IDCollectItem:
		return EffectCollectItem
	case IDDialog:
		return EffectDialog
	case IDMapTransition:
		return EffectMapTransition
	case IDActivate:
		return EffectActivate
	case IDDestroy:
		return EffectDestroy
	case IDDefend:
		return EffectDefend
	case IDEscape:
		return EffectEscape
	case IDWait:
		return EffectWait
	case IDEscort:
		return EffectEscort
	default:
		return EffectNone
	}
}

// IsTerrain reports whether the id is collision-layer metadata rather
// than a trigger.
func IsTerrain(id int) bool {
	return id < 100
}

// IsMissionLifecycle reports whether the id belongs to the mission
// range of the trigger table.
func IsMissionLifecycle(id int) bool {
	return id >= IDMissionStart && id <= IDEscort
}
