package trigger

import (
	"go.uber.org/zap"

	"github.com/openstreets/server/game/mission"
)

// Effects is what the dispatcher can do to the world. The world
// implements it; the dispatcher stays free of world state so it can be
// tested against a recorder.
type Effects interface {
	SetSpawn(x, y float64)
	SaveGame(x, y float64)
	OpenShop(x, y float64)
	FireEvent(x, y float64)
	Teleport(x, y float64)
	SetCheckpoint(x, y float64)
	ParkVehicle(x, y float64)
	CollectItem(x, y float64)
	ShowDialog(m *mission.Mission)
	ChangeMap(t mission.MapTransition)
	ActivateObject(x, y float64)
	DestroyObject(x, y float64)
	DefendPoint(x, y float64)
	EscapeZone(x, y float64)
	WaitZone(x, y float64)
	EscortPoint(x, y float64)
	MissionStarted(m *mission.Mission)
	MissionCompleted(m *mission.Mission, reward *mission.RewardBundle)
}

// Dispatcher routes trigger activations to world effects and mission
// progress. Every id in the mission range also counts toward the active
// mission's target bindings.
type Dispatcher struct {
	reg    *mission.Registry
	fx     Effects
	logger *zap.Logger
}

func NewDispatcher(reg *mission.Registry, fx Effects, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{reg: reg, fx: fx, logger: logger}
}

// Handle fires the trigger with the given id at (x, y). It returns
// whether the id dispatched to any effect; terrain and unknown ids
// return false and do nothing.
func (d *Dispatcher) Handle(id int, x, y float64) bool {
	effect := EffectFor(id)
	if effect == EffectNone {
		return false
	}

	d.logger.Debug("trigger fired",
		zap.Int("trigger_id", id),
		zap.String("effect", effect.String()),
		zap.Float64("x", x),
		zap.Float64("y", y))

	switch effect {
	case EffectSpawn:
		d.fx.SetSpawn(x, y)
	case EffectSave:
		d.fx.SaveGame(x, y)
	case EffectShop:
		d.fx.OpenShop(x, y)
	case EffectObjective:
		d.collect(id)
		return true
	case EffectEvent:
		d.fx.FireEvent(x, y)
	case EffectTeleport:
		d.fx.Teleport(x, y)
	case EffectCheckpoint:
		d.fx.SetCheckpoint(x, y)
	case EffectParking:
		d.fx.ParkVehicle(x, y)

	case EffectMissionStart:
		if m := d.reg.StartByTrigger(id); m != nil {
			d.fx.MissionStarted(m)
		}
		return true
	case EffectMissionEnd:
		if m := d.reg.Active(); m != nil && m.EndTrigger == id {
			if reward, done := d.reg.CheckCompletion(); done {
				d.fx.MissionCompleted(m, reward)
			}
		}
		return true

	case EffectCollectItem:
		d.fx.CollectItem(x, y)
	case EffectDialog:
		d.fx.ShowDialog(d.reg.Active())
	case EffectMapTransition:
		if m := d.reg.Active(); m != nil {
			d.fx.ChangeMap(m.Transition)
		}
	case EffectActivate:
		d.fx.ActivateObject(x, y)
	case EffectDestroy:
		d.fx.DestroyObject(x, y)
	case EffectDefend:
		d.fx.DefendPoint(x, y)
	case EffectEscape:
		d.fx.EscapeZone(x, y)
	case EffectWait:
		d.fx.WaitZone(x, y)
	case EffectEscort:
		d.fx.EscortPoint(x, y)
	}

	// Side effect first, then mission progress: the mission range ids
	// double as collect targets for the active mission.
	if IsMissionLifecycle(id) {
		d.collect(id)
	}
	return true
}

func (d *Dispatcher) collect(id int) {
	m := d.reg.Active()
	if m == nil {
		return
	}
	if reward, done := d.reg.CollectTrigger(id); done {
		d.fx.MissionCompleted(m, reward)
	}
}
