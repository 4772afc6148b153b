package mission

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/openstreets/server/game/item"
)

// NPCInfo is the registry's catalog entry for an NPC archetype, used by
// map tooling and the admin API. The behavior engine owns the full
// parameter tables; the registry only needs names.
type NPCInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Registry owns every mission plus the shared item and NPC catalogs.
// At most one mission is active at a time.
type Registry struct {
	mu sync.RWMutex

	missions map[int]*Mission
	order    []int // insertion order, for stable listings
	nextID   int

	activeID  int // 0 when no mission is active
	completed []int

	items item.Catalog
	npcs  map[string]NPCInfo

	logger *zap.Logger
}

// NewRegistry creates a registry seeded with the default item catalog.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		missions: make(map[int]*Mission),
		nextID:   1,
		items:    item.DefaultCatalog(),
		npcs:     make(map[string]NPCInfo),
		logger:   logger,
	}
}

// Items returns the shared item catalog.
func (r *Registry) Items() item.Catalog {
	return r.items
}

// RegisterItem adds or replaces an item definition in the shared catalog.
func (r *Registry) RegisterItem(id string, def item.Def) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = def
}

// RegisterNPC adds an NPC archetype to the registry's catalog.
func (r *Registry) RegisterNPC(kind string, info NPCInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info.Kind = kind
	r.npcs[kind] = info
}

// NPCKinds returns the registered NPC catalog.
func (r *Registry) NPCKinds() map[string]NPCInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]NPCInfo, len(r.npcs))
	for k, v := range r.npcs {
		out[k] = v
	}
	return out
}

// NextMissionID reserves and returns the smallest positive id not yet
// in use.
func (r *Registry) NextMissionID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextMissionIDLocked()
}

func (r *Registry) nextMissionIDLocked() int {
	for {
		if _, used := r.missions[r.nextID]; !used {
			id := r.nextID
			r.nextID++
			return id
		}
		r.nextID++
	}
}

// AddMission registers a mission. A zero id is assigned the next free
// one; a duplicate id is rejected.
func (r *Registry) AddMission(m *Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == 0 {
		m.ID = r.nextMissionIDLocked()
	}
	if _, dup := r.missions[m.ID]; dup {
		return fmt.Errorf("mission %d already registered", m.ID)
	}
	if m.Status == "" {
		m.Status = StatusAvailable
	}
	r.missions[m.ID] = m
	r.order = append(r.order, m.ID)

	r.logger.Debug("mission registered",
		zap.Int("mission_id", m.ID),
		zap.String("name", m.Name),
		zap.String("type", string(m.Type)))
	return nil
}

// Mission returns the mission with the given id, or nil.
func (r *Registry) Mission(id int) *Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.missions[id]
}

// Missions returns all missions in registration order.
func (r *Registry) Missions() []*Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Mission, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.missions[id])
	}
	return out
}

// Active returns the currently active mission, or nil.
func (r *Registry) Active() *Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeID == 0 {
		return nil
	}
	return r.missions[r.activeID]
}

// Completed returns the ids of completed missions in completion order.
func (r *Registry) Completed() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int, len(r.completed))
	copy(out, r.completed)
	return out
}

// IsCompleted reports whether the mission has been completed.
func (r *Registry) IsCompleted(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isCompletedLocked(id)
}

func (r *Registry) isCompletedLocked(id int) bool {
	for _, c := range r.completed {
		if c == id {
			return true
		}
	}
	return false
}

// Available returns every mission that is currently startable: status
// available, not the active one, and all prerequisites completed.
func (r *Registry) Available() []*Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Mission
	for _, id := range r.order {
		m := r.missions[id]
		if m.Status != StatusAvailable || id == r.activeID {
			continue
		}
		ok := true
		for _, pre := range m.Prerequisites {
			if !r.isCompletedLocked(pre) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// Start activates the mission with the given id. Progress is reset in
// the same step as activation so a restarted mission never carries
// counts from a previous attempt. Starting fails if another mission is
// active, the mission is not available, or a prerequisite is missing.
func (r *Registry) Start(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.missions[id]
	if m == nil {
		return fmt.Errorf("mission %d not found", id)
	}
	if r.activeID != 0 {
		return fmt.Errorf("mission %d already active", r.activeID)
	}
	if m.Status != StatusAvailable {
		return fmt.Errorf("mission %d is %s, not available", id, m.Status)
	}
	for _, pre := range m.Prerequisites {
		if !r.isCompletedLocked(pre) {
			return fmt.Errorf("mission %d requires mission %d", id, pre)
		}
	}

	m.resetProgress()
	m.Status = StatusActive
	m.FailReason = ""
	r.activeID = id

	r.logger.Info("mission started",
		zap.Int("mission_id", id),
		zap.String("name", m.Name))
	return nil
}

// StartByTrigger activates the available mission whose start trigger is
// triggerID. Returns the mission, or nil when none matched or the start
// was rejected.
func (r *Registry) StartByTrigger(triggerID int) *Mission {
	r.mu.RLock()
	var found *Mission
	for _, id := range r.order {
		m := r.missions[id]
		if m.StartTrigger == triggerID && m.Status == StatusAvailable {
			found = m
			break
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return nil
	}
	if err := r.Start(found.ID); err != nil {
		r.logger.Debug("start trigger rejected",
			zap.Int("trigger_id", triggerID),
			zap.Error(err))
		return nil
	}
	return found
}

// CompleteObjective marks one objective of the active mission as done.
// It only marks; completion of the mission itself is evaluated by
// CollectTrigger or CheckCompletion. Unknown or already-completed
// objectives, or no active mission, are no-ops returning false.
func (r *Registry) CompleteObjective(objectiveID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID == 0 {
		return false
	}
	m := r.missions[r.activeID]
	obj := m.objective(objectiveID)
	if obj == nil || obj.Completed {
		return false
	}
	obj.Completed = true

	r.logger.Info("objective completed",
		zap.Int("mission_id", m.ID),
		zap.Int("objective_id", objectiveID),
		zap.String("description", obj.Description))
	return true
}

// CollectTrigger records one interaction with a mission target trigger
// on the active mission. The count is capped at the required count.
// When the interaction finishes the mission, the reward bundle is
// returned with completed=true; otherwise (nil, false). Triggers not
// bound to the active mission are ignored.
func (r *Registry) CollectTrigger(triggerID int) (*RewardBundle, bool) {
	r.mu.Lock()

	if r.activeID == 0 {
		r.mu.Unlock()
		return nil, false
	}
	m := r.missions[r.activeID]
	t := m.target(triggerID)
	if t == nil {
		r.mu.Unlock()
		return nil, false
	}
	if t.CollectedCount < t.RequiredCount {
		t.CollectedCount++
		r.logger.Debug("mission trigger collected",
			zap.Int("mission_id", m.ID),
			zap.Int("trigger_id", triggerID),
			zap.Int("count", t.CollectedCount),
			zap.Int("required", t.RequiredCount))
	}
	done := m.satisfied()
	r.mu.Unlock()

	if !done {
		return nil, false
	}
	return r.Complete(m.ID)
}

// CheckCompletion evaluates the active mission and completes it when
// every target and objective is satisfied. Returns the reward bundle
// and whether completion happened.
func (r *Registry) CheckCompletion() (*RewardBundle, bool) {
	r.mu.RLock()
	if r.activeID == 0 {
		r.mu.RUnlock()
		return nil, false
	}
	m := r.missions[r.activeID]
	done := m.satisfied()
	r.mu.RUnlock()

	if !done {
		return nil, false
	}
	return r.Complete(m.ID)
}

// Complete finishes the active mission, returning its reward bundle.
// Completing a mission that is not the active one is a no-op. The
// mission id is appended to the completed history and follow-up
// missions become available.
func (r *Registry) Complete(id int) (*RewardBundle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != id {
		return nil, false
	}
	m := r.missions[id]
	m.Status = StatusCompleted
	r.activeID = 0
	r.completed = append(r.completed, id)

	for _, next := range m.NextMissions {
		if n := r.missions[next]; n != nil && n.Status == StatusFailed {
			n.Status = StatusAvailable
		}
	}

	r.logger.Info("mission completed",
		zap.Int("mission_id", id),
		zap.String("name", m.Name),
		zap.Int("reward_money", m.Rewards.Money),
		zap.Int("reward_experience", m.Rewards.Experience))

	bundle := m.Rewards
	return &bundle, true
}

// Fail marks the active mission as failed with a reason. Failing a
// mission that is not active is a no-op.
func (r *Registry) Fail(id int, reason string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != id {
		return false
	}
	m := r.missions[id]
	m.Status = StatusFailed
	m.FailReason = reason
	r.activeID = 0

	r.logger.Info("mission failed",
		zap.Int("mission_id", id),
		zap.String("name", m.Name),
		zap.String("reason", reason))
	return true
}

// Reopen returns a failed mission to available so it can be retried.
func (r *Registry) Reopen(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.missions[id]
	if m == nil || m.Status != StatusFailed {
		return false
	}
	m.Status = StatusAvailable
	m.FailReason = ""
	return true
}

// ByTrigger returns every mission that references triggerID as its
// start trigger, end trigger, or a target.
func (r *Registry) ByTrigger(triggerID int) []*Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Mission
	for _, id := range r.order {
		m := r.missions[id]
		if m.StartTrigger == triggerID || m.EndTrigger == triggerID || m.target(triggerID) != nil {
			out = append(out, m)
		}
	}
	return out
}
