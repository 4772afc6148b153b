package mission

// Status is the lifecycle state of a mission. Transitions are strictly
// available→active→{completed|failed}; completed and failed are terminal.
type Status string

const (
	StatusAvailable Status = "available"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Type categorizes a mission. It does not change lifecycle rules, only
// how map authors wire triggers and dialogs to the mission.
type Type string

const (
	TypeTrigger       Type = "trigger"
	TypeCollection    Type = "collection"
	TypeDelivery      Type = "delivery"
	TypeElimination   Type = "elimination"
	TypeEscort        Type = "escort"
	TypeRace          Type = "race"
	TypeMapTransition Type = "map_transition"
	TypeDialog        Type = "dialog"
	TypeCombination   Type = "combination"
)

// ObjectiveKind is the closed set of objective variants.
type ObjectiveKind string

const (
	ObjectiveTrigger   ObjectiveKind = "trigger"
	ObjectiveCollect   ObjectiveKind = "collect"
	ObjectiveDeliver   ObjectiveKind = "deliver"
	ObjectiveEliminate ObjectiveKind = "eliminate"
	ObjectiveEscort    ObjectiveKind = "escort"
)

// Objective is one typed sub-goal within a mission. Only the fields for
// its kind are meaningful; the rest stay zero.
type Objective struct {
	ID          int           `json:"id"`
	Kind        ObjectiveKind `json:"kind"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`

	TriggerID     int    `json:"trigger_id,omitempty"`     // trigger
	ItemID        string `json:"item_id,omitempty"`        // collect, deliver
	Count         int    `json:"count,omitempty"`          // collect, eliminate
	DestinationID int    `json:"destination_id,omitempty"` // deliver, escort
	Archetype     string `json:"archetype,omitempty"`      // eliminate
	NPCID         int    `json:"npc_id,omitempty"`         // escort
}

// TargetTrigger binds a world trigger to a mission with a required
// interaction count. CollectedCount never exceeds RequiredCount and is
// reset to zero every time the mission starts.
type TargetTrigger struct {
	TriggerID      int `json:"trigger_id"`
	RequiredCount  int `json:"required_count"`
	CollectedCount int `json:"collected_count"`
}

// RewardItem is a single item entry in a reward bundle.
type RewardItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// RewardBundle is what a completed mission pays out. The registry
// returns it to the caller; applying it to player state is the world's
// job.
type RewardBundle struct {
	Experience int          `json:"experience"`
	Money      int          `json:"money"`
	Items      []RewardItem `json:"items"`
}

// DialogOption is one selectable answer within a dialog node.
type DialogOption struct {
	Text         string `json:"text"`
	NextDialogID int    `json:"next_dialog_id,omitempty"`
}

// DialogNode is one entry in a mission's dialog tree. CloseTrigger, when
// nonzero, is fired through trigger dispatch when the dialog closes.
type DialogNode struct {
	ID           int            `json:"id"`
	Character    string         `json:"character"`
	Text         string         `json:"text"`
	Image        string         `json:"image,omitempty"`
	Options      []DialogOption `json:"options,omitempty"`
	CloseTrigger int            `json:"close_trigger,omitempty"`
}

// MapTransition is a mission's intent to move the player to another map
// on completion.
type MapTransition struct {
	TargetMap      string `json:"target_map,omitempty"`
	SpawnTriggerID int    `json:"spawn_trigger_id,omitempty"`
	KeepInventory  bool   `json:"keep_inventory"`
}

// Mission is one quest: its configuration plus its mutable progress.
type Mission struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Type          Type    `json:"type"`
	Difficulty    string  `json:"difficulty"`
	TimeLimit     float64 `json:"time_limit"` // seconds, 0 = unlimited
	Status        Status  `json:"status"`
	FailReason    string  `json:"fail_reason,omitempty"`
	Prerequisites []int   `json:"prerequisites,omitempty"`
	NextMissions  []int   `json:"next_missions,omitempty"`

	StartTrigger int             `json:"start_trigger,omitempty"`
	EndTrigger   int             `json:"end_trigger,omitempty"`
	Targets      []TargetTrigger `json:"target_triggers"`
	Objectives   []Objective     `json:"objectives"`
	Rewards      RewardBundle    `json:"rewards"`
	Dialogs      []DialogNode    `json:"dialogs,omitempty"`
	Transition   MapTransition   `json:"map_transition"`

	// Monotonic id counters so objective/dialog ids are deterministic
	// and stable across save/load.
	NextObjectiveID int `json:"next_objective_id"`
	NextDialogID    int `json:"next_dialog_id"`
}

// New creates an available mission with default rewards, matching the
// defaults map authors expect.
func New(id int, name, description string, typ Type) *Mission {
	if typ == "" {
		typ = TypeTrigger
	}
	return &Mission{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        typ,
		Difficulty:  "normal",
		Status:      StatusAvailable,
		Rewards: RewardBundle{
			Experience: 100,
			Money:      500,
		},
		Transition:      MapTransition{KeepInventory: true},
		NextObjectiveID: 1,
		NextDialogID:    1,
	}
}

// AddObjective appends an objective, assigning it the next deterministic
// id, and returns a pointer to the stored entry.
func (m *Mission) AddObjective(obj Objective) *Objective {
	obj.ID = m.NextObjectiveID
	m.NextObjectiveID++
	obj.Completed = false
	m.Objectives = append(m.Objectives, obj)
	return &m.Objectives[len(m.Objectives)-1]
}

// AddDialog appends a dialog node with the next deterministic id.
func (m *Mission) AddDialog(character, text string, options ...DialogOption) *DialogNode {
	node := DialogNode{
		ID:        m.NextDialogID,
		Character: character,
		Text:      text,
		Options:   options,
	}
	m.NextDialogID++
	m.Dialogs = append(m.Dialogs, node)
	return &m.Dialogs[len(m.Dialogs)-1]
}

// AddTargetTrigger binds a world trigger to this mission.
func (m *Mission) AddTargetTrigger(triggerID, requiredCount int) {
	if requiredCount < 1 {
		requiredCount = 1
	}
	m.Targets = append(m.Targets, TargetTrigger{
		TriggerID:     triggerID,
		RequiredCount: requiredCount,
	})
}

// Dialog returns the dialog node with the given id, or nil.
func (m *Mission) Dialog(id int) *DialogNode {
	for i := range m.Dialogs {
		if m.Dialogs[i].ID == id {
			return &m.Dialogs[i]
		}
	}
	return nil
}

// objective returns the objective with the given id, or nil.
func (m *Mission) objective(id int) *Objective {
	for i := range m.Objectives {
		if m.Objectives[i].ID == id {
			return &m.Objectives[i]
		}
	}
	return nil
}

// target returns the binding for triggerID, or nil.
func (m *Mission) target(triggerID int) *TargetTrigger {
	for i := range m.Targets {
		if m.Targets[i].TriggerID == triggerID {
			return &m.Targets[i]
		}
	}
	return nil
}

// resetProgress zeroes all trigger counts and objective flags in one
// step. Retry correctness depends on this being atomic with activation.
func (m *Mission) resetProgress() {
	for i := range m.Targets {
		m.Targets[i].CollectedCount = 0
	}
	for i := range m.Objectives {
		m.Objectives[i].Completed = false
	}
}

// satisfied reports whether every target trigger has reached its
// required count and every objective is completed. Both conjuncts hold
// vacuously for a mission with no targets and no objectives.
func (m *Mission) satisfied() bool {
	for i := range m.Targets {
		if m.Targets[i].CollectedCount < m.Targets[i].RequiredCount {
			return false
		}
	}
	for i := range m.Objectives {
		if !m.Objectives[i].Completed {
			return false
		}
	}
	return true
}
