package mission

// Snapshot is the serializable state of a registry: mission definitions
// with their progress, plus the registry bookkeeping needed to resume.
type Snapshot struct {
	Missions  []*Mission `json:"missions"`
	ActiveID  int        `json:"active_id"`
	Completed []int      `json:"completed"`
	NextID    int        `json:"next_id"`
}

// Snapshot captures the registry's current state.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		ActiveID: r.activeID,
		NextID:   r.nextID,
	}
	for _, id := range r.order {
		m := *r.missions[id]
		snap.Missions = append(snap.Missions, &m)
	}
	snap.Completed = append(snap.Completed, r.completed...)
	return snap
}

// Restore replaces the registry's missions and progress with the
// snapshot's. The item and NPC catalogs are untouched.
func (r *Registry) Restore(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.missions = make(map[int]*Mission, len(snap.Missions))
	r.order = r.order[:0]
	for _, m := range snap.Missions {
		if m == nil || m.ID == 0 {
			continue
		}
		if _, dup := r.missions[m.ID]; dup {
			continue
		}
		if m.Status == "" {
			m.Status = StatusAvailable
		}
		r.missions[m.ID] = m
		r.order = append(r.order, m.ID)
	}

	r.activeID = 0
	if m := r.missions[snap.ActiveID]; m != nil && m.Status == StatusActive {
		r.activeID = snap.ActiveID
	}

	r.completed = r.completed[:0]
	for _, id := range snap.Completed {
		if _, ok := r.missions[id]; ok {
			r.completed = append(r.completed, id)
		}
	}

	r.nextID = snap.NextID
	if r.nextID < 1 {
		r.nextID = 1
	}
}
