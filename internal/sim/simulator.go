// Simulator owning authoritative game state and driving engine ticks
package sim

import (
	"sync"
	"time"

	"dataops-idle/internal/config"
	"dataops-idle/internal/engine"
	"dataops-idle/internal/game"
	"dataops-idle/internal/save"
)

// TickWriter receives one portfolio row per tick.
type TickWriter interface {
	WriteTick(game.TickRow) error
}

// IncidentWriter receives incident lifecycle events.
type IncidentWriter interface {
	WriteIncident(game.IncidentRow) error
}

// DatasetWriter optionally receives per-dataset status lines each tick.
type DatasetWriter interface {
	WriteDataset(game.DatasetRow) error
}

// Optional: incident writers may support batch mode.
type batchIncidentWriter interface {
	WriteIncidents([]game.IncidentRow) error
}

// Optional: dataset writers may support batch mode.
type batchDatasetWriter interface {
	WriteDatasets([]game.DatasetRow) error
}

// DatasetHealth summarizes status counts across the portfolio.
type DatasetHealth struct {
	Total   int `json:"total"`
	OK      int `json:"ok"`
	Warning int `json:"warning"`
	Failing int `json:"failing"`
}

// Simulator holds the authoritative game state. The engine never sees this
// struct; each tick it receives an immutable snapshot and hands back a delta
// that the simulator merges under its lock.
type Simulator struct {
	profileID      string
	content        *config.GameContent
	eng            *engine.Engine
	writer         TickWriter
	incidentWriter IncidentWriter
	tickInterval   time.Duration
	now            func() time.Time

	mu            sync.Mutex
	dc            float64
	lifetimeDC    float64
	prestigeLevel int
	datasets      []game.Dataset
	staff         []game.Staff
	incidents     []game.Incident
	unlockedTechs []string
	activeEvent   *game.GameEvent
	lastTick      time.Time
}

// NewSimulator initializes game state from the content catalog's starter
// set. rng and now may be nil for production defaults.
func NewSimulator(profileID string, content *config.GameContent, writer TickWriter, iWriter IncidentWriter, tickInterval time.Duration, rng engine.Rand, now func() time.Time) *Simulator {
	if now == nil {
		now = time.Now
	}
	eng := engine.New(rng, now, nil, content.Balance.BaseIncidentChance, content.Balance.DecayRatePerTick)
	return &Simulator{
		profileID:      profileID,
		content:        content,
		eng:            eng,
		writer:         writer,
		incidentWriter: iWriter,
		tickInterval:   tickInterval,
		now:            now,
		datasets:       content.StarterDatasets(),
		lastTick:       now().UTC(),
	}
}

// Snapshot builds the immutable input bundle for one tick.
func (s *Simulator) snapshotLocked() game.TickSnapshot {
	datasets := make([]game.Dataset, len(s.datasets))
	copy(datasets, s.datasets)
	staff := make([]game.Staff, len(s.staff))
	copy(staff, s.staff)
	incidents := make([]game.Incident, len(s.incidents))
	copy(incidents, s.incidents)
	var ev *game.GameEvent
	if s.activeEvent != nil {
		cp := *s.activeEvent
		ev = &cp
	}
	return game.TickSnapshot{
		Datasets:      datasets,
		Staff:         staff,
		Incidents:     incidents,
		ActiveEvent:   ev,
		DC:            s.dc,
		LifetimeDC:    s.lifetimeDC,
		PrestigeLevel: s.prestigeLevel,
	}
}

// Snapshot returns a copy of the current state as a tick snapshot.
func (s *Simulator) Snapshot() game.TickSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// HireStaff hires the staff member with the given catalog id. Returns false
// without mutating state if the id is unknown, the member is already hired,
// or the balance cannot cover the cost.
func (s *Simulator) HireStaff(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.content.StaffMember(id)
	if !ok {
		return false
	}
	for _, hired := range s.staff {
		if hired.ID == id {
			return false
		}
	}
	if s.dc < def.Cost {
		return false
	}
	s.dc -= def.Cost
	s.staff = append(s.staff, config.NewStaff(def))
	return true
}

// TriggerEvent activates a blocking event from the catalog, pausing the
// simulation until cleared. Returns false if the id is unknown or another
// event is already active.
func (s *Simulator) TriggerEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeEvent != nil {
		return false
	}
	def, ok := s.content.Event(id)
	if !ok {
		return false
	}
	s.activeEvent = &game.GameEvent{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		StartedAt:   s.now().UTC(),
	}
	return true
}

// ClearEvent deactivates the blocking event, resuming the simulation.
func (s *Simulator) ClearEvent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeEvent = nil
}

// ActiveEvent returns the current blocking event, or nil.
func (s *Simulator) ActiveEvent() *game.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeEvent == nil {
		return nil
	}
	cp := *s.activeEvent
	return &cp
}

// Prestige resets the portfolio to the starter set, increments the prestige
// level, and applies the flat metric bonus to the fresh datasets. Returns
// false without mutating state if any prestige gate fails.
func (s *Simulator) Prestige() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !game.CanPrestige(s.datasets, s.lifetimeDC) {
		return false
	}
	s.prestigeLevel++
	s.dc = 0
	s.datasets = s.content.StarterDatasets()
	s.incidents = nil
	return true
}

// Health returns portfolio status counts.
func (s *Simulator) Health() DatasetHealth {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := DatasetHealth{Total: len(s.datasets)}
	for _, d := range s.datasets {
		switch d.Status {
		case game.StatusWarning:
			h.Warning++
		case game.StatusFailing:
			h.Failing++
		default:
			h.OK++
		}
	}
	return h
}

// GlobalSLA returns the portfolio-wide SLA mean.
func (s *Simulator) GlobalSLA() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.GlobalSLA(s.datasets)
}

// TotalRate returns the current DC output per second.
func (s *Simulator) TotalRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.TotalRate(s.datasets, s.staff)
}

// Balance returns current and lifetime DC.
func (s *Simulator) Balance() (dc, lifetime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc, s.lifetimeDC
}

// ResumeOffline applies batched offline catch-up for the time elapsed since
// lastTick and merges the result. Returns the catch-up summary.
func (s *Simulator) ResumeOffline() game.OfflineResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := int(s.now().UTC().Sub(s.lastTick).Seconds())
	snap := s.snapshotLocked()
	res := s.eng.CalculateOfflineProgress(snap, elapsed)
	if res.TicksSimulated == 0 {
		return res
	}
	s.dc += float64(res.Earned)
	s.lifetimeDC += float64(res.Earned)
	s.datasets = res.FinalDatasets
	s.incidents = nil
	s.lastTick = s.now().UTC()
	return res
}

// ExportBlob captures the current state as a versioned save blob.
func (s *Simulator) ExportBlob() *save.Blob {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotLocked()
	return save.New(s.dc, s.lifetimeDC, s.prestigeLevel, snap.Datasets, snap.Staff,
		append([]string(nil), s.unlockedTechs...), snap.Incidents, s.lastTick)
}

// RestoreBlob replaces the current state with a previously saved blob.
func (s *Simulator) RestoreBlob(b *save.Blob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc = b.DC
	s.lifetimeDC = b.LifetimeDC
	s.prestigeLevel = b.PrestigeLevel
	s.datasets = b.Datasets
	s.staff = b.Staff
	s.unlockedTechs = b.UnlockedTechs
	s.incidents = b.Incidents
	s.lastTick = b.LastTick
}
