// Tick engine: the deterministic per-second simulation step
package engine

import (
	"math/rand"
	"time"

	"dataops-idle/internal/game"
	"dataops-idle/internal/incident"
)

// Rand is the subset of math/rand the engine draws from. Injected so tests
// can replay fixed sequences.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Engine executes one simulated second over an immutable snapshot. It keeps
// no state between calls; the caller feeds the previous result back in as
// the next snapshot.
type Engine struct {
	rng        Rand
	now        func() time.Time
	spawner    *incident.Spawner
	baseChance float64
	decayRate  float64
}

// New creates an Engine. Nil rng, now, or spawner select production
// defaults; non-positive baseChance or decayRate select balance defaults.
func New(rng Rand, now func() time.Time, spawner *incident.Spawner, baseChance, decayRate float64) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	if spawner == nil {
		spawner = incident.NewSpawner(rng.Intn, now, nil)
	}
	if baseChance <= 0 {
		baseChance = game.BaseIncidentChance
	}
	if decayRate <= 0 {
		decayRate = game.DecayRatePerTick
	}
	return &Engine{rng: rng, now: now, spawner: spawner, baseChance: baseChance, decayRate: decayRate}
}

// ProcessTick runs the ordered tick pipeline and returns the resulting
// delta. A snapshot with an active blocking event yields a no-op result:
// no decay, no DC, no incident rolls, datasets and incidents returned as-is.
//
// The incident DC-halt flag is advisory only: it travels with incidents but
// the DC computation does not consult it.
func (e *Engine) ProcessTick(snap game.TickSnapshot) game.TickResult {
	start := time.Now()

	if snap.ActiveEvent != nil {
		return game.TickResult{
			UpdatedDatasets:  cloneDatasets(snap.Datasets),
			UpdatedIncidents: cloneIncidents(snap.Incidents),
			Timings:          game.TickTimings{Total: time.Since(start)},
		}
	}

	// Phase 1: decay, then staff metric bonuses against the decayed values.
	phase := time.Now()
	datasets := cloneDatasets(snap.Datasets)
	for i := range datasets {
		d := &datasets[i]
		game.ApplyDecay(d, game.EffectiveDecayRate(e.decayRate, len(d.InstalledPipelines)))
		if len(snap.Staff) > 0 {
			game.ApplyStaffBonuses(d, snap.Staff)
		}
	}
	decayDur := time.Since(phase)

	// Phase 2: advance incident resolution. Every incident active this tick
	// applies its impact, including ones crossing the 1.0 threshold; only
	// those survive into the updated list that are still unresolved.
	phase = time.Now()
	byID := make(map[string]*game.Dataset, len(datasets))
	for i := range datasets {
		byID[datasets[i].ID] = &datasets[i]
	}
	resMult := game.StaffResolutionMultiplier(snap.Staff)
	surviving := make([]game.Incident, 0, len(snap.Incidents))
	for _, inc := range snap.Incidents {
		inc.ResolutionProgress += (1 / inc.BaseResolutionTime) * resMult
		if d, ok := byID[inc.DatasetID]; ok {
			game.ApplyIncidentImpact(d, inc.Impact)
		}
		if inc.ResolutionProgress < 1.0 {
			surviving = append(surviving, inc)
		}
	}
	incidentDur := time.Since(phase)

	// Phase 3: refresh stored SLA and status from the post-decay,
	// post-incident metrics.
	for i := range datasets {
		datasets[i].CurrentSLA = game.SLA(datasets[i].Metrics)
		datasets[i].Status = game.Classify(datasets[i])
	}

	// Phase 4: DC generation over the refreshed portfolio.
	phase = time.Now()
	dc := game.TotalRate(datasets, snap.Staff)
	dcDur := time.Since(phase)

	// Phase 5: per-dataset incident spawn rolls.
	var spawned []game.Incident
	for _, d := range datasets {
		if e.rng.Float64() < game.IncidentChance(d, e.baseChance) {
			spawned = append(spawned, e.spawner.Spawn(d.ID))
		}
	}

	// Phase 6: event roll. Reserved hook; event policy is owned by content,
	// so no event is ever produced here.
	var triggered *game.GameEvent

	return game.TickResult{
		DCGenerated:      dc,
		NewIncidents:     spawned,
		UpdatedIncidents: surviving,
		UpdatedDatasets:  datasets,
		TriggeredEvent:   triggered,
		Timings: game.TickTimings{
			Decay:     decayDur,
			Incidents: incidentDur,
			DC:        dcDur,
			Total:     time.Since(start),
		},
	}
}

func cloneDatasets(in []game.Dataset) []game.Dataset {
	out := make([]game.Dataset, len(in))
	copy(out, in)
	return out
}

func cloneIncidents(in []game.Incident) []game.Incident {
	out := make([]game.Incident, len(in))
	copy(out, in)
	return out
}
