package engine

import (
	"math"
	"reflect"
	"testing"
	"time"

	"dataops-idle/internal/game"
	"dataops-idle/internal/incident"
)

// fixedRand always returns the same draw, keeping spawn rolls predictable.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.n % n }

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// quietEngine never spawns incidents.
func quietEngine() *Engine {
	return New(fixedRand{f: 0.99}, fixedClock, nil, 0, 0)
}

func perfectDataset(id string) game.Dataset {
	return game.Dataset{
		ID:                id,
		Name:              id,
		BaseRatePerMinute: 60,
		Volume:            100,
		Risk:              game.RiskLow,
		Metrics:           game.Metrics{Timeliness: 100, Accuracy: 100, Completeness: 100},
		SLATargets:        game.Metrics{Timeliness: 95, Accuracy: 95, Completeness: 95},
	}
}

func TestProcessTick_EndToEnd(t *testing.T) {
	e := quietEngine()
	res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{perfectDataset("ds-1")}})

	if math.Abs(res.DCGenerated-0.999) > 1e-6 {
		t.Errorf("DC generated = %f, want ~0.999", res.DCGenerated)
	}
	d := res.UpdatedDatasets[0]
	want := game.Metrics{Timeliness: 99.9, Accuracy: 99.9, Completeness: 99.9}
	if math.Abs(d.Metrics.Timeliness-want.Timeliness) > 1e-9 ||
		math.Abs(d.Metrics.Accuracy-want.Accuracy) > 1e-9 ||
		math.Abs(d.Metrics.Completeness-want.Completeness) > 1e-9 {
		t.Errorf("post-tick metrics = %+v, want %+v", d.Metrics, want)
	}
	if d.Status != game.StatusOK {
		t.Errorf("status = %s, want ok", d.Status)
	}
	if math.Abs(d.CurrentSLA-99.9) > 1e-9 {
		t.Errorf("stored SLA = %f, want 99.9", d.CurrentSLA)
	}
	if len(res.NewIncidents) != 0 {
		t.Errorf("unexpected incidents spawned: %d", len(res.NewIncidents))
	}
	if res.Timings.Total <= 0 {
		t.Error("total timing not recorded")
	}
}

func TestProcessTick_BlockingEventPausesEverything(t *testing.T) {
	e := New(fixedRand{f: 0.0}, fixedClock, nil, 0, 0) // would spawn if not paused
	datasets := []game.Dataset{perfectDataset("ds-1")}
	incidents := []game.Incident{{ID: "inc-1", DatasetID: "ds-1", BaseResolutionTime: 30, ResolutionProgress: 0.5}}
	snap := game.TickSnapshot{
		Datasets:    datasets,
		Incidents:   incidents,
		ActiveEvent: &game.GameEvent{ID: "ev-maint", Name: "maintenance"},
	}

	res := e.ProcessTick(snap)

	if res.DCGenerated != 0 {
		t.Errorf("paused tick generated DC: %f", res.DCGenerated)
	}
	if !reflect.DeepEqual(res.UpdatedDatasets, datasets) {
		t.Errorf("paused tick mutated datasets: %+v", res.UpdatedDatasets)
	}
	if !reflect.DeepEqual(res.UpdatedIncidents, incidents) {
		t.Errorf("paused tick mutated incidents: %+v", res.UpdatedIncidents)
	}
	if len(res.NewIncidents) != 0 {
		t.Error("paused tick rolled for incidents")
	}
}

func TestProcessTick_DecayThenStaffBonus(t *testing.T) {
	e := quietEngine()
	d := perfectDataset("ds-1")
	d.Metrics = game.Metrics{Timeliness: 50, Accuracy: 50, Completeness: 50}
	staff := []game.Staff{{
		ID:                  "staff-1",
		DCMultiplier:        1.1,
		MetricBonus:         game.Metrics{Timeliness: 0.5, Accuracy: 0.5, Completeness: 0.5},
		ResolutionSpeedMult: 1.0,
	}}

	res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{d}, Staff: staff})

	// 50 - 0.1 decay + 0.5 bonus = 50.4, bonus applied to the decayed value.
	got := res.UpdatedDatasets[0].Metrics.Timeliness
	if math.Abs(got-50.4) > 1e-9 {
		t.Errorf("timeliness = %f, want 50.4", got)
	}
	// DC uses the staff multiplier: 60 * (50.4/100) * 1.1 / 60.
	wantDC := 60 * (50.4 / 100) * 1.1 / 60
	if math.Abs(res.DCGenerated-wantDC) > 1e-9 {
		t.Errorf("DC = %f, want %f", res.DCGenerated, wantDC)
	}
}

func TestProcessTick_IncidentResolvesOnFinalTick(t *testing.T) {
	e := quietEngine()
	d := perfectDataset("ds-1")
	inc := game.Incident{
		ID:                 "inc-1",
		Type:               "data_delay",
		DatasetID:          "ds-1",
		Impact:             game.Metrics{Timeliness: -10},
		BaseResolutionTime: 30,
		ResolutionProgress: 0.97,
	}

	res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{d}, Incidents: []game.Incident{inc}})

	// 0.97 + 1/30 crosses 1.0, so the incident is gone...
	if len(res.UpdatedIncidents) != 0 {
		t.Fatalf("incident should be resolved, still have %d", len(res.UpdatedIncidents))
	}
	// ...but its impact still lands this tick: 100 - 0.1 decay - 10 impact.
	got := res.UpdatedDatasets[0].Metrics.Timeliness
	if math.Abs(got-89.9) > 1e-9 {
		t.Errorf("timeliness = %f, want 89.9", got)
	}
}

func TestProcessTick_IncidentProgressMonotone(t *testing.T) {
	e := quietEngine()
	d := perfectDataset("ds-1")
	// Base time 8 keeps the per-tick increment exactly representable.
	incidents := []game.Incident{{
		ID:                 "inc-1",
		DatasetID:          "ds-1",
		Impact:             game.Metrics{Accuracy: -1},
		BaseResolutionTime: 8,
	}}

	prev := 0.0
	for i := 0; i < 7; i++ {
		res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{d}, Incidents: incidents})
		if len(res.UpdatedIncidents) != 1 {
			t.Fatalf("tick %d: incident resolved early", i)
		}
		p := res.UpdatedIncidents[0].ResolutionProgress
		if p <= prev {
			t.Fatalf("tick %d: progress did not increase: %f <= %f", i, p, prev)
		}
		prev = p
		d = res.UpdatedDatasets[0]
		incidents = res.UpdatedIncidents
	}
	// Eighth tick reaches 1.0 exactly and the incident goes away.
	res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{d}, Incidents: incidents})
	if len(res.UpdatedIncidents) != 0 {
		t.Errorf("incident should resolve on tick 8, progress %f", res.UpdatedIncidents[0].ResolutionProgress)
	}
}

func TestProcessTick_StaffSpeedUpResolution(t *testing.T) {
	e := quietEngine()
	d := perfectDataset("ds-1")
	staff := []game.Staff{{ID: "s1", DCMultiplier: 1, ResolutionSpeedMult: 2}}
	inc := game.Incident{ID: "inc-1", DatasetID: "ds-1", BaseResolutionTime: 10}

	res := e.ProcessTick(game.TickSnapshot{
		Datasets:  []game.Dataset{d},
		Staff:     staff,
		Incidents: []game.Incident{inc},
	})
	got := res.UpdatedIncidents[0].ResolutionProgress
	if math.Abs(got-0.2) > 1e-9 {
		t.Errorf("progress = %f, want 0.2 with 2x resolution speed", got)
	}
}

func TestProcessTick_ConcurrentIncidentsStack(t *testing.T) {
	e := quietEngine()
	d := perfectDataset("ds-1")
	incidents := []game.Incident{
		{ID: "a", DatasetID: "ds-1", Impact: game.Metrics{Accuracy: -5}, BaseResolutionTime: 100},
		{ID: "b", DatasetID: "ds-1", Impact: game.Metrics{Accuracy: -7}, BaseResolutionTime: 100},
	}

	res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{d}, Incidents: incidents})

	// 100 - 0.1 decay - 5 - 7 = 87.9, impacts additive.
	got := res.UpdatedDatasets[0].Metrics.Accuracy
	if math.Abs(got-87.9) > 1e-9 {
		t.Errorf("accuracy = %f, want 87.9", got)
	}
}

func TestProcessTick_SpawnRoll(t *testing.T) {
	sp := incident.NewSpawner(func(n int) int { return 0 }, fixedClock, func() string { return "inc-new" })
	e := New(fixedRand{f: 0.0}, fixedClock, sp, 0, 0) // draw below any chance floor
	res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{perfectDataset("ds-1")}})

	if len(res.NewIncidents) != 1 {
		t.Fatalf("expected one spawned incident, got %d", len(res.NewIncidents))
	}
	inc := res.NewIncidents[0]
	if inc.ID != "inc-new" || inc.DatasetID != "ds-1" || inc.Type != "data_delay" {
		t.Errorf("spawned incident wrong: %+v", inc)
	}
	if inc.ResolutionProgress != 0 {
		t.Errorf("spawned progress = %f, want 0", inc.ResolutionProgress)
	}
}

func TestProcessTick_NeverTriggersEvents(t *testing.T) {
	e := New(fixedRand{f: 0.0}, fixedClock, nil, 0, 0)
	res := e.ProcessTick(game.TickSnapshot{Datasets: []game.Dataset{perfectDataset("ds-1")}})
	if res.TriggeredEvent != nil {
		t.Errorf("event hook should be inert, got %+v", res.TriggeredEvent)
	}
}
