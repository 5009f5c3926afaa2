// Incident archetypes and spawning for the idle simulation
package incident

import (
	"time"

	"github.com/google/uuid"

	"dataops-idle/internal/game"
)

// Archetype is a preset incident template from the fixed catalog.
type Archetype struct {
	Type               string
	Impact             game.Metrics
	BaseResolutionTime float64
	HaltsDC            bool
}

// Catalog holds the fixed incident archetypes, mildest first.
var Catalog = []Archetype{
	{
		Type:               "data_delay",
		Impact:             game.Metrics{Timeliness: -10, Accuracy: 0, Completeness: 0},
		BaseResolutionTime: 30,
		HaltsDC:            false,
	},
	{
		Type:               "corrupted_batch",
		Impact:             game.Metrics{Timeliness: -5, Accuracy: -15, Completeness: -10},
		BaseResolutionTime: 60,
		HaltsDC:            false,
	},
	{
		Type:               "pipeline_failure",
		Impact:             game.Metrics{Timeliness: -20, Accuracy: -20, Completeness: -25},
		BaseResolutionTime: 120,
		HaltsDC:            true,
	},
}

// Spawner synthesizes incidents from the catalog. The random source, clock,
// and ID generator are injected so tests can be deterministic.
type Spawner struct {
	intn  func(n int) int
	now   func() time.Time
	newID func() string
}

// NewSpawner creates a Spawner. Nil arguments select production defaults.
func NewSpawner(intn func(int) int, now func() time.Time, newID func() string) *Spawner {
	s := &Spawner{intn: intn, now: now, newID: newID}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// Spawn picks an archetype uniformly at random and stamps a new incident
// for the given dataset.
func (s *Spawner) Spawn(datasetID string) game.Incident {
	arch := Catalog[s.intn(len(Catalog))]
	return game.Incident{
		ID:                 s.newID(),
		Type:               arch.Type,
		DatasetID:          datasetID,
		Impact:             arch.Impact,
		BaseResolutionTime: arch.BaseResolutionTime,
		ResolutionProgress: 0,
		HaltsDC:            arch.HaltsDC,
		StartedAt:          s.now().UTC(),
	}
}
