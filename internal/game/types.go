// Domain types for the dataops idle simulation
package game

import (
	"os"
	"time"
)

// Metrics holds the three quality dimensions of a dataset, each in [0,100].
type Metrics struct {
	Timeliness   float64 `json:"timeliness" yaml:"timeliness"`
	Accuracy     float64 `json:"accuracy" yaml:"accuracy"`
	Completeness float64 `json:"completeness" yaml:"completeness"`
}

// Risk tiers multiply a dataset's incident probability.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Dataset status constants.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusFailing = "failing"
)

// Dataset is an income-producing entity with decaying quality metrics.
type Dataset struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	BaseRatePerMinute  float64  `json:"base_rate_per_minute"`
	Volume             float64  `json:"volume"`
	Risk               RiskTier `json:"risk"`
	Metrics            Metrics  `json:"metrics"`
	SLATargets         Metrics  `json:"sla_targets"`
	InstalledPipelines []string `json:"installed_pipelines"`
	CurrentSLA         float64  `json:"current_sla"`
	Status             string   `json:"status"`
}

// Staff is a hired helper with ongoing global bonuses.
type Staff struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	DCMultiplier        float64 `json:"dc_multiplier"`
	MetricBonus         Metrics `json:"metric_bonus"`
	ResolutionSpeedMult float64 `json:"resolution_speed_mult"`
}

// Incident is an active negative effect on exactly one dataset.
type Incident struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	DatasetID          string    `json:"dataset_id"`
	Impact             Metrics   `json:"impact"`
	BaseResolutionTime float64   `json:"base_resolution_time"`
	ResolutionProgress float64   `json:"resolution_progress"`
	HaltsDC            bool      `json:"halts_dc"`
	StartedAt          time.Time `json:"started_at"`
}

// GameEvent is a blocking event; while active the simulation is fully paused.
type GameEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartedAt   time.Time `json:"started_at"`
}

// TickSnapshot is the immutable input bundle for one engine tick.
type TickSnapshot struct {
	Datasets      []Dataset
	Staff         []Staff
	Incidents     []Incident
	ActiveEvent   *GameEvent
	DC            float64
	LifetimeDC    float64
	PrestigeLevel int
}

// TickTimings reports per-phase wall time for one tick.
type TickTimings struct {
	Decay     time.Duration `json:"decay"`
	Incidents time.Duration `json:"incidents"`
	DC        time.Duration `json:"dc"`
	Total     time.Duration `json:"total"`
}

// TickResult is the delta emitted by one engine tick. The caller owns the
// merge into its authoritative state.
type TickResult struct {
	DCGenerated      float64
	NewIncidents     []Incident
	UpdatedIncidents []Incident
	UpdatedDatasets  []Dataset
	TriggeredEvent   *GameEvent
	Timings          TickTimings
}

// OfflineResult aggregates a batched offline catch-up run.
type OfflineResult struct {
	Earned         int64
	TicksSimulated int
	FinalDatasets  []Dataset
}

// TickRow represents one per-tick portfolio record for the metrics sink.
type TickRow struct {
	ProfileID     string        `json:"profile_id"` // TAG
	DCGenerated   float64       `json:"dc_generated"`
	DCBalance     float64       `json:"dc_balance"`
	GlobalSLA     float64       `json:"global_sla"`
	Datasets      int           `json:"datasets"`
	Incidents     int           `json:"incidents"`
	PrestigeLevel int           `json:"prestige_level"`
	Paused        bool          `json:"paused"`
	TickDuration  time.Duration `json:"tick_duration"`
	Timestamp     time.Time     `json:"ts"` // TIME INDEX
}

// Incident row event kinds.
const (
	IncidentSpawned  = "spawned"
	IncidentResolved = "resolved"
)

// IncidentRow records an incident lifecycle event.
type IncidentRow struct {
	ProfileID  string    `json:"profile_id"`
	Event      string    `json:"event"`
	IncidentID string    `json:"incident_id"`
	Type       string    `json:"type"`
	DatasetID  string    `json:"dataset_id"`
	Timestamp  time.Time `json:"ts"`
}

// DatasetRow is a per-dataset status line emitted each tick.
type DatasetRow struct {
	ProfileID string    `json:"profile_id"`
	DatasetID string    `json:"dataset_id"`
	Name      string    `json:"name"`
	SLA       float64   `json:"sla"`
	Status    string    `json:"status"`
	Rate      float64   `json:"rate"`
	Incidents int       `json:"incidents"`
	Timestamp time.Time `json:"ts"`
}

// TickTableName holds the table name used when writing tick rows to
// GreptimeDB. It defaults to "tick_metrics" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var TickTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "tick_metrics"
}()

func (TickRow) TableName() string {
	return TickTableName
}
