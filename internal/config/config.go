// YAML content catalog loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dataops-idle/internal/game"
)

// DatasetDef defines an unlockable dataset.
type DatasetDef struct {
	ID                string        `yaml:"id"`
	Name              string        `yaml:"name"`
	BaseRatePerMinute float64       `yaml:"base_rate_per_minute"`
	Volume            float64       `yaml:"volume"`
	Risk              game.RiskTier `yaml:"risk"`
	SLATargets        game.Metrics  `yaml:"sla_targets"`
	Starter           bool          `yaml:"starter"`
	UnlockCost        float64       `yaml:"unlock_cost"`
}

// PipelineDef defines a one-time permanent dataset upgrade. Every effect
// dimension is present and zero-defaulted; there are no optional effect
// fields merged ad hoc.
type PipelineDef struct {
	ID                string       `yaml:"id"`
	Name              string       `yaml:"name"`
	MetricBoost       game.Metrics `yaml:"metric_boost"`
	DecayReduction    float64      `yaml:"decay_reduction"`
	IncidentReduction float64      `yaml:"incident_reduction"`
	Cost              float64      `yaml:"cost"`
}

// StaffDef defines a hireable staff member.
type StaffDef struct {
	ID                  string       `yaml:"id"`
	Name                string       `yaml:"name"`
	DCMultiplier        float64      `yaml:"dc_multiplier"`
	MetricBonus         game.Metrics `yaml:"metric_bonus"`
	ResolutionSpeedMult float64      `yaml:"resolution_speed_mult"`
	Cost                float64      `yaml:"cost"`
}

// TechnologyDef defines a technology-tree node.
type TechnologyDef struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Requires []string `yaml:"requires"`
	Cost     float64  `yaml:"cost"`
}

// EventDef defines a blocking event.
type EventDef struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	DurationSeconds int    `yaml:"duration_seconds"`
}

// Balance optionally overrides compiled balance defaults. Zero values mean
// "keep the default".
type Balance struct {
	DecayRatePerTick   float64 `yaml:"decay_rate_per_tick"`
	BaseIncidentChance float64 `yaml:"base_incident_chance"`
}

// GameContent is the root content catalog: every static definition the
// simulation references by identifier, loaded once at startup.
type GameContent struct {
	Datasets     []DatasetDef    `yaml:"datasets"`
	Pipelines    []PipelineDef   `yaml:"pipelines"`
	Staff        []StaffDef      `yaml:"staff"`
	Technologies []TechnologyDef `yaml:"technologies"`
	Events       []EventDef      `yaml:"events"`
	Balance      Balance         `yaml:"balance"`
}

// Load loads the YAML catalog and validates it against a CUE schema.
func Load(contentPath, cueSchemaPath string) (*GameContent, error) {
	if err := ValidateWithCue(contentPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, err
	}
	var content GameContent
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, err
	}
	if len(content.Datasets) == 0 {
		return nil, fmt.Errorf("content catalog defines no datasets")
	}
	return &content, nil
}

// Dataset returns the dataset definition for id.
func (c *GameContent) Dataset(id string) (DatasetDef, bool) {
	for _, d := range c.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return DatasetDef{}, false
}

// StaffMember returns the staff definition for id.
func (c *GameContent) StaffMember(id string) (StaffDef, bool) {
	for _, s := range c.Staff {
		if s.ID == id {
			return s, true
		}
	}
	return StaffDef{}, false
}

// Pipeline returns the pipeline definition for id.
func (c *GameContent) Pipeline(id string) (PipelineDef, bool) {
	for _, p := range c.Pipelines {
		if p.ID == id {
			return p, true
		}
	}
	return PipelineDef{}, false
}

// Event returns the event definition for id.
func (c *GameContent) Event(id string) (EventDef, bool) {
	for _, e := range c.Events {
		if e.ID == id {
			return e, true
		}
	}
	return EventDef{}, false
}

// StarterDatasets builds runtime datasets for every definition marked as
// part of the starter set, with pristine metrics.
func (c *GameContent) StarterDatasets() []game.Dataset {
	var out []game.Dataset
	for _, def := range c.Datasets {
		if !def.Starter {
			continue
		}
		out = append(out, NewDataset(def))
	}
	return out
}

// NewDataset instantiates a runtime dataset from its definition.
func NewDataset(def DatasetDef) game.Dataset {
	d := game.Dataset{
		ID:                def.ID,
		Name:              def.Name,
		BaseRatePerMinute: def.BaseRatePerMinute,
		Volume:            def.Volume,
		Risk:              def.Risk,
		Metrics:           game.Metrics{Timeliness: 100, Accuracy: 100, Completeness: 100},
		SLATargets:        def.SLATargets,
	}
	d.CurrentSLA = game.SLA(d.Metrics)
	d.Status = game.Classify(d)
	return d
}

// NewStaff instantiates a runtime staff member from its definition.
func NewStaff(def StaffDef) game.Staff {
	return game.Staff{
		ID:                  def.ID,
		Name:                def.Name,
		DCMultiplier:        def.DCMultiplier,
		MetricBonus:         def.MetricBonus,
		ResolutionSpeedMult: def.ResolutionSpeedMult,
	}
}
