// Pure formulas shared by the tick engine and external callers.
package game

import "math"

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SLA computes the weighted composite of the three quality metrics,
// clamped to [0,100].
func SLA(m Metrics) float64 {
	s := m.Timeliness*SLAWeightTimeliness +
		m.Accuracy*SLAWeightAccuracy +
		m.Completeness*SLAWeightCompleteness
	return clamp(s, 0, 100)
}

// DatasetRate returns a dataset's DC output per second. SLA throttles the
// base rate linearly; zero SLA means zero income.
func DatasetRate(d Dataset, globalMultiplier float64) float64 {
	return d.BaseRatePerMinute * (SLA(d.Metrics) / 100) * globalMultiplier / 60
}

// StaffDCMultiplier is the product of every staff member's DC bonus.
// No staff means 1.0.
func StaffDCMultiplier(staff []Staff) float64 {
	mult := 1.0
	for _, s := range staff {
		mult *= s.DCMultiplier
	}
	return mult
}

// StaffResolutionMultiplier is the product of every staff member's
// incident-resolution speed factor. No staff means 1.0.
func StaffResolutionMultiplier(staff []Staff) float64 {
	mult := 1.0
	for _, s := range staff {
		mult *= s.ResolutionSpeedMult
	}
	return mult
}

// TotalRate sums DatasetRate over all datasets using the combined staff
// DC multiplier.
func TotalRate(datasets []Dataset, staff []Staff) float64 {
	mult := StaffDCMultiplier(staff)
	total := 0.0
	for _, d := range datasets {
		total += DatasetRate(d, mult)
	}
	return total
}

// ApplyDecay subtracts rate from each metric, floored at 0.
func ApplyDecay(d *Dataset, rate float64) {
	d.Metrics.Timeliness = math.Max(0, d.Metrics.Timeliness-rate)
	d.Metrics.Accuracy = math.Max(0, d.Metrics.Accuracy-rate)
	d.Metrics.Completeness = math.Max(0, d.Metrics.Completeness-rate)
}

// EffectiveDecayRate derives the per-tick decay from a base rate and the
// number of installed pipelines. Pipelines reduce decay but never below
// DecayFloor. The reduction uses only the installed count, not each
// pipeline's declared decay_reduction magnitude.
func EffectiveDecayRate(base float64, installed int) float64 {
	return math.Max(DecayFloor, base-DecayReductionPerInstall*float64(installed))
}

// ApplyPipelineEffects adds a pipeline's metric deltas (capped at 100) and
// records the installation. One-time and permanent; the caller is
// responsible for rejecting duplicate installs before calling.
func ApplyPipelineEffects(d *Dataset, pipelineID string, deltas Metrics) {
	d.Metrics.Timeliness = clamp(d.Metrics.Timeliness+deltas.Timeliness, 0, 100)
	d.Metrics.Accuracy = clamp(d.Metrics.Accuracy+deltas.Accuracy, 0, 100)
	d.Metrics.Completeness = clamp(d.Metrics.Completeness+deltas.Completeness, 0, 100)
	d.InstalledPipelines = append(d.InstalledPipelines, pipelineID)
}

// ApplyStaffBonuses adds the summed per-metric bonus of all staff to the
// dataset's metrics, capped at 100.
func ApplyStaffBonuses(d *Dataset, staff []Staff) {
	var bonus Metrics
	for _, s := range staff {
		bonus.Timeliness += s.MetricBonus.Timeliness
		bonus.Accuracy += s.MetricBonus.Accuracy
		bonus.Completeness += s.MetricBonus.Completeness
	}
	d.Metrics.Timeliness = clamp(d.Metrics.Timeliness+bonus.Timeliness, 0, 100)
	d.Metrics.Accuracy = clamp(d.Metrics.Accuracy+bonus.Accuracy, 0, 100)
	d.Metrics.Completeness = clamp(d.Metrics.Completeness+bonus.Completeness, 0, 100)
}

// ApplyIncidentImpact adds an incident's (non-positive) metric deltas,
// floored at 0.
func ApplyIncidentImpact(d *Dataset, impact Metrics) {
	d.Metrics.Timeliness = math.Max(0, d.Metrics.Timeliness+impact.Timeliness)
	d.Metrics.Accuracy = math.Max(0, d.Metrics.Accuracy+impact.Accuracy)
	d.Metrics.Completeness = math.Max(0, d.Metrics.Completeness+impact.Completeness)
}

// Classify returns the dataset status from current vs target SLA:
// ok at or above target, warning at or above 80% of target, else failing.
func Classify(d Dataset) string {
	target := SLA(d.SLATargets)
	current := SLA(d.Metrics)
	switch {
	case current >= target:
		return StatusOK
	case current >= target*0.8:
		return StatusWarning
	default:
		return StatusFailing
	}
}

// IncidentChance returns the per-tick incident probability for a dataset.
// Larger, lower-quality, higher-risk datasets fail more often, bounded to
// [IncidentChanceMin, IncidentChanceMax].
func IncidentChance(d Dataset, baseChance float64) float64 {
	volumeFactor := 1 + d.Volume/1000
	slaFactor := (100 - SLA(d.Metrics)) / 100
	chance := baseChance * volumeFactor * slaFactor * RiskMultiplier(d.Risk)
	return clamp(chance, IncidentChanceMin, IncidentChanceMax)
}

// GlobalSLA is the arithmetic mean of per-dataset SLA. An empty portfolio
// counts as a vacuous 100 so downstream thresholds do not false-trigger.
func GlobalSLA(datasets []Dataset) float64 {
	if len(datasets) == 0 {
		return 100
	}
	sum := 0.0
	for _, d := range datasets {
		sum += SLA(d.Metrics)
	}
	return sum / float64(len(datasets))
}

// CanPrestige reports whether all three prestige gates hold: dataset count,
// global SLA, and lifetime DC.
func CanPrestige(datasets []Dataset, lifetimeDC float64) bool {
	return len(datasets) >= PrestigeMinDatasets &&
		GlobalSLA(datasets) >= PrestigeMinGlobalSLA &&
		lifetimeDC >= PrestigeMinLifetime
}

// PrestigeBonus returns the flat metric bonus granted per prestige level.
func PrestigeBonus(level int) float64 {
	return float64(level) * PrestigeBonusPerLevel
}

// ApplyPrestigeBonus adds the prestige metric bonus to a dataset's post-tick
// metrics, capped at 100. Applied by the caller after each tick, not by the
// engine.
func ApplyPrestigeBonus(d *Dataset, level int) {
	if level <= 0 {
		return
	}
	bonus := PrestigeBonus(level)
	d.Metrics.Timeliness = clamp(d.Metrics.Timeliness+bonus, 0, 100)
	d.Metrics.Accuracy = clamp(d.Metrics.Accuracy+bonus, 0, 100)
	d.Metrics.Completeness = clamp(d.Metrics.Completeness+bonus, 0, 100)
}
