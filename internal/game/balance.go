package game

// Balance knobs for the simulation. Compiled defaults; the content catalog
// may override a subset via its balance block.
const (
	// SLA weighting: timeliness and accuracy count double vs completeness.
	SLAWeightTimeliness   = 0.4
	SLAWeightAccuracy     = 0.4
	SLAWeightCompleteness = 0.2

	// Per-tick metric decay and its floor once pipelines reduce it.
	DecayRatePerTick         = 0.1
	DecayFloor               = 0.01
	DecayReductionPerInstall = 0.01

	// Incident spawn probability bounds per tick.
	BaseIncidentChance = 0.003
	IncidentChanceMin  = 0.001
	IncidentChanceMax  = 0.1

	// Offline catch-up: hard cap, batch size, efficiency penalty.
	OfflineCapSeconds   = 86400
	OfflineBatchSeconds = 60
	OfflineEfficiency   = 0.5

	// Prestige gates and reward.
	PrestigeMinDatasets   = 10
	PrestigeMinGlobalSLA  = 95.0
	PrestigeMinLifetime   = 2_000_000.0
	PrestigeBonusPerLevel = 5.0
)

// Risk multipliers applied to incident probability.
var riskMultipliers = map[RiskTier]float64{
	RiskLow:    1.0,
	RiskMedium: 1.5,
	RiskHigh:   2.0,
}

// RiskMultiplier returns the incident-probability factor for a tier.
// Unknown tiers fall back to low risk.
func RiskMultiplier(tier RiskTier) float64 {
	if m, ok := riskMultipliers[tier]; ok {
		return m
	}
	return riskMultipliers[RiskLow]
}
