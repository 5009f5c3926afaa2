package engine

import (
	"math"

	"dataops-idle/internal/game"
)

// CalculateOfflineProgress fast-forwards up to game.OfflineCapSeconds of
// simulated time in fixed batches. Each batch runs a single tick on the
// current datasets and scales its output by the batch length and the
// offline efficiency penalty, so intra-batch dynamics are approximated
// rather than exactly simulated. Incidents are cleared up front and any
// spawned during catch-up are discarded; offline incident simulation is
// deliberately not modeled.
func (e *Engine) CalculateOfflineProgress(snap game.TickSnapshot, secondsElapsed int) game.OfflineResult {
	capped := secondsElapsed
	if capped > game.OfflineCapSeconds {
		capped = game.OfflineCapSeconds
	}
	datasets := cloneDatasets(snap.Datasets)
	if capped <= 0 {
		return game.OfflineResult{FinalDatasets: datasets}
	}

	earned := 0.0
	for remaining := capped; remaining > 0; {
		batch := game.OfflineBatchSeconds
		if remaining < batch {
			batch = remaining
		}
		res := e.ProcessTick(game.TickSnapshot{
			Datasets:      datasets,
			Staff:         snap.Staff,
			PrestigeLevel: snap.PrestigeLevel,
		})
		earned += res.DCGenerated * float64(batch) * game.OfflineEfficiency
		datasets = res.UpdatedDatasets
		remaining -= batch
	}

	return game.OfflineResult{
		Earned:         int64(math.Floor(earned)),
		TicksSimulated: capped,
		FinalDatasets:  datasets,
	}
}
