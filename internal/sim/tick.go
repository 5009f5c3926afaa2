package sim

import (
	"context"
	"time"

	"dataops-idle/internal/game"
	"dataops-idle/internal/logging"
)

// tickBudget is the soft real-time budget for one tick. Exceeding it is
// logged, never corrected.
const tickBudget = 100 * time.Millisecond

// Run starts the game loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulation", "tick_interval", s.tickInterval, "profile", s.profileID)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulation")
			return
		}
	}
}

// tick runs one engine step, merges the delta into authoritative state, and
// emits rows to the writers.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	snap := s.snapshotLocked()
	res := s.eng.ProcessTick(snap)

	// Merge: the single reducer step that applies the engine delta.
	s.dc += res.DCGenerated
	s.lifetimeDC += res.DCGenerated
	s.datasets = res.UpdatedDatasets
	for i := range s.datasets {
		game.ApplyPrestigeBonus(&s.datasets[i], s.prestigeLevel)
	}
	s.incidents = append(res.UpdatedIncidents, res.NewIncidents...)
	if res.TriggeredEvent != nil {
		s.activeEvent = res.TriggeredEvent
	}
	s.lastTick = s.now().UTC()

	row := game.TickRow{
		ProfileID:     s.profileID,
		DCGenerated:   res.DCGenerated,
		DCBalance:     s.dc,
		GlobalSLA:     game.GlobalSLA(s.datasets),
		Datasets:      len(s.datasets),
		Incidents:     len(s.incidents),
		PrestigeLevel: s.prestigeLevel,
		Paused:        snap.ActiveEvent != nil,
		TickDuration:  res.Timings.Total,
		Timestamp:     s.lastTick,
	}
	incidentRows := s.incidentRowsLocked(snap, res)
	s.mu.Unlock()

	if res.Timings.Total > tickBudget {
		log.Warn("tick exceeded budget",
			"total", res.Timings.Total,
			"decay", res.Timings.Decay,
			"incidents", res.Timings.Incidents,
			"dc", res.Timings.DC)
	}

	if s.writer != nil {
		if err := s.writer.WriteTick(row); err != nil {
			log.Error("tick write failed", "err", err)
		}
	}
	if len(incidentRows) > 0 && s.incidentWriter != nil {
		if bw, ok := s.incidentWriter.(batchIncidentWriter); ok {
			if err := bw.WriteIncidents(incidentRows); err != nil {
				log.Error("incident batch write failed", "err", err)
			}
		} else {
			for _, ir := range incidentRows {
				if err := s.incidentWriter.WriteIncident(ir); err != nil {
					log.Error("incident write failed", "incident_id", ir.IncidentID, "err", err)
				}
			}
		}
	}
	s.writeDatasetRows(ctx)
}

// incidentRowsLocked derives lifecycle rows from a tick: spawns from the
// result, resolutions from incidents present before but absent after.
func (s *Simulator) incidentRowsLocked(snap game.TickSnapshot, res game.TickResult) []game.IncidentRow {
	var rows []game.IncidentRow
	stillActive := make(map[string]bool, len(res.UpdatedIncidents))
	for _, inc := range res.UpdatedIncidents {
		stillActive[inc.ID] = true
	}
	for _, inc := range snap.Incidents {
		if !stillActive[inc.ID] {
			rows = append(rows, game.IncidentRow{
				ProfileID:  s.profileID,
				Event:      game.IncidentResolved,
				IncidentID: inc.ID,
				Type:       inc.Type,
				DatasetID:  inc.DatasetID,
				Timestamp:  s.lastTick,
			})
		}
	}
	for _, inc := range res.NewIncidents {
		rows = append(rows, game.IncidentRow{
			ProfileID:  s.profileID,
			Event:      game.IncidentSpawned,
			IncidentID: inc.ID,
			Type:       inc.Type,
			DatasetID:  inc.DatasetID,
			Timestamp:  s.lastTick,
		})
	}
	return rows
}

// writeDatasetRows emits per-dataset status lines when the tick writer also
// handles them.
func (s *Simulator) writeDatasetRows(ctx context.Context) {
	dw, ok := s.writer.(DatasetWriter)
	if !ok {
		return
	}
	log := logging.FromContext(ctx)

	s.mu.Lock()
	mult := game.StaffDCMultiplier(s.staff)
	perDataset := make(map[string]int, len(s.datasets))
	for _, inc := range s.incidents {
		perDataset[inc.DatasetID]++
	}
	rows := make([]game.DatasetRow, 0, len(s.datasets))
	for _, d := range s.datasets {
		rows = append(rows, game.DatasetRow{
			ProfileID: s.profileID,
			DatasetID: d.ID,
			Name:      d.Name,
			SLA:       d.CurrentSLA,
			Status:    d.Status,
			Rate:      game.DatasetRate(d, mult),
			Incidents: perDataset[d.ID],
			Timestamp: s.lastTick,
		})
	}
	s.mu.Unlock()

	if bw, ok := dw.(batchDatasetWriter); ok {
		if err := bw.WriteDatasets(rows); err != nil {
			log.Error("dataset batch write failed", "err", err)
		}
		return
	}
	for _, r := range rows {
		if err := dw.WriteDataset(r); err != nil {
			log.Error("dataset write failed", "dataset_id", r.DatasetID, "err", err)
		}
	}
}
