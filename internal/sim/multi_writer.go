package sim

import "dataops-idle/internal/game"

// MultiWriter fans out tick, incident, and dataset rows to multiple writers.
type MultiWriter struct {
	tickWriters     []TickWriter
	incidentWriters []IncidentWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TickWriter, iws []IncidentWriter) *MultiWriter {
	return &MultiWriter{tickWriters: tws, incidentWriters: iws}
}

// WriteTick sends a tick row to all writers.
func (mw *MultiWriter) WriteTick(row game.TickRow) error {
	for _, w := range mw.tickWriters {
		if err := w.WriteTick(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteIncident sends an incident event to all incident writers.
func (mw *MultiWriter) WriteIncident(row game.IncidentRow) error {
	for _, w := range mw.incidentWriters {
		if err := w.WriteIncident(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteIncidents sends multiple incident events, using batch if supported.
func (mw *MultiWriter) WriteIncidents(rows []game.IncidentRow) error {
	for _, w := range mw.incidentWriters {
		if bw, ok := w.(batchIncidentWriter); ok {
			if err := bw.WriteIncidents(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteIncident(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteDataset sends a dataset row to all tick writers that handle them.
func (mw *MultiWriter) WriteDataset(row game.DatasetRow) error {
	for _, w := range mw.tickWriters {
		if dw, ok := w.(DatasetWriter); ok {
			if err := dw.WriteDataset(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteDatasets sends multiple dataset rows, using batch if supported.
func (mw *MultiWriter) WriteDatasets(rows []game.DatasetRow) error {
	for _, w := range mw.tickWriters {
		dw, ok := w.(DatasetWriter)
		if !ok {
			continue
		}
		if bw, ok := dw.(batchDatasetWriter); ok {
			if err := bw.WriteDatasets(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := dw.WriteDataset(r); err != nil {
				return err
			}
		}
	}
	return nil
}
