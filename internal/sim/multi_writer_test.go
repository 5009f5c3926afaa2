package sim

import (
	"testing"

	"dataops-idle/internal/game"
)

type batchCollector struct {
	rows    []game.IncidentRow
	batched bool
}

func (b *batchCollector) WriteIncident(r game.IncidentRow) error {
	b.rows = append(b.rows, r)
	return nil
}

func (b *batchCollector) WriteIncidents(rows []game.IncidentRow) error {
	b.batched = true
	b.rows = append(b.rows, rows...)
	return nil
}

func TestMultiWriterFanOut(t *testing.T) {
	w1 := &MockTickWriter{}
	w2 := &MockTickWriter{}
	mw := NewMultiWriter([]TickWriter{w1, w2}, nil)
	if err := mw.WriteTick(game.TickRow{ProfileID: "p1"}); err != nil {
		t.Fatalf("WriteTick: %v", err)
	}
	if len(w1.Rows) != 1 || len(w2.Rows) != 1 {
		t.Fatalf("tick row not fanned out: %d/%d", len(w1.Rows), len(w2.Rows))
	}
}

func TestMultiWriterIncidentBatching(t *testing.T) {
	batch := &batchCollector{}
	plain := &MockIncidentWriter{}
	mw := NewMultiWriter(nil, []IncidentWriter{batch, plain})
	rows := []game.IncidentRow{{IncidentID: "inc-1"}, {IncidentID: "inc-2"}}
	if err := mw.WriteIncidents(rows); err != nil {
		t.Fatalf("WriteIncidents: %v", err)
	}
	if !batch.batched {
		t.Error("batch-capable writer not used in batch mode")
	}
	if len(batch.rows) != 2 || len(plain.Events) != 2 {
		t.Fatalf("incidents not delivered: %d/%d", len(batch.rows), len(plain.Events))
	}
}

type datasetCollector struct {
	MockTickWriter
	datasets []game.DatasetRow
}

func (d *datasetCollector) WriteDataset(r game.DatasetRow) error {
	d.datasets = append(d.datasets, r)
	return nil
}

func TestMultiWriterDatasetRoutesToCapableWriters(t *testing.T) {
	plain := &MockTickWriter{}
	capable := &datasetCollector{}
	mw := NewMultiWriter([]TickWriter{plain, capable}, nil)
	if err := mw.WriteDataset(game.DatasetRow{DatasetID: "ds-1"}); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}
	if len(capable.datasets) != 1 {
		t.Fatalf("dataset row not routed: %d", len(capable.datasets))
	}
}
