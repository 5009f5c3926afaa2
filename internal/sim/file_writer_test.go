package sim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dataops-idle/internal/game"
)

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	ts := time.Unix(0, 0).UTC()
	tRow := game.TickRow{
		ProfileID:   "p1",
		DCGenerated: 1.5,
		DCBalance:   10,
		GlobalSLA:   98.5,
		Datasets:    2,
		Incidents:   1,
		Timestamp:   ts,
	}
	iRow := game.IncidentRow{ProfileID: "p1", Event: game.IncidentSpawned, IncidentID: "inc-1", Type: "data_delay", DatasetID: "ds-1", Timestamp: ts}
	dRow := game.DatasetRow{ProfileID: "p1", DatasetID: "ds-1", Name: "Orders", SLA: 97.2, Status: game.StatusOK, Rate: 0.9, Timestamp: ts}

	tickPath := filepath.Join(dir, "ticks.json")
	incPath := filepath.Join(dir, "incidents.json")
	dsPath := filepath.Join(dir, "datasets.json")

	fw, err := NewFileWriter(tickPath, incPath, dsPath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := fw.WriteTick(tRow); err != nil {
		t.Fatalf("write tick: %v", err)
	}
	if err := fw.WriteIncident(iRow); err != nil {
		t.Fatalf("write incident: %v", err)
	}
	if err := fw.WriteDataset(dRow); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	fw.Close()

	data, err := os.ReadFile(tickPath)
	if err != nil {
		t.Fatalf("read ticks: %v", err)
	}
	var gotTick game.TickRow
	if err := json.Unmarshal(data, &gotTick); err != nil {
		t.Fatalf("decode tick: %v", err)
	}
	if gotTick.DCGenerated != tRow.DCGenerated || gotTick.GlobalSLA != tRow.GlobalSLA {
		t.Fatalf("unexpected tick: %#v", gotTick)
	}

	data, err = os.ReadFile(incPath)
	if err != nil {
		t.Fatalf("read incidents: %v", err)
	}
	var gotInc game.IncidentRow
	if err := json.Unmarshal(data, &gotInc); err != nil {
		t.Fatalf("decode incident: %v", err)
	}
	if gotInc.Event != iRow.Event || gotInc.IncidentID != iRow.IncidentID {
		t.Fatalf("unexpected incident: %#v", gotInc)
	}

	data, err = os.ReadFile(dsPath)
	if err != nil {
		t.Fatalf("read datasets: %v", err)
	}
	var gotDS game.DatasetRow
	if err := json.Unmarshal(data, &gotDS); err != nil {
		t.Fatalf("decode dataset: %v", err)
	}
	if gotDS.DatasetID != dRow.DatasetID || gotDS.Status != dRow.Status {
		t.Fatalf("unexpected dataset: %#v", gotDS)
	}
}

func TestFileWriter_OptionalLogsSkipped(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "ticks.json"), "", "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteIncident(game.IncidentRow{IncidentID: "inc-1"}); err != nil {
		t.Fatalf("incident write should be a no-op: %v", err)
	}
	if err := fw.WriteDataset(game.DatasetRow{DatasetID: "ds-1"}); err != nil {
		t.Fatalf("dataset write should be a no-op: %v", err)
	}
}
