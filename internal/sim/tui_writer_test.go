package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dataops-idle/internal/game"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p, datasetColors: map[string]string{}}
	tRow := game.TickRow{ProfileID: "p1", DCGenerated: 1, GlobalSLA: 99, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteTick(tRow); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[0])
	}
	iRow := game.IncidentRow{Event: game.IncidentSpawned, IncidentID: "inc-1", DatasetID: "ds-1", Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteIncident(iRow); err != nil {
		t.Fatalf("incident: %v", err)
	}
	if _, ok := p.msgs[1].(incidentMsg); !ok {
		t.Fatalf("expected incidentMsg, got %T", p.msgs[1])
	}
	w.SetAdminStatus(true)
	if _, ok := p.msgs[2].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[2])
	}
	if err := w.WriteDataset(game.DatasetRow{DatasetID: "ds-1"}); err != nil {
		t.Fatalf("dataset: %v", err)
	}
	if _, ok := p.msgs[3].(datasetMsg); !ok {
		t.Fatalf("expected datasetMsg, got %T", p.msgs[3])
	}
}

func TestTUIModelHireDialog(t *testing.T) {
	content := testContent()
	m := newTUIModel(content, map[string]string{})
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mi.(tuiModel)

	var hiredID string
	mi, _ = m.Update(setHireMsg{fn: func(id string) bool {
		hiredID = id
		return true
	}})
	m = mi.(tuiModel)

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	m = mi.(tuiModel)
	if !m.hireDialog {
		t.Fatal("hire dialog not opened")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(tuiModel)
	if m.hireDialog {
		t.Fatal("hire dialog not closed")
	}
	if hiredID != "staff-engineer" {
		t.Fatalf("expected prefilled staff id, got %q", hiredID)
	}
	if !strings.Contains(m.renderBottom(), "hired staff-engineer") {
		t.Fatalf("expected hire notice, got %q", m.renderBottom())
	}
}

func TestTUIModelTracksDatasets(t *testing.T) {
	m := newTUIModel(testContent(), map[string]string{"ds-orders": colorGreen})
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mi.(tuiModel)
	mi, _ = m.Update(datasetMsg{game.DatasetRow{DatasetID: "ds-orders", SLA: 97.5, Status: game.StatusOK, Rate: 0.9}})
	m = mi.(tuiModel)
	view := m.renderDatasets()
	if !strings.Contains(view, "ds-orders") || !strings.Contains(view, "sla=97.5") {
		t.Fatalf("dataset section missing row: %q", view)
	}
}

func TestTUIModelWrapToggle(t *testing.T) {
	m := newTUIModel(testContent(), map[string]string{})
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 30})
	m = mi.(tuiModel)
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatal("wrap not toggled")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatal("autoscroll not toggled off")
	}
}
