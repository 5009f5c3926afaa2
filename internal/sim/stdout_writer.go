// Writer implementation printing rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/term"

	"dataops-idle/internal/config"
	"dataops-idle/internal/game"
)

// NewStdoutWriters picks colorized output when STDOUT is a terminal and
// falls back to JSON lines otherwise.
func NewStdoutWriters(content *config.GameContent) (TickWriter, IncidentWriter) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		w := NewColorStdoutWriter(content)
		return w, w
	}
	w := &StdoutWriter{}
	return w, w
}

// StdoutWriter prints rows as JSON lines to STDOUT.
type StdoutWriter struct{}

// WriteTick outputs a single tick row.
func (w *StdoutWriter) WriteTick(row game.TickRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteIncident prints an incident lifecycle event to STDOUT.
func (w *StdoutWriter) WriteIncident(row game.IncidentRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteIncidents prints multiple incident events.
func (w *StdoutWriter) WriteIncidents(rows []game.IncidentRow) error {
	for _, r := range rows {
		_ = w.WriteIncident(r)
	}
	return nil
}

// WriteDataset prints a per-dataset status line to STDOUT.
func (w *StdoutWriter) WriteDataset(row game.DatasetRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteDatasets prints multiple dataset rows.
func (w *StdoutWriter) WriteDatasets(rows []game.DatasetRow) error {
	for _, r := range rows {
		_ = w.WriteDataset(r)
	}
	return nil
}
