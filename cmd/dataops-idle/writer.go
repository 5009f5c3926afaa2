package main

import (
	"os"

	"dataops-idle/internal/config"
	"dataops-idle/internal/sim"
)

// newWriters sets up tick and incident writers based on flags and env vars.
// It returns the writers and a cleanup function to close any resources.
func newWriters(content *config.GameContent, printOnly, tui bool, logFile string) (sim.TickWriter, sim.IncidentWriter, func(), error) {
	cleanup := func() {}

	writer, incidentWriter, err := baseWriters(content, printOnly, tui)
	if err != nil {
		return nil, nil, nil, err
	}
	if c, ok := writer.(interface{ Close() error }); ok {
		cleanup = func() { c.Close() }
	}
	if logFile == "" {
		return writer, incidentWriter, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".incidents", logFile+".datasets")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.TickWriter{writer, fw},
		[]sim.IncidentWriter{incidentWriter, fw},
	)
	prev := cleanup
	cleanup = func() {
		fw.Close()
		prev()
	}
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on flags and env vars.
func baseWriters(content *config.GameContent, printOnly, tui bool) (sim.TickWriter, sim.IncidentWriter, error) {
	if tui {
		w := sim.NewTUIWriter(content)
		return w, w, nil
	}
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		tw, iw := sim.NewStdoutWriters(content)
		return tw, iw, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	table := os.Getenv("GREPTIMEDB_TABLE")
	incidentTable := os.Getenv("INCIDENT_EVENT_TABLE")
	w, err := sim.NewGreptimeDBWriter(endpoint, "public", table, incidentTable)
	if err != nil {
		return nil, nil, err
	}
	return w, w, nil
}

// newTickWriter creates a tick writer without incident handling.
func newTickWriter(content *config.GameContent, printOnly bool) (sim.TickWriter, error) {
	w, _, _, err := newWriters(content, printOnly, false, "")
	return w, err
}
