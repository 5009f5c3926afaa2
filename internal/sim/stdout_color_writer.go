// ColorStdoutWriter prints human-friendly, colorized game output to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"dataops-idle/internal/config"
	"dataops-idle/internal/game"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints tick, incident, and dataset rows using ANSI colors.
type ColorStdoutWriter struct {
	content       *config.GameContent
	out           io.Writer
	once          sync.Once
	datasetColors map[string]string
	colorIdx      int
}

var datasetPalette = []string{colorGreen, colorYellow, colorBlue, colorMagenta, colorCyan}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(content *config.GameContent) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		content:       content,
		out:           os.Stdout,
		datasetColors: make(map[string]string),
	}
}

func (w *ColorStdoutWriter) getDatasetColor(id string) string {
	if c, ok := w.datasetColors[id]; ok {
		return c
	}
	c := datasetPalette[w.colorIdx%len(datasetPalette)]
	w.datasetColors[id] = c
	w.colorIdx++
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.content == nil {
		return
	}

	fmt.Fprintln(w.out, "Dataset Catalog:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tRisk\tBase Rate (DC/min)\n")
	for _, d := range w.content.Datasets {
		col := w.getDatasetColor(d.ID)
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%.1f\n", col, d.ID, colorReset, d.Name, d.Risk, d.BaseRatePerMinute)
	}
	tw.Flush()

	if len(w.content.Staff) > 0 {
		fmt.Fprintln(w.out, "\nStaff:")
		tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\tName\tDC Mult\tResolution Mult\tCost\n")
		for _, s := range w.content.Staff {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.0f\n", s.ID, s.Name, s.DCMultiplier, s.ResolutionSpeedMult, s.Cost)
		}
		tw.Flush()
	}
	fmt.Fprintln(w.out)
}

// WriteTick outputs a single tick row in colorized format.
func (w *ColorStdoutWriter) WriteTick(row game.TickRow) error {
	w.once.Do(w.printOverview)

	slaColor := colorGreen
	switch {
	case row.GlobalSLA < 70:
		slaColor = colorRed
	case row.GlobalSLA < 90:
		slaColor = colorYellow
	}

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%sdc=+%.3f%s ", colorGreen, row.DCGenerated, colorReset)
	fmt.Fprintf(w.out, "%sbalance=%.2f%s ", colorCyan, row.DCBalance, colorReset)
	fmt.Fprintf(w.out, "%ssla=%.1f%s ", slaColor, row.GlobalSLA, colorReset)
	fmt.Fprintf(w.out, "%sdatasets=%d%s ", colorBlue, row.Datasets, colorReset)
	fmt.Fprintf(w.out, "%sincidents=%d%s", colorMagenta, row.Incidents, colorReset)
	if row.PrestigeLevel > 0 {
		fmt.Fprintf(w.out, " %sprestige=%d%s", colorYellow, row.PrestigeLevel, colorReset)
	}
	if row.Paused {
		fmt.Fprintf(w.out, " %spaused%s", colorRed, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteIncident prints an incident lifecycle event to STDOUT.
func (w *ColorStdoutWriter) WriteIncident(row game.IncidentRow) error {
	w.once.Do(w.printOverview)
	evColor := colorRed
	if row.Event == game.IncidentResolved {
		evColor = colorGreen
	}
	dsColor := w.getDatasetColor(row.DatasetID)
	fmt.Fprintf(w.out, "%s[%s]%s %sINCIDENT %s%s type=%s dataset=%s%s%s id=%s\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		evColor, row.Event, colorReset, row.Type,
		dsColor, row.DatasetID, colorReset, row.IncidentID)
	return nil
}

// WriteIncidents prints multiple incident events.
func (w *ColorStdoutWriter) WriteIncidents(rows []game.IncidentRow) error {
	for _, r := range rows {
		_ = w.WriteIncident(r)
	}
	return nil
}

// WriteDataset prints a per-dataset status line to STDOUT.
func (w *ColorStdoutWriter) WriteDataset(row game.DatasetRow) error {
	w.once.Do(w.printOverview)

	statusColor := colorGreen
	switch row.Status {
	case game.StatusFailing:
		statusColor = colorRed
	case game.StatusWarning:
		statusColor = colorYellow
	}
	dsColor := w.getDatasetColor(row.DatasetID)

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%sdataset=%s%s ", dsColor, row.DatasetID, colorReset)
	fmt.Fprintf(w.out, "%ssla=%.1f%s ", colorCyan, row.SLA, colorReset)
	fmt.Fprintf(w.out, "%srate=%.3f%s ", colorBlue, row.Rate, colorReset)
	fmt.Fprintf(w.out, "%sincidents=%d%s ", colorMagenta, row.Incidents, colorReset)
	fmt.Fprintf(w.out, "%sstatus=%s%s\n", statusColor, row.Status, colorReset)
	return nil
}

// WriteDatasets prints multiple dataset rows.
func (w *ColorStdoutWriter) WriteDatasets(rows []game.DatasetRow) error {
	for _, r := range rows {
		_ = w.WriteDataset(r)
	}
	return nil
}
