package sim

import (
	"encoding/json"
	"os"

	"dataops-idle/internal/game"
)

// FileWriter writes tick, incident, and dataset rows to JSONL files.
type FileWriter struct {
	tickFile *os.File
	incFile  *os.File
	dsFile   *os.File
	tickEnc  *json.Encoder
	incEnc   *json.Encoder
	dsEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter. incidentPath or datasetPath may be
// empty to skip those logs.
func NewFileWriter(tickPath, incidentPath, datasetPath string) (*FileWriter, error) {
	tf, err := os.Create(tickPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{tickFile: tf, tickEnc: json.NewEncoder(tf)}
	if incidentPath != "" {
		f, err := os.Create(incidentPath)
		if err != nil {
			tf.Close()
			return nil, err
		}
		fw.incFile = f
		fw.incEnc = json.NewEncoder(f)
	}
	if datasetPath != "" {
		f, err := os.Create(datasetPath)
		if err != nil {
			if fw.incFile != nil {
				fw.incFile.Close()
			}
			tf.Close()
			return nil, err
		}
		fw.dsFile = f
		fw.dsEnc = json.NewEncoder(f)
	}
	return fw, nil
}

// WriteTick logs a single tick row.
func (f *FileWriter) WriteTick(row game.TickRow) error {
	return f.tickEnc.Encode(row)
}

// WriteIncident logs a single incident event, if enabled.
func (f *FileWriter) WriteIncident(row game.IncidentRow) error {
	if f.incEnc == nil {
		return nil
	}
	return f.incEnc.Encode(row)
}

// WriteIncidents logs multiple incident events.
func (f *FileWriter) WriteIncidents(rows []game.IncidentRow) error {
	for _, r := range rows {
		if err := f.WriteIncident(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteDataset logs a single dataset row, if enabled.
func (f *FileWriter) WriteDataset(row game.DatasetRow) error {
	if f.dsEnc == nil {
		return nil
	}
	return f.dsEnc.Encode(row)
}

// WriteDatasets logs multiple dataset rows.
func (f *FileWriter) WriteDatasets(rows []game.DatasetRow) error {
	for _, r := range rows {
		if err := f.WriteDataset(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all underlying files.
func (f *FileWriter) Close() error {
	var firstErr error
	if err := f.tickFile.Close(); err != nil {
		firstErr = err
	}
	if f.incFile != nil {
		if err := f.incFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if f.dsFile != nil {
		if err := f.dsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
