// Versioned JSON save blobs for the external state bundle
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"dataops-idle/internal/game"
)

// Version is the current save format version. Import rejects any other.
const Version = 1

// Blob is the serialized external state bundle.
type Blob struct {
	Version       int             `json:"version"`
	SaveID        string          `json:"save_id"`
	SavedAt       time.Time       `json:"saved_at"`
	DC            float64         `json:"dc"`
	LifetimeDC    float64         `json:"lifetime_dc"`
	PrestigeLevel int             `json:"prestige_level"`
	Datasets      []game.Dataset  `json:"datasets"`
	Staff         []game.Staff    `json:"staff"`
	UnlockedTechs []string        `json:"unlocked_techs"`
	Incidents     []game.Incident `json:"incidents"`
	LastTick      time.Time       `json:"last_tick"`
}

// New builds a blob from live state, stamping a fresh save ID and timestamp.
func New(dc, lifetime float64, prestige int, datasets []game.Dataset, staff []game.Staff, techs []string, incidents []game.Incident, lastTick time.Time) *Blob {
	return &Blob{
		Version:       Version,
		SaveID:        uuid.New().String(),
		SavedAt:       time.Now().UTC(),
		DC:            dc,
		LifetimeDC:    lifetime,
		PrestigeLevel: prestige,
		Datasets:      datasets,
		Staff:         staff,
		UnlockedTechs: techs,
		Incidents:     incidents,
		LastTick:      lastTick,
	}
}

// Export serializes a blob.
func Export(b *Blob) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Import deserializes a blob, rejecting malformed data and version
// mismatches. A failed import leaves the caller's state untouched; both
// failure modes surface as a recoverable error.
func Import(data []byte) (*Blob, error) {
	var b Blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("import failed: save version %d, want %d", b.Version, Version)
	}
	return &b, nil
}

// Save writes a blob to path.
func Save(path string, b *Blob) error {
	data, err := Export(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a blob from path.
func Load(path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Import(data)
}
