// Package production provides production integrations around the simulation
// core. The replay writer persists a completed race's result and event log
// as a debugging artifact: same seed plus same definition replays the exact
// trace, so a stored replay is enough to reproduce any reported race.
package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/racesimx/internal/core"
)

// ReplayWriter is a file-based replay store using JSON serialization, one
// file per run keyed by the result's RunID.
type ReplayWriter struct {
	dir string
}

// NewReplayWriter creates a ReplayWriter, ensuring the directory exists.
func NewReplayWriter(dir string) (*ReplayWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &ReplayWriter{dir: dir}, nil
}

// Save writes the result and its full event log.
func (w *ReplayWriter) Save(res *core.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn := filepath.Join(w.dir, res.RunID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads a stored replay by run ID.
func (w *ReplayWriter) Load(runID string) (*core.Result, error) {
	fn := filepath.Join(w.dir, runID+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("run %q: %w", runID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	var res core.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &res, nil
}

// MarshalYAML renders a result as a YAML document, for human inspection of
// replays.
func MarshalYAML(res *core.Result) ([]byte, error) {
	data, err := yaml.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
