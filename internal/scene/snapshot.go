package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// snapshotVersion tags saved files; loading rejects other versions
// rather than guessing at field meaning.
const snapshotVersion = 1

// Snapshot wraps a scene with the version tag for on-disk storage.
type Snapshot struct {
	Version int   `json:"version"`
	Scene   Scene `json:"scene"`
}

// Marshal renders the scene as an indented snapshot document.
func (s *Scene) Marshal() ([]byte, error) {
	return json.MarshalIndent(Snapshot{Version: snapshotVersion, Scene: *s}, "", "  ")
}

// Unmarshal parses a snapshot, checks its version and validates the
// scene before handing it back, so a loaded scene is always drawable.
func Unmarshal(data []byte) (*Scene, error) {
	var sn Snapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if sn.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot: version %d, want %d", sn.Version, snapshotVersion)
	}
	s := sn.Scene
	if s.Angles == nil {
		s.Angles = map[string]float64{}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the scene snapshot to path.
func (s *Scene) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Load reads and validates a snapshot file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
