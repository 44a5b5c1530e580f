package main

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lukaszgryglicki/ndview/internal/scene"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named, validated starting scene.
type Preset struct {
	Name  string
	Scene *scene.Scene
}

// Presets parses the embedded preset list. Each entry overlays the
// stock scene with the fields it names and must validate, so a broken
// preset fails at startup rather than mid-session.
func Presets() ([]Preset, error) {
	var raw []struct {
		Name  string    `yaml:"name"`
		Scene yaml.Node `yaml:"scene"`
	}
	if err := yaml.Unmarshal(presetsYAML, &raw); err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}
	out := make([]Preset, 0, len(raw))
	for _, e := range raw {
		if e.Name == "" {
			return nil, fmt.Errorf("presets: entry without a name")
		}
		s := scene.New()
		if !e.Scene.IsZero() {
			if err := e.Scene.Decode(s); err != nil {
				return nil, fmt.Errorf("preset %s: %w", e.Name, err)
			}
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", e.Name, err)
		}
		out = append(out, Preset{Name: e.Name, Scene: s})
	}
	return out, nil
}
