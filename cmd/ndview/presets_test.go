package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/ndview/internal/scene"
)

func TestPresetsParseAndValidate(t *testing.T) {
	ps, err := Presets()
	require.NoError(t, err)
	require.NotEmpty(t, ps)

	seen := map[string]bool{}
	for _, p := range ps {
		require.False(t, seen[p.Name], "duplicate preset %s", p.Name)
		seen[p.Name] = true
		require.NoError(t, p.Scene.Validate(), "preset %s", p.Name)
	}
}

func TestPresetOverlaysKeepDefaults(t *testing.T) {
	ps, err := Presets()
	require.NoError(t, err)

	var classic *Preset
	for i := range ps {
		if ps[i].Name == "hyperbulb-classic" {
			classic = &ps[i]
		}
	}
	require.NotNil(t, classic)
	require.Equal(t, 30.0, classic.Scene.Angles["XW"])
	// Fields the preset does not mention keep their stock values.
	require.Equal(t, scene.New().MaxSteps, classic.Scene.MaxSteps)
	require.Equal(t, scene.New().Palette, classic.Scene.Palette)
}

func TestPresetDimensionsSpanTheRange(t *testing.T) {
	ps, err := Presets()
	require.NoError(t, err)

	dims := map[int]bool{}
	for _, p := range ps {
		dims[p.Scene.Dim] = true
	}
	require.GreaterOrEqual(t, len(dims), 4, "presets should show off several dimensions")
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printList(&buf))
	out := buf.String()
	require.Contains(t, out, "families:")
	require.Contains(t, out, "hyperbulb")
	require.Contains(t, out, "roots-e8")
	require.Contains(t, out, "kali-veil")
}
