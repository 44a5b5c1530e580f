package fractal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsCoverEveryFamily(t *testing.T) {
	ests, err := Defaults()
	require.NoError(t, err)
	require.Equal(t, []string{
		"hyperbulb", "mandelbox", "kifs", "pseudokleinian",
		"quatjulia", "newton", "kali", "coupledmap",
	}, Names(ests))

	seen := map[string]bool{}
	for _, e := range ests {
		require.False(t, seen[e.Name()], "duplicate %s", e.Name())
		seen[e.Name()] = true
	}
}

func TestByName(t *testing.T) {
	ests, err := Defaults()
	require.NoError(t, err)

	e, err := ByName(ests, "mandelbox")
	require.NoError(t, err)
	require.Equal(t, "mandelbox", e.Name())

	_, err = ByName(ests, "menger")
	require.Error(t, err)
	require.Contains(t, err.Error(), `no family named "menger"`)
}

func TestConstructorValidation(t *testing.T) {
	cases := []struct {
		name string
		make func() error
	}{
		{"hyperbulb power low", func() error { _, err := NewHyperbulb(1.0); return err }},
		{"hyperbulb power high", func() error { _, err := NewHyperbulb(64); return err }},
		{"mandelbox scale unit", func() error { _, err := NewMandelbox(1.0, 0.5, 1, 1); return err }},
		{"mandelbox radii swapped", func() error { _, err := NewMandelbox(2, 1, 0.5, 1); return err }},
		{"mandelbox fold zero", func() error { _, err := NewMandelbox(2, 0.5, 1, 0); return err }},
		{"kifs scale unit", func() error { _, err := NewKIFS(1, 1); return err }},
		{"kifs offset zero", func() error { _, err := NewKIFS(2, 0); return err }},
		{"pseudokleinian scale zero", func() error { _, err := NewPseudoKleinian(0, 0.9); return err }},
		{"pseudokleinian clamp high", func() error { _, err := NewPseudoKleinian(1.1, 5); return err }},
		{"quatjulia c out of range", func() error {
			_, err := NewQuatJulia([4]float64{3, 0, 0, 0}, 0.5)
			return err
		}},
		{"quatjulia thickness zero", func() error {
			_, err := NewQuatJulia([4]float64{0, 0, 0, 0}, 0)
			return err
		}},
		{"newton order one", func() error { _, err := NewNewton(1, 1, 0.25, 0.3); return err }},
		{"newton relax zero", func() error { _, err := NewNewton(3, 0, 0.25, 0.3); return err }},
		{"kali empty constant", func() error { _, err := NewKali(nil, 0.5); return err }},
		{"kali constant too wide", func() error {
			_, err := NewKali(make([]float64, 12), 0.5)
			return err
		}},
		{"coupledmap lambda high", func() error { _, err := NewCoupledMap(4.5, 0.3, 1); return err }},
		{"coupledmap coupling high", func() error { _, err := NewCoupledMap(3.9, 1.5, 1); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.make())
		})
	}
}

func TestNewKaliCopiesConstant(t *testing.T) {
	c := []float64{0.1, 0.2}
	kl, err := NewKali(c, 0.5)
	require.NoError(t, err)
	c[0] = 9
	require.Equal(t, 0.1, kl.C[0])
}
