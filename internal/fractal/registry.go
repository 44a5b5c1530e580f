package fractal

import "fmt"

// Interface conformance pinned at compile time.
var (
	_ Estimator = (*Hyperbulb)(nil)
	_ Estimator = (*Mandelbox)(nil)
	_ Estimator = (*KIFS)(nil)
	_ Estimator = (*PseudoKleinian)(nil)
	_ Estimator = (*QuatJulia)(nil)
	_ Estimator = (*Newton)(nil)
	_ Estimator = (*Kali)(nil)
	_ Estimator = (*CoupledMap)(nil)
)

// Defaults builds the full family set with stock parameters: the
// classic exponents and fold constants each formula is usually shown
// with. These are the instances the viewer starts from; presets and
// configs rebuild families with their own parameters.
func Defaults() ([]Estimator, error) {
	ests := make([]Estimator, 0, 8)
	add := func(e Estimator, err error) error {
		if err != nil {
			return err
		}
		ests = append(ests, e)
		return nil
	}
	if err := add(NewHyperbulb(8)); err != nil {
		return nil, err
	}
	if err := add(NewMandelbox(2, 0.5, 1, 1)); err != nil {
		return nil, err
	}
	if err := add(NewKIFS(2, 1)); err != nil {
		return nil, err
	}
	if err := add(NewPseudoKleinian(1.1, 0.92)); err != nil {
		return nil, err
	}
	if err := add(NewQuatJulia([4]float64{-0.291, -0.399, 0.339, 0.437}, 0.5)); err != nil {
		return nil, err
	}
	if err := add(NewNewton(3, 1, 0.25, 0.3)); err != nil {
		return nil, err
	}
	if err := add(NewKali([]float64{-0.933, -0.2, -0.586}, 0.5)); err != nil {
		return nil, err
	}
	if err := add(NewCoupledMap(3.9, 0.3, 1)); err != nil {
		return nil, err
	}
	return ests, nil
}

// ByName finds an estimator in a registry slice.
func ByName(ests []Estimator, name string) (Estimator, error) {
	for _, e := range ests {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("fractal: no family named %q", name)
}

// Names lists registry names in registry order.
func Names(ests []Estimator) []string {
	names := make([]string, len(ests))
	for i, e := range ests {
		names[i] = e.Name()
	}
	return names
}
