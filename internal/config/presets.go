package config

import "sort"

var Presets = map[string]map[string]*Config{
	"decay": {
		"reference": {
			System: "decay", Method: MethodDopri5, Start: 0, End: 5, Tolerance: 1e-6,
			InitialState: []float64{1.0}, MaxAttempts: DefaultMaxAttempts,
		},
	},
	"growth": {
		"grid64": {
			System: "growth", Method: MethodRK4, Start: 0, End: 2, Steps: 64,
			InitialState: []float64{0.25},
		},
	},
	"harmonic": {
		"period": {
			System: "harmonic", Method: MethodDopri5, Start: 0, End: 6.283185307179586, Tolerance: 1e-8,
			InitialState: []float64{1, 0}, MaxAttempts: DefaultMaxAttempts,
		},
		"symplectic": {
			System: "harmonic", Method: MethodVerlet, Start: 0, End: 100, Steps: 10000,
			InitialState: []float64{1, 0},
		},
	},
	"vanderpol": {
		"limit_cycle": {
			System: "vanderpol", Method: MethodDopri5, Start: 0, End: 20, Tolerance: 1e-6,
			InitialState: []float64{0.5, 0}, Params: map[string]float64{"mu": 2.0}, MaxAttempts: DefaultMaxAttempts,
		},
	},
	"riccati": {
		"reference": {
			System: "riccati", Method: MethodDopri5, Start: 0, End: 5, Tolerance: 1e-6,
			InitialState: []float64{1.0}, InitialStep: 0.1, MaxAttempts: DefaultMaxAttempts,
		},
	},
	"cyclic": {
		"long": {
			System: "cyclic", Method: MethodDopri5, Start: 0, End: 1000, Tolerance: 1e-6,
			InitialState: []float64{1, 2, 3}, Params: map[string]float64{"alpha": 0.1}, MaxAttempts: DefaultMaxAttempts,
		},
	},
	"lorenz": {
		"butterfly": {
			System: "lorenz", Method: MethodDopri5, Start: 0, End: 50, Tolerance: 1e-6,
			InitialState: []float64{1, 1, 1}, MaxAttempts: DefaultMaxAttempts, Bound: 100,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
