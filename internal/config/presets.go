package config

import "sort"

var Presets = map[string]map[string]*Config{
	"sir": {
		"classic": {
			Model: "sir", Coupling: "density", Duration: 160, Dt: 0.1,
			Params:    ParamsConfig{Beta: 0.3, Gamma: 0.1},
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
		"subcritical": {
			Model: "sir", Coupling: "density", Duration: 160, Dt: 0.1,
			Params:    ParamsConfig{Beta: 0.05, Gamma: 0.1},
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
		"town": {
			Model: "sir", Coupling: "frequency", Duration: 100, Dt: 0.05,
			Params:    ParamsConfig{Beta: 0.3, Gamma: 0.1},
			InitState: InitStateConfig{S: 999, I: 1},
		},
		"vaccination": {
			Model: "sir", Coupling: "frequency", Duration: 160, Dt: 0.1,
			Params:    ParamsConfig{Beta: 0.3, Gamma: 0.1, Nu: 0.01},
			InitState: InitStateConfig{S: 999, I: 1},
		},
		"endemic": {
			Model: "sir", Demography: true, Coupling: "density", Duration: 1000, Dt: 0.1,
			Params:    ParamsConfig{Beta: 0.3, Gamma: 0.1, Mu: 0.01},
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
	},
	"seir": {
		"classic": {
			Model: "seir", Coupling: "density", Duration: 160, Dt: 0.1,
			Params:    ParamsConfig{Beta: 0.3, Gamma: 0.1, Sigma: 0.2},
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
		"latent": {
			Model: "seir", Coupling: "frequency", Duration: 300, Dt: 0.1,
			Params:    ParamsConfig{Beta: 0.5, Gamma: 0.2, Sigma: 0.1},
			InitState: InitStateConfig{S: 9990, E: 10},
		},
		"endemic": {
			Model: "seir", Demography: true, Coupling: "density", Duration: 1000, Dt: 0.1,
			Params:    ParamsConfig{Beta: 0.3, Gamma: 0.1, Sigma: 0.2, Mu: 0.01},
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
