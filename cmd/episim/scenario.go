package main

import (
	"fmt"

	"github.com/san-kum/episim/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// scenarioFlags are shared by every command that integrates a model. They
// override preset or config file values only when set explicitly.
type scenarioFlags struct {
	preset     string
	configFile string
	dt         float64
	duration   float64
	demography bool
	coupling   string
	beta       float64
	gamma      float64
	sigma      float64
	mu         float64
	nu         float64
	s0         float64
	e0         float64
	i0         float64
	rec0       float64
}

func (s *scenarioFlags) register(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&s.preset, "preset", "", "use preset configuration")
	f.StringVar(&s.configFile, "config", "", "config file path (yaml)")
	f.Float64Var(&s.dt, "dt", d.Dt, "timestep")
	f.Float64Var(&s.duration, "time", d.Duration, "duration")
	f.BoolVar(&s.demography, "demography", d.Demography, "enable births and deaths")
	f.StringVar(&s.coupling, "coupling", d.Coupling, "infection coupling (density, frequency)")
	f.Float64Var(&s.beta, "beta", d.Params.Beta, "transmission rate")
	f.Float64Var(&s.gamma, "gamma", d.Params.Gamma, "recovery rate")
	f.Float64Var(&s.sigma, "sigma", d.Params.Sigma, "incubation rate (seir)")
	f.Float64Var(&s.mu, "mu", d.Params.Mu, "birth and death rate")
	f.Float64Var(&s.nu, "nu", d.Params.Nu, "vaccination rate")
	f.Float64Var(&s.s0, "s0", d.InitState.S, "initial susceptible")
	f.Float64Var(&s.e0, "e0", d.InitState.E, "initial exposed (seir)")
	f.Float64Var(&s.i0, "i0", d.InitState.I, "initial infected")
	f.Float64Var(&s.rec0, "rec0", d.InitState.R, "initial recovered")
	cmd.MarkFlagsMutuallyExclusive("preset", "config")
}

// resolve builds the scenario for the command: defaults, then a preset or
// config file, then explicitly set flags.
func (s *scenarioFlags) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	switch {
	case s.preset != "":
		p := config.GetPreset(cfg.Model, s.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.preset, config.ListPresets(cfg.Model))
		}
		cfg = p
	case s.configFile != "":
		loaded, err := config.Load(s.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Model = args[0]
		}
		cfg = loaded
	}

	f := cmd.Flags()
	overrides := []struct {
		flag string
		set  func()
	}{
		{"dt", func() { cfg.Dt = s.dt }},
		{"time", func() { cfg.Duration = s.duration }},
		{"demography", func() { cfg.Demography = s.demography }},
		{"coupling", func() { cfg.Coupling = s.coupling }},
		{"beta", func() { cfg.Params.Beta = s.beta }},
		{"gamma", func() { cfg.Params.Gamma = s.gamma }},
		{"sigma", func() { cfg.Params.Sigma = s.sigma }},
		{"mu", func() { cfg.Params.Mu = s.mu }},
		{"nu", func() { cfg.Params.Nu = s.nu }},
		{"s0", func() { cfg.InitState.S = s.s0 }},
		{"e0", func() { cfg.InitState.E = s.e0 }},
		{"i0", func() { cfg.InitState.I = s.i0 }},
		{"rec0", func() { cfg.InitState.R = s.rec0 }},
	}
	for _, o := range overrides {
		if f.Changed(o.flag) {
			o.set()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"model":      cfg.Model,
		"demography": cfg.Demography,
		"coupling":   cfg.Coupling,
		"dt":         cfg.Dt,
		"duration":   cfg.Duration,
	}).Debug("scenario resolved")
	return cfg, nil
}
