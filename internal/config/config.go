package config

import (
	"fmt"
	"os"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBeta     = 0.3
	DefaultGamma    = 0.1
	DefaultSigma    = 0.2
	DefaultMu       = 0.01
	DefaultS0       = 0.99
	DefaultI0       = 0.01
	DefaultDuration = 160.0
	DefaultDt       = 0.1
)

type Config struct {
	Model      string          `yaml:"model"`
	Demography bool            `yaml:"demography"`
	Coupling   string          `yaml:"coupling"`
	Params     ParamsConfig    `yaml:"params"`
	InitState  InitStateConfig `yaml:"init_state"`
	Duration   float64         `yaml:"duration"`
	Dt         float64         `yaml:"dt"`
}

type ParamsConfig struct {
	Beta  float64 `yaml:"beta"`
	Gamma float64 `yaml:"gamma"`
	Sigma float64 `yaml:"sigma"`
	Mu    float64 `yaml:"mu"`
	Nu    float64 `yaml:"nu"`
}

type InitStateConfig struct {
	S float64 `yaml:"s"`
	E float64 `yaml:"e"`
	I float64 `yaml:"i"`
	R float64 `yaml:"r"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "sir",
		Coupling: "density",
		Params: ParamsConfig{
			Beta:  DefaultBeta,
			Gamma: DefaultGamma,
			Sigma: DefaultSigma,
			Mu:    DefaultMu,
		},
		InitState: InitStateConfig{
			S: DefaultS0,
			I: DefaultI0,
		},
		Duration: DefaultDuration,
		Dt:       DefaultDt,
	}
}

// Load reads a YAML scenario on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Kind() (models.Kind, error) {
	return models.ParseKind(c.Model, c.Demography)
}

func (c *Config) ModelParams() models.Params {
	return models.Params{
		Beta:  c.Params.Beta,
		Gamma: c.Params.Gamma,
		Sigma: c.Params.Sigma,
		Mu:    c.Params.Mu,
		Nu:    c.Params.Nu,
	}
}

// GetInitState returns the initial state in the model's compartment order.
func (c *Config) GetInitState() dynamo.State {
	kind, err := c.Kind()
	if err == nil && kind.HasExposed() {
		return dynamo.State{c.InitState.S, c.InitState.E, c.InitState.I, c.InitState.R}
	}
	return dynamo.State{c.InitState.S, c.InitState.I, c.InitState.R}
}

func (c *Config) Grid() ([]float64, error) {
	return integrators.UniformGrid(0, c.Duration, c.Dt)
}

func (c *Config) BuildModel() (models.Model, error) {
	kind, err := c.Kind()
	if err != nil {
		return models.Model{}, err
	}
	coupling, err := models.ParseCoupling(c.Coupling)
	if err != nil {
		return models.Model{}, err
	}
	return models.New(kind, c.ModelParams(), models.WithCoupling(coupling))
}

// Build turns the scenario into everything one integration needs.
func (c *Config) Build() (models.Model, dynamo.State, []float64, error) {
	m, err := c.BuildModel()
	if err != nil {
		return models.Model{}, nil, nil, err
	}
	grid, err := c.Grid()
	if err != nil {
		return models.Model{}, nil, nil, err
	}
	return m, c.GetInitState(), grid, nil
}

// Validate checks the scenario without integrating it.
func (c *Config) Validate() error {
	_, y0, _, err := c.Build()
	if err != nil {
		return err
	}
	for i, v := range y0 {
		if v < 0 {
			return fmt.Errorf("%w: initial compartment %d is negative (%g)", dynamo.ErrInvalidValue, i, v)
		}
	}
	if !y0.IsValid() {
		return fmt.Errorf("%w: initial state is not finite", dynamo.ErrInvalidValue)
	}
	return nil
}
