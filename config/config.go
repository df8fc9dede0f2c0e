// Package config loads reconstruction settings from a YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/jvlmdr/fourdcg/cg"
	"github.com/jvlmdr/fourdcg/logger"
	"github.com/jvlmdr/fourdcg/metrics"
	"github.com/jvlmdr/fourdcg/project"
	"github.com/jvlmdr/fourdcg/recon"
	"github.com/jvlmdr/fourdcg/volume"
)

// Config is the top-level configuration.
type Config struct {
	Recon   ReconConfig   `yaml:"recon"`
	Volume  VolumeConfig  `yaml:"volume"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ReconConfig controls the solver and projectors.
type ReconConfig struct {
	Iterations int    `yaml:"iterations" validate:"gte=1"`
	Forward    string `yaml:"forward" validate:"oneof=nearest linear"`
	Back       string `yaml:"back" validate:"oneof=nearest linear"`
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`
}

// VolumeConfig gives the shape of each reconstructed phase.
// A zero size leaves the shape to the initial volume.
type VolumeConfig struct {
	Width   int        `yaml:"width" validate:"gte=0"`
	Height  int        `yaml:"height" validate:"gte=0"`
	Depth   int        `yaml:"depth" validate:"gte=0"`
	Spacing [3]float64 `yaml:"spacing"`
	Origin  [3]float64 `yaml:"origin"`
}

// Shape converts the configuration to a volume shape.
func (v VolumeConfig) Shape() volume.Shape {
	return volume.Shape{
		Width:   v.Width,
		Height:  v.Height,
		Depth:   v.Depth,
		Spacing: v.Spacing,
		Origin:  v.Origin,
	}
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig controls solver metrics and diagnostics.
type MetricsConfig struct {
	// Prefix of every metric name.
	Namespace string `yaml:"namespace"`
	// If set, the residual history is plotted to this PNG file.
	ResidualPlot string `yaml:"residualPlot"`
}

var validate = validator.New()

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Recon: ReconConfig{
			Iterations: recon.DefaultIterations,
			Forward:    project.KindNearest.String(),
			Back:       project.KindNearest.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: "fourdcg",
		},
	}
}

func (cfg *Config) normalize() {
	cfg.Recon.Forward = strings.ToLower(cfg.Recon.Forward)
	cfg.Recon.Back = strings.ToLower(cfg.Recon.Back)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
}

// applyEnvOverrides reads FOURDCG_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"FOURDCG_ITERATIONS", &cfg.Recon.Iterations},
		{"FOURDCG_WORKERS", &cfg.Recon.Workers},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		*e.dst = n
	}
	if v := os.Getenv("FOURDCG_FORWARD"); v != "" {
		cfg.Recon.Forward = v
	}
	if v := os.Getenv("FOURDCG_BACK"); v != "" {
		cfg.Recon.Back = v
	}
	if v := os.Getenv("FOURDCG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FOURDCG_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// SetupLogging installs the configured logger as the default.
func (cfg *Config) SetupLogging() {
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
}

// ReconOptions resolves the configured projectors into options for
// recon.Reconstruct.
func (cfg *Config) ReconOptions(log *slog.Logger, monitor cg.Monitor) (recon.Options, error) {
	fwd, err := projector(cfg.Recon.Forward)
	if err != nil {
		return recon.Options{}, fmt.Errorf("forward: %w", err)
	}
	back, err := projector(cfg.Recon.Back)
	if err != nil {
		return recon.Options{}, fmt.Errorf("back: %w", err)
	}
	return recon.Options{
		Iterations: cfg.Recon.Iterations,
		Forward:    fwd,
		Back:       back,
		Workers:    cfg.Recon.Workers,
		Shape:      cfg.Volume.Shape(),
		Logger:     log,
		Monitor:    monitor,
	}, nil
}

func projector(name string) (project.Projector, error) {
	k, err := project.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return project.New(k)
}

// NewMonitor registers the solver metrics with reg under the configured
// namespace.
func (cfg *Config) NewMonitor(reg prometheus.Registerer) (*metrics.Monitor, error) {
	return metrics.NewMonitor(reg, cfg.Metrics.Namespace)
}

// SaveDiagnostics plots the residual history of a reconstruction
// if a residual plot is configured.
func (cfg *Config) SaveDiagnostics(result *recon.Result) error {
	path := cfg.Metrics.ResidualPlot
	if path == "" {
		return nil
	}
	if result == nil || result.Report == nil {
		return fmt.Errorf("no solver report to plot")
	}
	if err := metrics.SaveResidualPlot(path, result.Report); err != nil {
		return fmt.Errorf("residual plot: %w", err)
	}
	return nil
}
