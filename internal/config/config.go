// Package config loads slsbench.yaml.
//
// Precedence, lowest to highest: built-in defaults, the YAML file,
// SLSBENCH_* environment variables, command-line flags (applied by the
// commands themselves).
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/log"
	"github.com/kop-cichra/slsbench/internal/solver"
)

// DefaultFile is read from the working directory when --config is not given.
const DefaultFile = "slsbench.yaml"

// Environment overrides.
const (
	EnvGSATPath    = "SLSBENCH_GSAT_PATH"
	EnvProbSATPath = "SLSBENCH_PROBSAT_PATH"
	EnvLogLevel    = log.EnvLevel
)

// Config is the whole configuration file.
type Config struct {
	Solvers SolversConfig `yaml:"solvers" json:"solvers"`
	Batch   BatchConfig   `yaml:"batch" json:"batch"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Report  ReportConfig  `yaml:"report" json:"report"`
}

// SolversConfig locates the solver executables.
type SolversConfig struct {
	GSAT    GSATConfig    `yaml:"gsat" json:"gsat"`
	ProbSAT ProbSATConfig `yaml:"probsat" json:"probsat"`
}

// GSATConfig configures the GSAT-style solver.
type GSATConfig struct {
	Path        string  `yaml:"path" json:"path"`
	Probability float64 `yaml:"probability" json:"probability"`
	// Seed is passed to -r; "time" seeds from the clock.
	Seed string `yaml:"seed" json:"seed"`
}

// ProbSATConfig configures the probSAT-style solver.
type ProbSATConfig struct {
	Path string `yaml:"path" json:"path"`
	// Args go before the CNF path.
	Args []string `yaml:"args" json:"args"`
}

// BatchConfig holds defaults for run commands.
type BatchConfig struct {
	Workers   int  `yaml:"workers" json:"workers"`
	Manifest  bool `yaml:"manifest" json:"manifest"`
	Preflight bool `yaml:"preflight" json:"preflight"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ReportConfig overrides image sizes, in inches. Zero keeps the per-report
// default.
type ReportConfig struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solvers: SolversConfig{
			GSAT: GSATConfig{
				Path:        solver.DefaultGSATPath,
				Probability: solver.DefaultGSATProbability,
				Seed:        solver.DefaultGSATSeed,
			},
			ProbSAT: ProbSATConfig{
				Path: solver.DefaultProbSATPath,
			},
		},
		Batch: BatchConfig{
			Workers: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is an error only when required is set; an empty
// path loads defaults and environment only.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("cannot parse %s", path), err)
			}
		case stderrors.Is(err, os.ErrNotExist) && !required:
		case stderrors.Is(err, os.ErrNotExist):
			return nil, errors.NewFileNotFoundError(path)
		default:
			return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration %s", path), err)
	}
	return cfg, nil
}

// ApplyEnv applies the SLSBENCH_* overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvGSATPath); v != "" {
		c.Solvers.GSAT.Path = v
	}
	if v := getenv(EnvProbSATPath); v != "" {
		c.Solvers.ProbSAT.Path = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Solvers.GSAT.Validate(); err != nil {
		return fmt.Errorf("solvers.gsat: %w", err)
	}
	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Report.Validate(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// Validate checks the GSAT settings.
func (g *GSATConfig) Validate() error {
	if g.Probability < 0 || g.Probability > 1 {
		return fmt.Errorf("probability must be between 0 and 1, got %g", g.Probability)
	}
	if g.Seed == "" {
		return fmt.Errorf("seed must not be empty")
	}
	return nil
}

// Validate checks the batch settings.
func (b *BatchConfig) Validate() error {
	if b.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", b.Workers)
	}
	return nil
}

// Validate checks the logging settings.
func (l *LoggingConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid level %q (must be debug, info, warn or error)", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", l.Format)
	}
	return nil
}

// Validate checks the report sizes.
func (r *ReportConfig) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("width and height must be positive, got %gx%g", r.Width, r.Height)
	}
	return nil
}
