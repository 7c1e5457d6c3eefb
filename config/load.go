package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maseology/hbv"
	"github.com/maseology/hbv/forcing"
	"github.com/maseology/hbv/opt"
	"github.com/spf13/viper"
)

// EnvPrefix of the environment overrides, e.g. HBV_CALIBRATION_METHOD
const EnvPrefix = "HBV"

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", ".")
	v.SetDefault("data.pattern", forcing.DefaultPattern)
	v.SetDefault("data.stations", "")
	v.SetDefault("data.until", "")
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.database", "hbv.db")
	v.SetDefault("model.routing", false)
	v.SetDefault("model.start", 0)
	v.SetDefault("model.snow_seed", 0.)
	v.SetDefault("calibration.method", hbv.MethodGenetic)
	v.SetDefault("calibration.objective", string(hbv.ObjectiveNSE))
	v.SetDefault("calibration.max_evaluations", 0)
	v.SetDefault("calibration.population", 0)
	v.SetDefault("calibration.concurrency", 0)
	v.SetDefault("calibration.seed", 1)
	v.SetDefault("calibration.warmup", 365)
	v.SetDefault("batch.workers", 0)
	v.SetDefault("log.debug", false)
}

// Load configuration from an optional YAML file and the environment.
// Environment variables take precedence over values from the file. When path
// is empty, hbv.yaml is looked up in the working directory and ignored when
// missing.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("hbv")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Calibration.Method = strings.ToLower(cfg.Calibration.Method)
	cfg.Calibration.Objective = strings.ToLower(cfg.Calibration.Objective)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and the bound overrides.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := c.Bounds(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Until returns the end of the calibration window, zero when unset.
func (c *Config) Until() time.Time {
	if c.Data.Until == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.DateOnly, c.Data.Until) // validated
	return t
}

// DatabasePath of the result store, empty when disabled.
func (c *Config) DatabasePath() string {
	if c.Output.Database == "" || filepath.IsAbs(c.Output.Database) {
		return c.Output.Database
	}
	return filepath.Join(c.Output.Dir, c.Output.Database)
}

// Bounds returns the default parameter ranges with the configured overrides.
func (c *Config) Bounds() (opt.Bounds, error) {
	b := hbv.DefaultBounds(c.Model.Routing)
	for k, r := range c.Calibration.Bounds {
		i := parameterIndex(strings.ToLower(k))
		if i >= len(b) {
			return nil, fmt.Errorf("%w: %s requires routing", hbv.ErrConfig, k)
		}
		if i < 0 {
			return nil, fmt.Errorf("%w: unknown parameter %q in calibration bounds", hbv.ErrConfig, k)
		}
		if len(r) != 2 {
			return nil, fmt.Errorf("%w: bounds of %s need [lo, hi]", hbv.ErrConfig, k)
		}
		b[i].Lo, b[i].Hi = r[0], r[1]
		if b[i].Log && b[i].Lo <= 0. {
			b[i].Log = false
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func parameterIndex(nam string) int {
	for i, n := range hbv.ParameterNames {
		if n == nam {
			return i
		}
	}
	return -1
}

// ModelOptions returns the simulation options.
func (c *Config) ModelOptions() hbv.Options {
	return hbv.Options{
		Routing:  c.Model.Routing,
		Start:    c.Model.Start,
		SnowSeed: c.Model.SnowSeed,
	}
}

// CalibrationOptions returns the calibration settings.
func (c *Config) CalibrationOptions() (hbv.CalibrationOptions, error) {
	b, err := c.Bounds()
	if err != nil {
		return hbv.CalibrationOptions{}, err
	}
	return hbv.CalibrationOptions{
		Bounds:         b,
		Method:         c.Calibration.Method,
		Objective:      hbv.Objective(c.Calibration.Objective),
		Warmup:         c.Calibration.Warmup,
		MaxEvaluations: c.Calibration.MaxEvaluations,
		Population:     c.Calibration.Population,
		Concurrency:    c.Calibration.Concurrency,
		Seed:           c.Calibration.Seed,
		Model:          c.ModelOptions(),
	}, nil
}
