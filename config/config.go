// Package config loads the settings of the hbv command from a YAML file and
// HBV_ prefixed environment variables.
package config

// Config holds all application configuration.
type Config struct {
	Data        DataConfig        `mapstructure:"data" validate:"required"`
	Output      OutputConfig      `mapstructure:"output" validate:"required"`
	Model       ModelConfig       `mapstructure:"model"`
	Calibration CalibrationConfig `mapstructure:"calibration"`
	Batch       BatchConfig       `mapstructure:"batch"`
	Log         LogConfig         `mapstructure:"log"`
}

// DataConfig locates the station forcing files.
type DataConfig struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	Pattern  string `mapstructure:"pattern" validate:"required"` // regex with one capture group for the station ID
	Stations string `mapstructure:"stations"`                    // optional station list CSV (station_id column)
	Until    string `mapstructure:"until" validate:"omitempty,datetime=2006-01-02"`
}

// OutputConfig locates the results.
type OutputConfig struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	Database string `mapstructure:"database"` // sqlite file, relative to Dir unless absolute
}

// ModelConfig selects the model variant.
type ModelConfig struct {
	Routing  bool    `mapstructure:"routing"`
	Start    int     `mapstructure:"start" validate:"oneof=0 1"`
	SnowSeed float64 `mapstructure:"snow_seed" validate:"gte=0"`
}

// CalibrationConfig contains the search settings.
type CalibrationConfig struct {
	Method         string               `mapstructure:"method" validate:"oneof=genetic cmaes neldermead"`
	Objective      string               `mapstructure:"objective" validate:"oneof=nse kge rmse"`
	MaxEvaluations int                  `mapstructure:"max_evaluations" validate:"gte=0"`
	Population     int                  `mapstructure:"population" validate:"gte=0"`
	Concurrency    int                  `mapstructure:"concurrency" validate:"gte=0"`
	Seed           uint64               `mapstructure:"seed"`
	Warmup         int                  `mapstructure:"warmup" validate:"gte=0"`
	Bounds         map[string][]float64 `mapstructure:"bounds" validate:"omitempty,dive,len=2"` // overrides of the default ranges, [lo, hi]
}

// BatchConfig contains the batch dispatch settings.
type BatchConfig struct {
	Workers int `mapstructure:"workers" validate:"gte=0"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}
