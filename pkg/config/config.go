// Package config loads scicv run configuration from a YAML file, an optional
// .env file and SCICV_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scicv/pkg/errors"
)

// Strategy names accepted in validation.strategy.
const (
	StrategyLeavePOut = "leavepout"
	StrategyKFold     = "kfold"
	StrategyHoldOut   = "holdout"
)

// Config is the complete configuration of a validation run.
type Config struct {
	Data       Data       `yaml:"data"`
	Validation Validation `yaml:"validation"`
	Backend    Backend    `yaml:"backend"`
	Estimator  string     `yaml:"estimator"`
	Metric     string     `yaml:"metric"`
	Log        Log        `yaml:"log"`
	Report     Report     `yaml:"report"`
	Metrics    Metrics    `yaml:"metrics"`
}

// Data describes the CSV input.
type Data struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
	Header    bool   `yaml:"header"`
	// LabelColumn is the zero based label column; -1 is the last column and
	// -2 reads the file unlabeled.
	LabelColumn int `yaml:"labelColumn"`
}

// Validation selects and parameterises the cross-validation strategy.
type Validation struct {
	Strategy string  `yaml:"strategy"`
	P        int     `yaml:"p"`
	K        int     `yaml:"k"`
	Ratio    float64 `yaml:"ratio"`
	MaxFolds int     `yaml:"maxFolds"`
	// Seed is optional; nil means a fresh random source per run.
	Seed     *uint64 `yaml:"seed"`
	Stratify bool    `yaml:"stratify"`
	Shuffle  bool    `yaml:"shuffle"`
}

// Backend selects how folds are executed.
type Backend struct {
	Kind    string `yaml:"kind"`
	Workers int    `yaml:"workers"`
}

// Log configures the process logger.
type Log struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Report configures where results are kept.
type Report struct {
	StorePath string `yaml:"storePath"`
	PlotPath  string `yaml:"plotPath"`
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	ListenAddr string `yaml:"listenAddr"`
}

// Default returns a configuration that runs Leave-One-Out on data.csv with a
// most-frequent baseline scored by accuracy.
func Default() Config {
	return Config{
		Data: Data{Path: "data.csv", Delimiter: ",", Header: true, LabelColumn: -1},
		Validation: Validation{
			Strategy: StrategyLeavePOut,
			P:        1,
			K:        5,
			Ratio:    0.2,
			MaxFolds: 1000,
		},
		Backend:   Backend{Kind: "serial"},
		Estimator: "dummy_classifier",
		Metric:    "accuracy",
		Log:       Log{Level: "info", Console: true},
	}
}

// Load builds a Config from Default, the YAML file at path (or $SCICV_CONFIG
// when path is empty), a .env file in the working directory and SCICV_*
// environment variables, then validates it.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "failed to load .env")
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("SCICV_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// applyEnv overrides cfg with SCICV_* variables that are set.
func applyEnv(cfg *Config) error {
	setString("SCICV_DATA_PATH", &cfg.Data.Path)
	setString("SCICV_STRATEGY", &cfg.Validation.Strategy)
	setString("SCICV_BACKEND", &cfg.Backend.Kind)
	setString("SCICV_ESTIMATOR", &cfg.Estimator)
	setString("SCICV_METRIC", &cfg.Metric)
	setString("SCICV_LOG_LEVEL", &cfg.Log.Level)
	setString("SCICV_REPORT_STORE", &cfg.Report.StorePath)
	setString("SCICV_REPORT_PLOT", &cfg.Report.PlotPath)
	setString("SCICV_METRICS_ADDR", &cfg.Metrics.ListenAddr)

	for key, dst := range map[string]*int{
		"SCICV_P":         &cfg.Validation.P,
		"SCICV_K":         &cfg.Validation.K,
		"SCICV_MAX_FOLDS": &cfg.Validation.MaxFolds,
		"SCICV_WORKERS":   &cfg.Backend.Workers,
		"SCICV_LABEL_COL": &cfg.Data.LabelColumn,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"SCICV_STRATIFY":    &cfg.Validation.Stratify,
		"SCICV_SHUFFLE":     &cfg.Validation.Shuffle,
		"SCICV_LOG_CONSOLE": &cfg.Log.Console,
		"SCICV_HEADER":      &cfg.Data.Header,
	} {
		if err := setBool(key, dst); err != nil {
			return err
		}
	}
	if v, ok := os.LookupEnv("SCICV_RATIO"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewInvalidArgumentError("SCICV_RATIO", "must be a number", v)
		}
		cfg.Validation.Ratio = f
	}
	if v, ok := os.LookupEnv("SCICV_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.NewInvalidArgumentError("SCICV_SEED", "must be an unsigned integer", v)
		}
		cfg.Validation.Seed = &seed
	}
	return nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return errors.NewInvalidArgumentError(key, "must be an integer", v)
	}
	*dst = i
	return nil
}

func setBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.NewInvalidArgumentError(key, "must be a boolean", v)
	}
	*dst = b
	return nil
}

// Validate checks the values that can be verified without reading data.
func (c Config) Validate() error {
	switch strings.ToLower(c.Validation.Strategy) {
	case StrategyLeavePOut:
		if c.Validation.P <= 0 {
			return errors.NewInvalidArgumentError("validation.p", "must be positive", c.Validation.P)
		}
	case StrategyKFold:
		if c.Validation.K < 2 {
			return errors.NewInvalidArgumentError("validation.k", "must be at least 2", c.Validation.K)
		}
	case StrategyHoldOut:
		if c.Validation.Ratio <= 0 || c.Validation.Ratio >= 1 {
			return errors.NewInvalidArgumentError("validation.ratio", "must be in (0, 1)", c.Validation.Ratio)
		}
	default:
		return errors.NewInvalidArgumentError("validation.strategy", "must be one of leavepout, kfold, holdout", c.Validation.Strategy)
	}
	if c.Validation.MaxFolds < 0 {
		return errors.NewInvalidArgumentError("validation.maxFolds", "must be non-negative", c.Validation.MaxFolds)
	}
	switch c.Backend.Kind {
	case "serial", "parallel":
	default:
		return errors.NewInvalidArgumentError("backend.kind", "must be serial or parallel", c.Backend.Kind)
	}
	if c.Backend.Workers < 0 {
		return errors.NewInvalidArgumentError("backend.workers", "must be non-negative", c.Backend.Workers)
	}
	if len([]rune(c.Data.Delimiter)) > 1 {
		return errors.NewInvalidArgumentError("data.delimiter", "must be a single character", c.Data.Delimiter)
	}
	if c.Data.Path == "" {
		return errors.NewInvalidArgumentError("data.path", "must not be empty", c.Data.Path)
	}
	return nil
}

// DelimiterRune returns the CSV delimiter, defaulting to a comma.
func (d Data) DelimiterRune() rune {
	for _, r := range d.Delimiter {
		return r
	}
	return ','
}
