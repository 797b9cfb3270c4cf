package config

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/uyouii/bootstrap-ci/bootstrap"
	"github.com/uyouii/bootstrap-ci/common"
	"github.com/uyouii/bootstrap-ci/loader"
	"github.com/uyouii/bootstrap-ci/model"
	"github.com/uyouii/bootstrap-ci/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Quantile   float64              `json:"quantile" yaml:"quantile"`
	Confidence float64              `json:"confidence" yaml:"confidence"`
	Repeats    int                  `json:"repeats" yaml:"repeats"`
	Method     model.QuantileMethod `json:"method" yaml:"method"`
	// Seed has no default, a run without one is not reproducible
	Seed *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Input InputCfg `json:"input" yaml:"input"`
}

type InputCfg struct {
	GroupColumn    string   `json:"group_column" yaml:"group_column"`
	ValueColumn    string   `json:"value_column" yaml:"value_column"`
	TimeColumn     string   `json:"time_column" yaml:"time_column"`
	Delimiter      string   `json:"delimiter" yaml:"delimiter"`
	MissingMarkers []string `json:"missing_markers" yaml:"missing_markers"`
}

func Default() *Config {
	opts := loader.DefaultOptions()
	return &Config{
		Quantile:   bootstrap.DefaultQuantile,
		Confidence: bootstrap.DefaultConfidence,
		Repeats:    bootstrap.DefaultRepeats,
		Method:     model.InterpolatedQuantile,
		Input: InputCfg{
			GroupColumn:    opts.GroupColumn,
			ValueColumn:    opts.ValueColumn,
			TimeColumn:     opts.TimeColumn,
			Delimiter:      string(opts.Comma),
			MissingMarkers: opts.MissingMarkers,
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := utils.GetLogger(ctx)

	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	// an empty or comment-only file keeps the defaults
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "decode config %v", path)
	}

	configBytes, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("running config", zap.String("path", path), zap.ByteString("config", configBytes))
	return cfg, nil
}

func (c *Config) SetSeed(seed int64) {
	c.Seed = &seed
}

// Params returns the validated bootstrap parameters.
func (c *Config) Params() (model.Params, error) {
	if c.Seed == nil {
		return model.Params{}, errors.WithStack(common.ErrorMissingSeed)
	}
	if *c.Seed < 0 {
		return model.Params{}, errors.Wrapf(common.ErrorInvalidParameter, "seed %v must not be negative", *c.Seed)
	}
	params := model.Params{
		Quantile:   c.Quantile,
		Confidence: c.Confidence,
		Repeats:    c.Repeats,
		Seed:       uint64(*c.Seed),
		Method:     c.Method,
	}
	if err := bootstrap.ValidateParams(params); err != nil {
		return model.Params{}, err
	}
	return params, nil
}

func (c *Config) LoaderOptions() (loader.Options, error) {
	opts := loader.Options{
		GroupColumn:    c.Input.GroupColumn,
		ValueColumn:    c.Input.ValueColumn,
		TimeColumn:     c.Input.TimeColumn,
		MissingMarkers: c.Input.MissingMarkers,
	}
	delimiter := []rune(c.Input.Delimiter)
	if len(delimiter) != 1 {
		return opts, errors.Wrapf(common.ErrorInvalidParameter, "delimiter %q must be a single character", c.Input.Delimiter)
	}
	opts.Comma = delimiter[0]
	return opts, nil
}
