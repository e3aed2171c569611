package reinforcement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults match the canonical self-play run: a million episodes reported every 50k.
const (
	DEFAULT_EPSILON         = 0.1
	DEFAULT_ALPHA           = 0.01
	DEFAULT_EPISODES        = 1000000
	DEFAULT_REPORT_INTERVAL = 50000
)

// OuterConfig is the envelope of a config file: a kind selector and its definition.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// TrainingConfig holds the learner's hyper-parameters and the run's budget.
// Keys are snake_case since viper lower-cases everything it reads.
type TrainingConfig struct {
	// HyperParams is a key-val list of param names and their value: epsilon, alpha, gamma.
	HyperParams []HyperParameter `yaml:"hyper_params"`
	// Episodes is the number of episodes each worker plays.
	Episodes int `yaml:"episodes"`
	// ReportInterval is the number of episodes per progress report and value snapshot.
	ReportInterval int `yaml:"report_interval"`
	// Seed seeds worker i's generator with Seed+i.
	Seed uint64 `yaml:"seed"`
	// TrainingDeadline is a duration after which training stops, e.g. {duration: 10m}.
	TrainingDeadline map[string]string `yaml:"training_deadline"`
}

type HyperParameter struct {
	Key string  `yaml:"key"`
	Val float64 `yaml:"val"`
}

// ErrInvalidHyperParam is returned by Validate for out-of-range parameters.
var ErrInvalidHyperParam = errors.New("invalid hyper-parameter")

// DefaultConfig returns a config for which every accessor yields its default.
func DefaultConfig() *TrainingConfig {
	return &TrainingConfig{
		Episodes:       DEFAULT_EPISODES,
		ReportInterval: DEFAULT_REPORT_INTERVAL,
	}
}

func (cfg *TrainingConfig) GetHyperParamOrDefault(param string, defaultVal float64) float64 {
	for _, kvp := range cfg.HyperParams {
		if kvp.Key == param {
			return kvp.Val
		}
	}
	return defaultVal
}

func (cfg *TrainingConfig) Epsilon() float64 {
	return cfg.GetHyperParamOrDefault("epsilon", DEFAULT_EPSILON)
}

func (cfg *TrainingConfig) Alpha() float64 {
	return cfg.GetHyperParamOrDefault("alpha", DEFAULT_ALPHA)
}

func (cfg *TrainingConfig) Gamma() float64 {
	return cfg.GetHyperParamOrDefault("gamma", DISCOUNT)
}

// Validate checks parameter ranges and fills in zero-valued counts with defaults.
func (cfg *TrainingConfig) Validate() error {
	if eps := cfg.Epsilon(); eps < 0 || eps > 1 {
		return fmt.Errorf("%w: epsilon %v not in [0,1]", ErrInvalidHyperParam, eps)
	}
	if alpha := cfg.Alpha(); alpha <= 0 || alpha > 1 {
		return fmt.Errorf("%w: alpha %v not in (0,1]", ErrInvalidHyperParam, alpha)
	}
	if gamma := cfg.Gamma(); gamma < 0 || gamma > 1 {
		return fmt.Errorf("%w: gamma %v not in [0,1]", ErrInvalidHyperParam, gamma)
	}
	if cfg.Episodes < 0 || cfg.ReportInterval < 0 {
		return fmt.Errorf("%w: negative episode counts", ErrInvalidHyperParam)
	}

	if cfg.Episodes == 0 {
		cfg.Episodes = DEFAULT_EPISODES
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = DEFAULT_REPORT_INTERVAL
	}
	return nil
}

// WithTrainingDeadline returns a context extended by the training deadline, if one is specified.
func (cfg *TrainingConfig) WithTrainingDeadline(
	ctx context.Context,
) (context.Context, context.CancelFunc, error) {
	if val, ok := cfg.TrainingDeadline["duration"]; ok {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return nil, nil, fmt.Errorf("training deadline: %w", err)
		}
		innerCtx, cancel := context.WithTimeout(ctx, duration)
		return innerCtx, cancel, nil
	}
	defaultCtx, cancel := context.WithCancel(ctx)
	return defaultCtx, cancel, nil
}

// FromYaml reads a {kind, def} envelope with viper and decodes its def into a
// TrainingConfig. The def is re-marshalled through yaml so that its nested
// structure decodes with the yaml tags above.
func FromYaml(path string) (*TrainingConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	outerConfig := &OuterConfig{}
	if err = vp.Unmarshal(outerConfig); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}

	var def []byte
	if def, err = yaml.Marshal(outerConfig.Def); err != nil {
		return nil, err
	}

	innerConfig := DefaultConfig()
	if err = yaml.Unmarshal(def, innerConfig); err != nil {
		return nil, fmt.Errorf("decode %s def: %w", outerConfig.Kind, err)
	}

	if err = innerConfig.Validate(); err != nil {
		return nil, err
	}
	return innerConfig, nil
}
