package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Ramsey-B/clover/pkg/matching"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	AppName    string `mapstructure:"app_name" validate:"required"`
	LogLevel   string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	PrettyLogs bool   `mapstructure:"pretty_logs"`

	// Pair evaluation weights (not renormalized when fields are missing)
	MatchWeightName       float64 `mapstructure:"match_weight_name" validate:"gte=0,lte=1"`
	MatchWeightNationalID float64 `mapstructure:"match_weight_national_id" validate:"gte=0,lte=1"`
	MatchWeightPhone      float64 `mapstructure:"match_weight_phone" validate:"gte=0,lte=1"`
	MatchWeightAddress    float64 `mapstructure:"match_weight_address" validate:"gte=0,lte=1"`

	// Confidence tiers
	ConfidenceHighThreshold   float64 `mapstructure:"confidence_high_threshold" validate:"gte=0,lte=1,gtefield=ConfidenceMediumThreshold"`
	ConfidenceMediumThreshold float64 `mapstructure:"confidence_medium_threshold" validate:"gte=0,lte=1"`

	// Candidate generation
	NamePrefilterThreshold float64 `mapstructure:"name_prefilter_threshold" validate:"gte=0,lte=1"`
	BlockingStrategy       string  `mapstructure:"blocking_strategy" validate:"oneof=none name_initial"`

	// Name+phone merge rule
	MergeNameThreshold  float64 `mapstructure:"merge_name_threshold" validate:"gte=0,lte=1"`
	MergePhoneThreshold float64 `mapstructure:"merge_phone_threshold" validate:"gte=0,lte=1"`

	// Processing
	WorkerCount      int `mapstructure:"worker_count" validate:"gte=1,lte=256"`
	BlockCount       int `mapstructure:"block_count" validate:"gte=0"`
	ProgressLogEvery int `mapstructure:"progress_log_every" validate:"gte=0"` // 0 logs stage completions only
}

var defaults = map[string]any{
	"app_name":                    "clover-resolver",
	"log_level":                   "info",
	"pretty_logs":                 false,
	"match_weight_name":           0.4,
	"match_weight_national_id":    0.3,
	"match_weight_phone":          0.2,
	"match_weight_address":        0.1,
	"confidence_high_threshold":   0.9,
	"confidence_medium_threshold": 0.75,
	"name_prefilter_threshold":    0.6,
	"blocking_strategy":           string(matching.BlockingNone),
	"merge_name_threshold":        0.9,
	"merge_phone_threshold":       0.8,
	"worker_count":                4,
	"block_count":                 0,
	"progress_log_every":          0,
}

// LoadOptions selects optional configuration sources. Environment variables
// (upper-cased keys, e.g. MATCH_WEIGHT_NAME) always override file values.
type LoadOptions struct {
	EnvFile    string // .env file, ignored when missing
	ConfigFile string // YAML/JSON/TOML file, must exist when set
}

// Load reads and validates the configuration
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Matching converts the configuration for the matching service
func (c *Config) Matching() matching.Config {
	return matching.Config{
		Weights: matching.Weights{
			Name:       c.MatchWeightName,
			NationalID: c.MatchWeightNationalID,
			Phone:      c.MatchWeightPhone,
			Address:    c.MatchWeightAddress,
		},
		Thresholds: matching.Thresholds{
			High:   c.ConfidenceHighThreshold,
			Medium: c.ConfidenceMediumThreshold,
		},
		MergePolicy: matching.MergePolicy{
			NameScore:  c.MergeNameThreshold,
			PhoneScore: c.MergePhoneThreshold,
		},
		NamePrefilterThreshold: c.NamePrefilterThreshold,
		WorkerCount:            c.WorkerCount,
		BlockCount:             c.BlockCount,
		Blocking:               matching.BlockingStrategy(c.BlockingStrategy),
	}
}
