package stepper

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

// Config holds the integrator-facing settings of a Stepper. Durations are
// whole milliseconds so the same file works as YAML or JSON.
type Config struct {
	Min              int    `yaml:"min" json:"min"`
	Max              int    `yaml:"max" json:"max" validate:"gtefield=Min"`
	Step             int    `yaml:"step" json:"step" validate:"min=1"`
	IntervalMS       int    `yaml:"interval" json:"interval" validate:"min=1"`
	LongPressDelayMS int    `yaml:"long_press_delay" json:"long_press_delay" validate:"min=0"`
	SaveDelayMS      int    `yaml:"save_delay" json:"save_delay" validate:"min=1"`
	Unit             string `yaml:"unit" json:"unit"`
	ShowUnit         bool   `yaml:"show_unit" json:"show_unit"`
	Disabled         bool   `yaml:"disabled" json:"disabled"`
}

// DefaultConfig returns the stock stepper settings.
func DefaultConfig() Config {
	return Config{
		Min:              1,
		Max:              100,
		Step:             1,
		IntervalMS:       int(DefaultInterval / time.Millisecond),
		LongPressDelayMS: int(DefaultLongPressDelay / time.Millisecond),
		SaveDelayMS:      int(DefaultSaveDelay / time.Millisecond),
		ShowUnit:         true,
	}
}

// Validate checks the struct tags. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Interval returns the press repeat period.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// LongPressDelay returns the hold time before a press starts repeating.
func (c Config) LongPressDelay() time.Duration {
	return time.Duration(c.LongPressDelayMS) * time.Millisecond
}

// SaveDelay returns the debounce window for saves.
func (c Config) SaveDelay() time.Duration {
	return time.Duration(c.SaveDelayMS) * time.Millisecond
}

// ParseConfig decodes data over DefaultConfig and validates the result.
// A nil codec detects the format from content.
func ParseConfig(data []byte, codec Codec) (Config, error) {
	if codec == nil {
		codec = DetectCodec(data)
	}
	cfg := DefaultConfig()
	if err := codec.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", codec.ContentType(), err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
