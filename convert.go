package stepper

import (
	"fmt"
	"math"
)

// ConversionConfig describes two linear scales: the range shown to the user
// and the range stored internally.
type ConversionConfig struct {
	DisplayMin  float64 `yaml:"display_min" json:"display_min"`
	DisplayMax  float64 `yaml:"display_max" json:"display_max"`
	InternalMin float64 `yaml:"internal_min" json:"internal_min"`
	InternalMax float64 `yaml:"internal_max" json:"internal_max"`
}

// Converter maps values between a display scale and an internal scale.
// It is immutable and safe for concurrent use.
//
// Round trips are exact when both scales land on integer grid points;
// otherwise rounding may drift by one.
type Converter struct {
	cfg       ConversionConfig
	slope     float64
	intercept float64
}

// TextSize maps the text size shown to users (1-100) to the stored size
// (23-1000).
var TextSize = MustConverter(ConversionConfig{
	DisplayMin:  1,
	DisplayMax:  100,
	InternalMin: 23,
	InternalMax: 1000,
})

// NewConverter builds a Converter for cfg. It returns an error wrapping
// ErrInvalidRange when either scale has zero width or a bound is not finite.
func NewConverter(cfg ConversionConfig) (*Converter, error) {
	for _, v := range []float64{cfg.DisplayMin, cfg.DisplayMax, cfg.InternalMin, cfg.InternalMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite bound %v", ErrInvalidRange, v)
		}
	}
	if cfg.DisplayMax == cfg.DisplayMin {
		return nil, fmt.Errorf("%w: display range [%v, %v] is empty", ErrInvalidRange, cfg.DisplayMin, cfg.DisplayMax)
	}
	if cfg.InternalMax == cfg.InternalMin {
		return nil, fmt.Errorf("%w: internal range [%v, %v] is empty", ErrInvalidRange, cfg.InternalMin, cfg.InternalMax)
	}

	slope := (cfg.InternalMax - cfg.InternalMin) / (cfg.DisplayMax - cfg.DisplayMin)
	return &Converter{
		cfg:       cfg,
		slope:     slope,
		intercept: cfg.InternalMin - cfg.DisplayMin*slope,
	}, nil
}

// MustConverter is like NewConverter but panics on an invalid range.
func MustConverter(cfg ConversionConfig) *Converter {
	c, err := NewConverter(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the scales the Converter was built from.
func (c *Converter) Config() ConversionConfig {
	return c.cfg
}

// ToInternal converts a display value to the internal scale.
func (c *Converter) ToInternal(display int) int {
	return roundHalfUp(float64(display)*c.slope + c.intercept)
}

// ToDisplay converts an internal value to the display scale.
func (c *Converter) ToDisplay(internal int) int {
	return roundHalfUp((float64(internal) - c.intercept) / c.slope)
}

// roundHalfUp rounds to the nearest integer, with halves toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
