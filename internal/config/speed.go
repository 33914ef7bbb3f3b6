package config

import "strings"

// Bounds for the watch animation rate.
const (
	MinStepsPerSecond = 1
	MaxStepsPerSecond = 60
)

// SpeedPreset represents a named watch speed.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
	SpeedMax    SpeedPreset = "max"
)

// SpeedPresets lists the presets in increasing order.
var SpeedPresets = []SpeedPreset{SpeedSlow, SpeedNormal, SpeedFast, SpeedMax}

// StepsPerSecondForPreset returns the animation rate for a preset.
func StepsPerSecondForPreset(preset SpeedPreset) (int, bool) {
	switch SpeedPreset(strings.ToLower(string(preset))) {
	case SpeedSlow:
		return 2, true
	case SpeedNormal:
		return 8, true
	case SpeedFast:
		return 24, true
	case SpeedMax:
		return MaxStepsPerSecond, true
	default:
		return 0, false
	}
}

// IsSpeedPreset reports whether s names a known preset.
func IsSpeedPreset(s string) bool {
	_, ok := StepsPerSecondForPreset(SpeedPreset(s))
	return ok
}

// Pacer tracks the current animation rate of a watch session.
type Pacer struct {
	sps int
}

// NewPacer creates a pacer starting at sps, clamped to the allowed range.
func NewPacer(sps int) *Pacer {
	return &Pacer{sps: clampI(sps, MinStepsPerSecond, MaxStepsPerSecond)}
}

// StepsPerSecond returns the current rate.
func (p *Pacer) StepsPerSecond() int {
	return p.sps
}

// Faster doubles the rate up to the maximum.
func (p *Pacer) Faster() int {
	p.sps = clampI(p.sps*2, MinStepsPerSecond, MaxStepsPerSecond)
	return p.sps
}

// Slower halves the rate down to the minimum.
func (p *Pacer) Slower() int {
	p.sps = clampI(p.sps/2, MinStepsPerSecond, MaxStepsPerSecond)
	return p.sps
}

// clampI restricts an int to [min, max].
func clampI(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
