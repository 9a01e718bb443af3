package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidProfile = errors.New("config: invalid remote profile")

// Profile describes one remote: how its frames are timed and what each
// button means.
type Profile struct {
	Name        string            `toml:"name"`
	Counter     CounterConfig     `toml:"counter"`
	Capture     CaptureConfig     `toml:"capture"`
	Calibration CalibrationConfig `toml:"calibration"`
	Timing      TimingConfig      `toml:"timing"`
	Keypad      KeypadConfig      `toml:"keypad"`
	Buttons     []ButtonConfig    `toml:"buttons"`
}

type CounterConfig struct {
	Modulus       uint32 `toml:"modulus"`
	TicksPerMicro uint32 `toml:"ticks_per_micro"`
}

type CaptureConfig struct {
	Target   int `toml:"target"`
	Capacity int `toml:"capacity"`
}

type CalibrationConfig struct {
	LeaderUS  uint32 `toml:"leader_us"`
	BitOneUS  uint32 `toml:"bit_one_us"`
	Width     int    `toml:"width"`
	GroupCode uint16 `toml:"group_code"`
	BitOrder  string `toml:"bit_order"`
}

// TimingConfig is what the simulated remote transmits.
type TimingConfig struct {
	LeaderUS uint32 `toml:"leader_us"`
	ZeroUS   uint32 `toml:"zero_us"`
	OneUS    uint32 `toml:"one_us"`
}

type KeypadConfig struct {
	CycleWindow uint32 `toml:"cycle_window"`
	MaxLength   int    `toml:"max_length"`
	Trigger     string `toml:"trigger"`
	Delete      string `toml:"delete"`
	Send        string `toml:"send"`
}

type ButtonConfig struct {
	Name  string `toml:"name"`
	Code  uint16 `toml:"code"`
	Chars string `toml:"chars"`
}

// LoadProfile reads path and fills unset sections from DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	if err := loadToml(path, &p); err != nil {
		return Profile{}, err
	}
	p = withDefaults(p)
	if err := ValidateProfile(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// Marshal renders p as TOML.
func Marshal(p Profile) ([]byte, error) {
	return toml.Marshal(p)
}

func withDefaults(p Profile) Profile {
	def := DefaultProfile()
	if strings.TrimSpace(p.Name) == "" {
		p.Name = def.Name
	}
	if p.Counter == (CounterConfig{}) {
		p.Counter = def.Counter
	}
	if p.Capture == (CaptureConfig{}) {
		p.Capture = def.Capture
	}
	if p.Calibration == (CalibrationConfig{}) {
		p.Calibration = def.Calibration
	}
	if p.Calibration.BitOrder == "" {
		p.Calibration.BitOrder = def.Calibration.BitOrder
	}
	if p.Timing == (TimingConfig{}) {
		p.Timing = def.Timing
	}
	if p.Keypad.CycleWindow == 0 {
		p.Keypad.CycleWindow = def.Keypad.CycleWindow
	}
	if p.Keypad.MaxLength == 0 {
		p.Keypad.MaxLength = def.Keypad.MaxLength
	}
	if p.Keypad.Trigger == "" {
		p.Keypad.Trigger = def.Keypad.Trigger
	}
	if len(p.Buttons) == 0 {
		p.Buttons = def.Buttons
		if p.Keypad.Delete == "" {
			p.Keypad.Delete = def.Keypad.Delete
		}
		if p.Keypad.Send == "" {
			p.Keypad.Send = def.Keypad.Send
		}
	}
	return p
}

// ValidateProfile checks the profile builds into a working decoder and
// keypad.
func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProfile)
	}
	if _, err := p.BufferConfig(); err != nil {
		return fmt.Errorf("%w: capture: %v", ErrInvalidProfile, err)
	}
	cal, err := p.IRCalibration()
	if err != nil {
		return fmt.Errorf("%w: calibration: %v", ErrInvalidProfile, err)
	}
	if p.Capture.Target < cal.Width+1 {
		return fmt.Errorf("%w: capture target %d cannot hold leader plus %d bits", ErrInvalidProfile, p.Capture.Target, cal.Width)
	}
	t := p.IRTiming()
	if t.Leader <= cal.LeaderThreshold {
		return fmt.Errorf("%w: timing leader %dus not above leader threshold %dus", ErrInvalidProfile, t.Leader, cal.LeaderThreshold)
	}
	if t.One <= cal.BitOneThreshold || t.Zero > cal.BitOneThreshold {
		return fmt.Errorf("%w: timing zero/one must straddle bit-one threshold %dus", ErrInvalidProfile, cal.BitOneThreshold)
	}
	if _, err := p.KeypadConfig(); err != nil {
		return fmt.Errorf("%w: keypad: %v", ErrInvalidProfile, err)
	}
	if _, err := p.KeypadLayout(); err != nil {
		return fmt.Errorf("%w: buttons: %v", ErrInvalidProfile, err)
	}
	return nil
}
