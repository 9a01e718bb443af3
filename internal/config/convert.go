package config

import (
	"fmt"
	"strings"

	"github.com/danmuck/remotext/internal/capture"
	"github.com/danmuck/remotext/internal/ir"
	"github.com/danmuck/remotext/internal/keypad"
	"github.com/danmuck/remotext/internal/remote"
)

// DefaultProfile is the factory remote the pager ships calibrated for.
func DefaultProfile() Profile {
	counter := capture.DefaultCounter()
	cal := ir.DefaultCalibration()
	timing := ir.DefaultTiming()
	kp := keypad.DefaultConfig()

	buttons := keypad.DefaultButtons()
	entries := make([]ButtonConfig, 0, len(buttons))
	for _, b := range buttons {
		entries = append(entries, ButtonConfig{Name: b.Name, Code: b.Code, Chars: string(b.Chars)})
	}
	return Profile{
		Name: "factory",
		Counter: CounterConfig{
			Modulus:       counter.Modulus,
			TicksPerMicro: counter.TicksPerMicro,
		},
		Capture: CaptureConfig{
			Target:   capture.DefaultTarget,
			Capacity: capture.DefaultCapacity,
		},
		Calibration: CalibrationConfig{
			LeaderUS:  cal.LeaderThreshold,
			BitOneUS:  cal.BitOneThreshold,
			Width:     cal.Width,
			GroupCode: cal.GroupCode,
			BitOrder:  cal.Order.String(),
		},
		Timing: TimingConfig{
			LeaderUS: timing.Leader,
			ZeroUS:   timing.Zero,
			OneUS:    timing.One,
		},
		Keypad: KeypadConfig{
			CycleWindow: kp.CycleWindow,
			MaxLength:   kp.MaxLength,
			Trigger:     string(kp.Trigger),
			Delete:      "last",
			Send:        "mute",
		},
		Buttons: entries,
	}
}

func (p Profile) BufferConfig() (capture.BufferConfig, error) {
	cfg := capture.BufferConfig{
		Counter: capture.Counter{
			Modulus:       p.Counter.Modulus,
			TicksPerMicro: p.Counter.TicksPerMicro,
		},
		Capacity: p.Capture.Capacity,
		Target:   p.Capture.Target,
	}
	return cfg, cfg.Validate()
}

func (p Profile) IRCalibration() (ir.Calibration, error) {
	order, err := ir.ParseBitOrder(p.Calibration.BitOrder)
	if err != nil {
		return ir.Calibration{}, err
	}
	cal := ir.Calibration{
		LeaderThreshold: p.Calibration.LeaderUS,
		BitOneThreshold: p.Calibration.BitOneUS,
		Width:           p.Calibration.Width,
		GroupCode:       p.Calibration.GroupCode,
		Order:           order,
	}
	return cal, cal.Validate()
}

func (p Profile) IRTiming() ir.Timing {
	return ir.Timing{
		Leader: p.Timing.LeaderUS,
		Zero:   p.Timing.ZeroUS,
		One:    p.Timing.OneUS,
	}
}

func (p Profile) KeypadConfig() (keypad.Config, error) {
	if len(p.Keypad.Trigger) != 1 {
		return keypad.Config{}, fmt.Errorf("trigger must be a single byte, got %q", p.Keypad.Trigger)
	}
	cfg := keypad.Config{
		CycleWindow: p.Keypad.CycleWindow,
		MaxLength:   p.Keypad.MaxLength,
		Trigger:     p.Keypad.Trigger[0],
	}
	return cfg, cfg.Validate()
}

func (p Profile) KeypadLayout() (*keypad.Layout, error) {
	buttons := make([]keypad.Button, 0, len(p.Buttons))
	var deleteCode, sendCode uint16
	var haveDelete, haveSend bool
	for _, b := range p.Buttons {
		name := strings.ToLower(strings.TrimSpace(b.Name))
		buttons = append(buttons, keypad.Button{Name: name, Code: b.Code, Chars: keypad.Group(b.Chars)})
		if name == strings.ToLower(strings.TrimSpace(p.Keypad.Delete)) {
			deleteCode, haveDelete = b.Code, true
		}
		if name == strings.ToLower(strings.TrimSpace(p.Keypad.Send)) {
			sendCode, haveSend = b.Code, true
		}
	}
	if !haveDelete {
		return nil, fmt.Errorf("%w: delete button %q not in table", keypad.ErrInvalidLayout, p.Keypad.Delete)
	}
	if !haveSend {
		return nil, fmt.Errorf("%w: send button %q not in table", keypad.ErrInvalidLayout, p.Keypad.Send)
	}
	return keypad.NewLayout(buttons, deleteCode, sendCode)
}

// SimConfig derives the simulated remote so one press fills one capture
// window.
func (p Profile) SimConfig() (remote.SimConfig, error) {
	buf, err := p.BufferConfig()
	if err != nil {
		return remote.SimConfig{}, err
	}
	cal, err := p.IRCalibration()
	if err != nil {
		return remote.SimConfig{}, err
	}
	cfg := remote.SimConfig{
		Counter:     buf.Counter,
		Calibration: cal,
		Timing:      p.IRTiming(),
		Pad:         buf.Target - 1 - cal.Width,
	}
	return cfg, cfg.Validate()
}
