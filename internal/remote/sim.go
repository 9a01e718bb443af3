package remote

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/remotext/internal/capture"
	"github.com/danmuck/remotext/internal/ir"
	"github.com/danmuck/remotext/internal/keypad"
	"github.com/rs/zerolog/log"
)

var ErrInvalidSim = errors.New("remote: invalid sim config")

// EdgeSink receives raw counter values, one per falling edge.
type EdgeSink interface {
	OnEdge(raw uint32)
}

type SimConfig struct {
	Counter     capture.Counter
	Calibration ir.Calibration
	Timing      ir.Timing
	// Pad is the number of trailing zero cells after the data bits, so a
	// press fills the capture window exactly.
	Pad int
	// Start is the counter value before the first press.
	Start uint32
}

// DefaultSimConfig fills one default capture window per press.
func DefaultSimConfig() SimConfig {
	cal := ir.DefaultCalibration()
	return SimConfig{
		Counter:     capture.DefaultCounter(),
		Calibration: cal,
		Timing:      ir.DefaultTiming(),
		Pad:         capture.DefaultTarget - 1 - cal.Width,
	}
}

func (c SimConfig) Validate() error {
	if err := c.Counter.Validate(); err != nil {
		return err
	}
	if err := c.Calibration.Validate(); err != nil {
		return err
	}
	if c.Pad < 0 {
		return fmt.Errorf("%w: pad %d", ErrInvalidSim, c.Pad)
	}
	if c.Timing.Leader <= c.Calibration.LeaderThreshold {
		return fmt.Errorf("%w: leader %dus not above threshold %dus", ErrInvalidSim, c.Timing.Leader, c.Calibration.LeaderThreshold)
	}
	if c.Timing.One <= c.Calibration.BitOneThreshold || c.Timing.Zero > c.Calibration.BitOneThreshold {
		return fmt.Errorf("%w: cell timing does not straddle bit-one threshold", ErrInvalidSim)
	}
	return nil
}

// Sim synthesizes presses. Presses are serialized so edge trains never
// interleave.
type Sim struct {
	mu     sync.Mutex
	cfg    SimConfig
	layout *keypad.Layout
	sink   EdgeSink
	now    uint32
	sent   uint64
}

func NewSim(sink EdgeSink, layout *keypad.Layout, cfg SimConfig) (*Sim, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", ErrInvalidSim)
	}
	if layout == nil {
		return nil, fmt.Errorf("%w: nil layout", ErrInvalidSim)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sim{
		cfg:    cfg,
		layout: layout,
		sink:   sink,
		now:    cfg.Start % cfg.Counter.Modulus,
	}, nil
}

// Press emits the edge train for command code.
func (s *Sim) Press(code uint16) {
	f := ir.Frame{Group: s.cfg.Calibration.GroupCode, Command: code}
	train := ir.MarshalFrame(f, s.cfg.Timing, s.cfg.Calibration, s.cfg.Pad)

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.cfg.Counter.Modulus
	for _, us := range train {
		ticks := s.cfg.Counter.Ticks(us)
		s.now = uint32((uint64(s.now) + uint64(m) - uint64(ticks)) % uint64(m))
		s.sink.OnEdge(s.now)
	}
	s.sent++
	log.Debug().Str("component", "remote").Msgf("press code=0x%04X edges=%d", code, len(train))
}

// PressName presses the button called name in the layout.
func (s *Sim) PressName(name string) error {
	b, err := s.layout.Lookup(name)
	if err != nil {
		return err
	}
	s.Press(b.Code)
	return nil
}

// Now is the current counter value.
func (s *Sim) Now() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Sim) Presses() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func (s *Sim) Layout() *keypad.Layout {
	return s.layout
}
