package device

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/danmuck/remotext/internal/admin"
	"github.com/danmuck/remotext/internal/display"
	"github.com/danmuck/remotext/internal/remote"
	"github.com/danmuck/remotext/internal/transport"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
)

// DisplayKind selects the screen the service draws on.
type DisplayKind string

const (
	DisplayTerminal DisplayKind = "terminal"
	DisplayNone     DisplayKind = "none"
)

const (
	// DefaultTickInterval matches the SysTick period of the reference board.
	DefaultTickInterval = 210 * time.Millisecond
	DefaultPollInterval = 5 * time.Millisecond
)

var ErrInvalidServiceConfig = errors.New("device: invalid service config")

// ServiceConfig configures a standalone pager process.
type ServiceConfig struct {
	Node            string
	Device          Config
	Sim             remote.SimConfig
	Transport       transport.Config
	Backoff         transport.BackoffConfig
	TickInterval    time.Duration
	PollInterval    time.Duration
	Display         DisplayKind
	AdminListenAddr string
	CorsOrigins     []string
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Node:         "remotext",
		Device:       DefaultConfig(),
		Sim:          remote.DefaultSimConfig(),
		Transport:    transport.DefaultConfig(),
		Backoff:      transport.DefaultBackoffConfig(),
		TickInterval: DefaultTickInterval,
		PollInterval: DefaultPollInterval,
		Display:      DisplayTerminal,
	}
}

func (c ServiceConfig) Validate() error {
	if err := c.Device.Validate(); err != nil {
		return err
	}
	if err := c.Sim.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if c.TickInterval <= 0 || c.PollInterval <= 0 {
		return fmt.Errorf("%w: tick and poll intervals must be positive", ErrInvalidServiceConfig)
	}
	switch c.Display {
	case DisplayTerminal, DisplayNone:
	default:
		return fmt.Errorf("%w: unknown display %q", ErrInvalidServiceConfig, c.Display)
	}
	return nil
}

// Service runs the pager lifecycle.
type Service struct {
	cfg   ServiceConfig
	open  transport.OpenFunc
	ready chan struct{}
	dev   *Device
	sim   *remote.Sim
}

func NewService(cfg ServiceConfig) *Service {
	if strings.TrimSpace(cfg.Node) == "" {
		cfg.Node = "remotext"
	}
	return &Service{
		cfg:   cfg,
		open:  transport.Open,
		ready: make(chan struct{}),
	}
}

// Run blocks until SIGINT/SIGTERM, the user quits, or a component fails.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Ready is closed once Device and Sim are available.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Device() *Device {
	return s.dev
}

func (s *Service) Sim() *remote.Sim {
	return s.sim
}

// Serve runs until ctx ends.
func (s *Service) Serve(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	port, err := transport.OpenRetry(ctx, s.cfg.Transport, s.cfg.Backoff, s.open)
	if err != nil {
		return fmt.Errorf("device: open %s %q: %w", s.cfg.Transport.Kind, s.cfg.Transport.Address, err)
	}
	defer port.Close()
	sender := transport.NewSender(port, s.cfg.Device.Limits, s.cfg.Transport.WriteTimeout)
	defer sender.Detach()

	var (
		disp   display.Display = display.Nop{}
		screen tcell.Screen
	)
	if s.cfg.Display == DisplayTerminal {
		term, err := display.NewTerminal()
		if err != nil {
			return err
		}
		defer term.Close()
		disp, screen = term, term.Screen()
	}

	dev, err := New(s.cfg.Device, sender, disp)
	if err != nil {
		return err
	}
	sim, err := remote.NewSim(dev, dev.Config().Layout, s.cfg.Sim)
	if err != nil {
		return err
	}
	s.dev, s.sim = dev, sim
	close(s.ready)

	var wg sync.WaitGroup
	errCh := make(chan error, 5)
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				errCh <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	start("receiver", transport.NewReceiver(port, dev.OnByte).Run)
	start("ticker", func(ctx context.Context) error { return runTicker(ctx, s.cfg.TickInterval, dev.OnTick) })
	start("poll", func(ctx context.Context) error { return dev.Run(ctx, s.cfg.PollInterval) })
	if addr := strings.TrimSpace(s.cfg.AdminListenAddr); addr != "" {
		srv := admin.New(admin.Options{
			Node:        s.cfg.Node,
			CorsOrigins: s.cfg.CorsOrigins,
			State:       func() any { return dev.State() },
			Press:       sim.PressName,
		})
		start("admin", func(ctx context.Context) error { return srv.Serve(ctx, addr) })
	}
	if screen != nil {
		kb := remote.NewKeyboard(screen, dev.Config().Layout, remote.DefaultBindings(dev.Config().Layout), sim.Press)
		start("keyboard", func(ctx context.Context) error {
			err := kb.Run(ctx)
			if errors.Is(err, remote.ErrQuit) {
				cancel()
				return nil
			}
			return err
		})
	}

	log.Info().
		Str("component", "service").
		Str("node", s.cfg.Node).
		Str("transport", string(s.cfg.Transport.Kind)).
		Str("address", s.cfg.Transport.Address).
		Str("display", string(s.cfg.Display)).
		Msg("pager ready")

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()
	wg.Wait()
	if runErr != nil {
		log.Error().Str("component", "service").Err(runErr).Msg("pager stopped")
		return runErr
	}
	log.Info().Str("component", "service").Msg("pager shutdown")
	return nil
}

func runTicker(ctx context.Context, interval time.Duration, tick func()) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			tick()
		}
	}
}
