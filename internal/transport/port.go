package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// Port is a bidirectional byte stream to the peer.
type Port interface {
	io.ReadWriteCloser
}

// Open connects to the peer described by cfg. KindTCPListen blocks until one
// peer connects or ctx ends.
func Open(ctx context.Context, cfg Config) (Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindSerial:
		return openSerial(cfg)
	case KindTCP:
		d := net.Dialer{Timeout: cfg.DialTimeout}
		conn, err := d.DialContext(ctx, "tcp", cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("transport: dial %s: %w", cfg.Address, err)
		}
		return conn, nil
	case KindTCPListen:
		return acceptOne(ctx, cfg.Address)
	case KindNATS:
		return openNATS(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, cfg.Kind)
	}
}

func openSerial(cfg Config) (Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Address, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: open serial %s: %w", cfg.Address, err)
	}
	log.Info().Str("component", "transport").Str("port", cfg.Address).Int("baud", cfg.Baud).Msg("serial port open")
	return port, nil
}

func acceptOne(ctx context.Context, addr string) (Port, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
	}
	defer ln.Close()
	log.Info().Str("component", "transport").Str("addr", ln.Addr().String()).Msg("waiting for peer")

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("transport: accept %s: %w", addr, err)
	}
	log.Info().Str("component", "transport").Str("peer", conn.RemoteAddr().String()).Msg("peer connected")
	return conn, nil
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}
