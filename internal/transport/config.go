package transport

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind selects the port implementation.
type Kind string

const (
	KindSerial    Kind = "serial"
	KindTCP       Kind = "tcp"
	KindTCPListen Kind = "tcp-listen"
	KindNATS      Kind = "nats"
)

var (
	ErrInvalidConfig   = errors.New("transport: invalid config")
	ErrUnsupportedKind = errors.New("transport: unsupported kind")
)

// Config describes how to reach the peer.
type Config struct {
	Kind    Kind
	Address string
	// Baud applies to serial ports.
	Baud int
	// Publish and Subscribe are the NATS subjects for outbound and inbound
	// frames; the peer uses the same pair swapped.
	Publish      string
	Subscribe    string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Kind:         KindSerial,
		Address:      "/dev/ttyUSB0",
		Baud:         115200,
		Publish:      "remotext.a",
		Subscribe:    "remotext.b",
		DialTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidConfig)
	}
	switch c.Kind {
	case KindSerial:
		if c.Baud <= 0 {
			return fmt.Errorf("%w: baud must be positive", ErrInvalidConfig)
		}
	case KindTCP, KindTCPListen:
	case KindNATS:
		if strings.TrimSpace(c.Publish) == "" || strings.TrimSpace(c.Subscribe) == "" {
			return fmt.Errorf("%w: nats publish and subscribe subjects are required", ErrInvalidConfig)
		}
		if c.Publish == c.Subscribe {
			return fmt.Errorf("%w: nats publish and subscribe subjects must differ", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, c.Kind)
	}
	return nil
}
