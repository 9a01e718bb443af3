package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/remotext/internal/capture"
	"github.com/danmuck/remotext/internal/ir"
	"github.com/danmuck/remotext/internal/keypad"
	"github.com/danmuck/remotext/internal/palette"
	"github.com/danmuck/remotext/internal/peer"
)

var (
	ErrInvalidConfig = errors.New("device: invalid config")
	ErrUnknownColor  = errors.New("device: unknown color")
	ErrNoLink        = errors.New("device: no peer link")
)

const (
	DefaultUsername     = "Default"
	DefaultColor        = "yellow"
	DefaultPeerUsername = "Waiting..."
	DefaultPeerColor    = "cyan"

	DefaultSnapshotQueue = 4
	DefaultByteQueue     = 256
)

// Identity is a username and the color it is drawn in.
type Identity struct {
	Username  string        `json:"username"`
	ColorName string        `json:"color"`
	Color     palette.Color `json:"-"`
}

// NewIdentity resolves colorName through the palette.
func NewIdentity(username, colorName string) (Identity, error) {
	c, name, ok := palette.Lookup(colorName)
	if !ok {
		return Identity{}, fmt.Errorf("%w: %q", ErrUnknownColor, colorName)
	}
	return Identity{Username: username, ColorName: name, Color: c}, nil
}

// Config holds everything the core needs. Layout nil means the factory
// layout.
type Config struct {
	Buffer      capture.BufferConfig
	Calibration ir.Calibration
	Layout      *keypad.Layout
	Keypad      keypad.Config
	Limits      peer.Limits

	Username     string
	Color        string
	PeerUsername string
	PeerColor    string

	SnapshotQueue int
	ByteQueue     int
}

func DefaultConfig() Config {
	return Config{
		Buffer:        capture.DefaultBufferConfig(),
		Calibration:   ir.DefaultCalibration(),
		Layout:        keypad.DefaultLayout(),
		Keypad:        keypad.DefaultConfig(),
		Limits:        peer.DefaultLimits(),
		Username:      DefaultUsername,
		Color:         DefaultColor,
		PeerUsername:  DefaultPeerUsername,
		PeerColor:     DefaultPeerColor,
		SnapshotQueue: DefaultSnapshotQueue,
		ByteQueue:     DefaultByteQueue,
	}
}

func (c Config) Validate() error {
	if err := c.Buffer.Validate(); err != nil {
		return err
	}
	if err := c.Calibration.Validate(); err != nil {
		return err
	}
	if c.Buffer.Target < c.Calibration.Width+1 {
		return fmt.Errorf("%w: capture target %d cannot hold leader plus %d bits", ErrInvalidConfig, c.Buffer.Target, c.Calibration.Width)
	}
	if err := c.Keypad.Validate(); err != nil {
		return err
	}
	if c.Limits.Username <= 0 || c.Limits.ColorName <= 0 || c.Limits.Body <= 0 {
		return fmt.Errorf("%w: peer limits must be positive", ErrInvalidConfig)
	}
	if c.Limits.Body < c.Keypad.MaxLength {
		return fmt.Errorf("%w: peer body limit %d below composition max %d", ErrInvalidConfig, c.Limits.Body, c.Keypad.MaxLength)
	}
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidConfig)
	}
	if len(c.Username) > c.Limits.Username {
		return fmt.Errorf("%w: username longer than %d", ErrInvalidConfig, c.Limits.Username)
	}
	for _, name := range []string{c.Color, c.PeerColor} {
		if _, _, ok := palette.Lookup(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColor, name)
		}
	}
	if !powerOfTwo(c.SnapshotQueue) || !powerOfTwo(c.ByteQueue) {
		return fmt.Errorf("%w: queue sizes must be powers of two (snapshots=%d bytes=%d)", ErrInvalidConfig, c.SnapshotQueue, c.ByteQueue)
	}
	return nil
}

func powerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
