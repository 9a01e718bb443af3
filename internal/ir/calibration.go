package ir

import (
	"errors"
	"fmt"
	"strings"
)

// BitOrder selects how recovered bits are assembled into codes.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

func (o BitOrder) String() string {
	switch o {
	case LSBFirst:
		return "lsb"
	default:
		return "msb"
	}
}

// ParseBitOrder accepts "msb"/"lsb" (case-insensitive, "-first" suffix optional).
func ParseBitOrder(raw string) (BitOrder, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "-first") {
	case "", "msb":
		return MSBFirst, nil
	case "lsb":
		return LSBFirst, nil
	default:
		return MSBFirst, fmt.Errorf("ir: unknown bit order %q", raw)
	}
}

const (
	DefaultLeaderThreshold = 8000 // us
	DefaultBitOneThreshold = 1700 // us
	DefaultWidth           = 32
	// DefaultGroupCode identifies the calibrated TV remote family (code 1006).
	DefaultGroupCode uint16 = 0b1111000001110000
	MaxWidth                = 32
)

var ErrInvalidCalibration = errors.New("ir: invalid calibration")

// Calibration holds the device-specific decode thresholds, in microseconds.
type Calibration struct {
	LeaderThreshold uint32
	BitOneThreshold uint32
	Width           int
	GroupCode       uint16
	Order           BitOrder
}

func DefaultCalibration() Calibration {
	return Calibration{
		LeaderThreshold: DefaultLeaderThreshold,
		BitOneThreshold: DefaultBitOneThreshold,
		Width:           DefaultWidth,
		GroupCode:       DefaultGroupCode,
		Order:           MSBFirst,
	}
}

func (c Calibration) Validate() error {
	if c.Width <= 0 || c.Width > MaxWidth || c.Width%2 != 0 {
		return fmt.Errorf("%w: width %d must be even and in (0,%d]", ErrInvalidCalibration, c.Width, MaxWidth)
	}
	if c.BitOneThreshold == 0 {
		return fmt.Errorf("%w: bit_one_threshold is zero", ErrInvalidCalibration)
	}
	if c.LeaderThreshold <= c.BitOneThreshold {
		return fmt.Errorf("%w: leader_threshold %d must exceed bit_one_threshold %d",
			ErrInvalidCalibration, c.LeaderThreshold, c.BitOneThreshold)
	}
	return nil
}
