package ir

import (
	"errors"
	"fmt"
)

var (
	ErrIncompleteFrame = errors.New("ir: incomplete frame")
	ErrForeignProtocol = errors.New("ir: foreign protocol")
)

// Frame is one decoded remote press.
type Frame struct {
	Group   uint16
	Command uint16
	Valid   bool
}

func (f Frame) String() string {
	return fmt.Sprintf("group=0x%04X command=0x%04X valid=%t", f.Group, f.Command, f.Valid)
}

// Decode recovers a frame from intervals. It never mutates intervals, so
// repeated calls on the same snapshot return the same result.
func Decode(intervals []uint32, cal Calibration) (Frame, error) {
	start := -1
	for i, us := range intervals {
		if us > cal.LeaderThreshold {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return Frame{}, fmt.Errorf("%w: no leader burst in %d intervals", ErrIncompleteFrame, len(intervals))
	}
	if len(intervals)-start < cal.Width {
		return Frame{}, fmt.Errorf("%w: %d of %d bits after leader", ErrIncompleteFrame, len(intervals)-start, cal.Width)
	}

	half := cal.Width / 2
	data := intervals[start : start+cal.Width]
	group := assemble(data[:half], cal)
	command := assemble(data[half:], cal)

	f := Frame{Group: group, Command: command}
	if group != cal.GroupCode {
		return f, fmt.Errorf("%w: group 0x%04X want 0x%04X", ErrForeignProtocol, group, cal.GroupCode)
	}
	f.Valid = true
	return f, nil
}

func assemble(cells []uint32, cal Calibration) uint16 {
	var v uint16
	for i, us := range cells {
		if us <= cal.BitOneThreshold {
			continue
		}
		if cal.Order == LSBFirst {
			v |= 1 << i
		} else {
			v |= 1 << (len(cells) - 1 - i)
		}
	}
	return v
}
