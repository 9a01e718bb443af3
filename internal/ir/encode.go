package ir

// Timing is the interval set a remote transmits, in microseconds.
type Timing struct {
	Leader uint32
	Zero   uint32
	One    uint32
}

// DefaultTiming sits comfortably on each side of the default thresholds.
func DefaultTiming() Timing {
	return Timing{
		Leader: 9500,
		Zero:   1125,
		One:    2250,
	}
}

// MarshalFrame produces the interval train for f: the leader, Width data
// cells and pad trailing zero cells.
func MarshalFrame(f Frame, t Timing, cal Calibration, pad int) []uint32 {
	if pad < 0 {
		pad = 0
	}
	out := make([]uint32, 0, 1+cal.Width+pad)
	out = append(out, t.Leader)
	half := cal.Width / 2
	out = appendCells(out, f.Group, half, t, cal.Order)
	out = appendCells(out, f.Command, half, t, cal.Order)
	for i := 0; i < pad; i++ {
		out = append(out, t.Zero)
	}
	return out
}

func appendCells(out []uint32, v uint16, n int, t Timing, order BitOrder) []uint32 {
	for i := 0; i < n; i++ {
		shift := n - 1 - i
		if order == LSBFirst {
			shift = i
		}
		if (v>>shift)&1 == 1 {
			out = append(out, t.One)
		} else {
			out = append(out, t.Zero)
		}
	}
	return out
}
