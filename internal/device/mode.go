package device

// Mode is the outbound half of the pager state machine. Receiving runs
// independently and is reported separately.
type Mode int

const (
	ModeIdle Mode = iota
	ModeComposing
	ModeSending
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeComposing:
		return "composing"
	case ModeSending:
		return "sending"
	default:
		return "unknown"
	}
}
