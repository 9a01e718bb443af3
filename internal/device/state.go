package device

import "github.com/danmuck/remotext/internal/ir"

// State is a point-in-time view of the device for diagnostics.
type State struct {
	Mode             string   `json:"mode"`
	Receiving        bool     `json:"receiving"`
	Composition      string   `json:"composition"`
	Me               Identity `json:"me"`
	Peer             Identity `json:"peer"`
	Received         string   `json:"received"`
	LastFrame        string   `json:"last_frame,omitempty"`
	Tick             uint32   `json:"tick"`
	Frames           uint64   `json:"frames"`
	Sent             uint64   `json:"sent"`
	SendFailures     uint64   `json:"send_failures"`
	PeerFrames       uint64   `json:"peer_frames"`
	PeerOverflows    uint64   `json:"peer_overflows"`
	DroppedEdges     uint64   `json:"dropped_edges"`
	DroppedSnapshots uint64   `json:"dropped_snapshots"`
	DroppedBytes     uint64   `json:"dropped_bytes"`
}

func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := State{
		Mode:             d.mode.String(),
		Receiving:        d.acc.Pending(),
		Composition:      d.emu.Composition(),
		Me:               d.me,
		Peer:             d.peer,
		Received:         d.received,
		Tick:             d.tick.Load(),
		Frames:           d.frames,
		Sent:             d.sent,
		SendFailures:     d.failed,
		PeerFrames:       d.acc.Frames(),
		PeerOverflows:    d.acc.Dropped(),
		DroppedEdges:     d.buf.Dropped(),
		DroppedSnapshots: d.droppedSnapshots.Load(),
		DroppedBytes:     d.droppedBytes.Load(),
	}
	if d.lastFrame != (ir.Frame{}) {
		st.LastFrame = d.lastFrame.String()
	}
	return st
}

// Mode reports the outbound state.
func (d *Device) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Receiving reports whether a partial inbound frame is buffered.
func (d *Device) Receiving() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acc.Pending()
}

func (d *Device) Me() Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.me
}

func (d *Device) Peer() Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.peer
}

func (d *Device) Received() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.received
}

func (d *Device) Composition() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.emu.Composition()
}

// Config returns the effective configuration.
func (d *Device) Config() Config {
	return d.cfg
}
