package device

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/remotext/internal/capture"
	"github.com/danmuck/remotext/internal/display"
	"github.com/danmuck/remotext/internal/ir"
	"github.com/danmuck/remotext/internal/keypad"
	"github.com/danmuck/remotext/internal/observability"
	"github.com/danmuck/remotext/internal/palette"
	"github.com/danmuck/remotext/internal/peer"
	"github.com/rs/zerolog/log"
)

// Sender delivers one outbound message. Implementations block until the
// frame is written or ctx ends.
type Sender interface {
	Send(ctx context.Context, m peer.Message) error
}

// Device is the pager core. OnEdge, OnByte and OnTick may each be called from
// their own goroutine; everything else belongs to the goroutine running Poll.
type Device struct {
	cfg    Config
	buf    *capture.Buffer
	snaps  *capture.Ring[capture.Snapshot]
	inbox  *capture.Ring[byte]
	tick   atomic.Uint32
	sender Sender
	screen *display.Screen

	droppedSnapshots atomic.Uint64
	droppedBytes     atomic.Uint64

	mu        sync.Mutex
	emu       *keypad.Emulator
	acc       *peer.Accumulator
	mode      Mode
	me        Identity
	peer      Identity
	received  string
	lastFrame ir.Frame
	frames    uint64
	sent      uint64
	failed    uint64
}

// New builds a device. sender may be nil, in which case every send fails
// with ErrNoLink. d may be nil for a headless device.
func New(cfg Config, sender Sender, d display.Display) (*Device, error) {
	if cfg.Layout == nil {
		cfg.Layout = keypad.DefaultLayout()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buf, err := capture.NewBuffer(cfg.Buffer)
	if err != nil {
		return nil, err
	}
	snaps, err := capture.NewRing[capture.Snapshot](cfg.SnapshotQueue)
	if err != nil {
		return nil, err
	}
	inbox, err := capture.NewRing[byte](cfg.ByteQueue)
	if err != nil {
		return nil, err
	}
	emu, err := keypad.NewEmulator(cfg.Layout, cfg.Keypad)
	if err != nil {
		return nil, err
	}
	me, err := NewIdentity(cfg.Username, cfg.Color)
	if err != nil {
		return nil, err
	}
	other, err := NewIdentity(cfg.PeerUsername, cfg.PeerColor)
	if err != nil {
		return nil, err
	}

	dev := &Device{
		cfg:    cfg,
		buf:    buf,
		snaps:  snaps,
		inbox:  inbox,
		sender: sender,
		screen: display.NewScreen(d),
		emu:    emu,
		acc:    peer.NewAccumulator(cfg.Limits),
		me:     me,
		peer:   other,
	}
	dev.redraw()
	return dev, nil
}

// OnEdge records one falling edge at raw counter value raw. Once the capture
// window fills, the snapshot is handed to the poll loop; if that queue is
// full the window is discarded.
func (d *Device) OnEdge(raw uint32) {
	d.buf.OnEdge(raw)
	if !d.buf.Ready() {
		return
	}
	snap, ok := d.buf.Drain()
	if !ok {
		return
	}
	if !d.snaps.Push(snap) {
		d.droppedSnapshots.Add(1)
		observability.RecordDrop("snapshots")
	}
}

// OnByte queues one byte received from the peer.
func (d *Device) OnByte(b byte) {
	if !d.inbox.Push(b) {
		d.droppedBytes.Add(1)
		observability.RecordDrop("bytes")
	}
}

// OnTick advances the coarse clock used for the multi-tap window.
func (d *Device) OnTick() {
	d.tick.Add(1)
}

func (d *Device) Tick() uint32 {
	return d.tick.Load()
}

// Poll drains both queues and returns the number of items handled. It never
// blocks except while a message is being sent.
func (d *Device) Poll(ctx context.Context) int {
	n := 0
	for {
		snap, ok := d.snaps.Pop()
		if !ok {
			break
		}
		d.handleSnapshot(ctx, &snap)
		n++
	}

	var rx int
	for {
		b, ok := d.inbox.Pop()
		if !ok {
			break
		}
		d.handleByte(b)
		rx++
	}
	if rx > 0 {
		observability.RecordBytes("rx", rx)
	}
	return n + rx
}

// Run polls every interval until ctx ends.
func (d *Device) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidConfig
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Poll(ctx)
		}
	}
}

func (d *Device) handleSnapshot(ctx context.Context, snap *capture.Snapshot) {
	f, err := ir.Decode(snap.Slice(), d.cfg.Calibration)

	d.mu.Lock()
	d.frames++
	if !errors.Is(err, ir.ErrIncompleteFrame) {
		d.lastFrame = f
	}
	d.mu.Unlock()

	switch {
	case errors.Is(err, ir.ErrIncompleteFrame):
		observability.RecordFrame("incomplete")
		log.Debug().Str("component", "device").Err(err).Msg("frame dropped")
		return
	case errors.Is(err, ir.ErrForeignProtocol):
		observability.RecordFrame("foreign")
		log.Debug().Str("component", "device").Err(err).Msg("frame dropped")
		return
	case err != nil:
		observability.RecordFrame("error")
		log.Warn().Str("component", "device").Err(err).Msg("frame dropped")
		return
	}
	observability.RecordFrame("ok")
	d.HandleCode(ctx, f.Command)
}

// HandleCode applies one decoded command code.
func (d *Device) HandleCode(ctx context.Context, code uint16) {
	key := d.cfg.Layout.Classify(code)
	switch key {
	case keypad.KeyText:
		d.mu.Lock()
		res := d.emu.HandleKey(code, d.tick.Load())
		if res == keypad.KeyAppended || res == keypad.KeyCycled {
			d.mode = ModeComposing
		}
		comp := d.emu.Composition()
		d.mu.Unlock()

		observability.RecordKey(key.String(), res.String())
		log.Debug().Str("component", "device").Str("result", res.String()).Msgf("to_send=[%s]", comp)
		d.drawMessages()

	case keypad.KeyDelete:
		d.mu.Lock()
		deleted := d.emu.HandleDelete()
		if d.emu.Len() == 0 && d.mode == ModeComposing {
			d.mode = ModeIdle
		}
		comp := d.emu.Composition()
		d.mu.Unlock()

		observability.RecordKey(key.String(), boolResult(deleted, "deleted", "ignored"))
		log.Debug().Str("component", "device").Msgf("to_send=[%s]", comp)
		d.drawMessages()

	case keypad.KeySend:
		d.send(ctx)

	default:
		observability.RecordKey(key.String(), "ignored")
		log.Debug().Str("component", "device").Msgf("unmapped command code=0x%04X", code)
	}
}

func (d *Device) send(ctx context.Context) {
	d.mu.Lock()
	act := d.emu.Send()
	switch act.Kind {
	case keypad.ActionNone:
		d.mode = ModeIdle
		d.mu.Unlock()
		observability.RecordKey("send", "empty")
		log.Info().Str("component", "device").Msg("no message to send")
		return

	case keypad.ActionCommand:
		d.mode = ModeIdle
		updated := d.runCommand(act)
		d.mu.Unlock()
		if updated {
			d.updateMe()
		}
		d.drawMessages()
		return
	}

	d.mode = ModeSending
	msg := peer.Message{Username: d.me.Username, Color: d.me.ColorName, Body: act.Body}
	d.mu.Unlock()
	d.drawMessages()

	start := time.Now()
	err := ErrNoLink
	if d.sender != nil {
		err = d.sender.Send(ctx, msg)
	}
	observability.RecordSend(time.Since(start))
	observability.RecordMessage("sent", err == nil)

	d.mu.Lock()
	d.mode = ModeIdle
	if err != nil {
		d.failed++
	} else {
		d.sent++
	}
	d.mu.Unlock()

	if err != nil {
		log.Warn().Str("component", "device").Err(err).Msg("send failed")
		return
	}
	observability.RecordBytes("tx", len(peer.Encode(msg))+1)
	log.Info().Str("component", "device").Msgf("sent body=%q", msg.Body)
}

// runCommand executes a local command with d.mu held. It reports whether the
// own identity changed.
func (d *Device) runCommand(act keypad.Action) bool {
	if act.Err != nil {
		observability.RecordCommand("invalid", false)
		log.Debug().Str("component", "device").Err(act.Err).Msg("command ignored")
		return false
	}
	cmd := act.Command
	switch cmd.Kind {
	case keypad.CommandSetColor:
		c, name, ok := palette.Lookup(cmd.Param)
		observability.RecordCommand(cmd.Kind.String(), ok)
		if !ok {
			log.Debug().Str("component", "device").Strs("known", palette.Names()).Msgf("unknown color %q", cmd.Param)
			return false
		}
		d.me.Color = c
		d.me.ColorName = name
		log.Info().Str("component", "device").Msgf("color=%s", name)
		return true

	case keypad.CommandSetUsername:
		name := cmd.Param
		if len(name) > d.cfg.Limits.Username {
			name = name[:d.cfg.Limits.Username]
		}
		observability.RecordCommand(cmd.Kind.String(), true)
		d.me.Username = name
		log.Info().Str("component", "device").Msgf("username=%s", name)
		return true
	}
	observability.RecordCommand(cmd.Kind.String(), false)
	return false
}

func (d *Device) handleByte(b byte) {
	d.mu.Lock()
	msg, ok := d.acc.Feed(b)
	if !ok {
		d.mu.Unlock()
		return
	}
	d.peer.Username = msg.Username
	if c, name, found := palette.Lookup(msg.Color); found {
		d.peer.Color = c
		d.peer.ColorName = name
	}
	d.received = msg.Body
	d.mu.Unlock()

	observability.RecordMessage("received", true)
	log.Info().Str("component", "device").Msgf("Just got: %s", msg.Body)
	d.updatePeer()
	d.drawMessages()
}

func (d *Device) redraw() {
	d.mu.Lock()
	me, other, received, comp := d.me, d.peer, d.received, d.emu.Composition()
	d.mu.Unlock()
	d.screen.DrawUI(toDisplay(other), toDisplay(me), received, comp)
}

func (d *Device) drawMessages() {
	d.mu.Lock()
	received, comp := d.received, d.emu.Composition()
	d.mu.Unlock()
	d.screen.DrawMessages(received, comp)
}

func (d *Device) updateMe() {
	d.mu.Lock()
	me := d.me
	d.mu.Unlock()
	d.screen.UpdateMe(toDisplay(me))
}

func (d *Device) updatePeer() {
	d.mu.Lock()
	other := d.peer
	d.mu.Unlock()
	d.screen.UpdatePeer(toDisplay(other))
}

func toDisplay(id Identity) display.Identity {
	return display.Identity{Username: id.Username, Color: id.Color}
}

func boolResult(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
