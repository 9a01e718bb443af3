package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/remotext/internal/config"
	"github.com/danmuck/remotext/internal/device"
	"github.com/danmuck/remotext/internal/ir"
	"github.com/danmuck/remotext/internal/keypad"
	"github.com/danmuck/remotext/internal/testutil/testlog"
	"github.com/danmuck/remotext/internal/transport"
)

func TestLoadRunConfigDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)

	rc, err := loadRunConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg := rc.Service
	if cfg.Node != "remotext.desk" {
		t.Fatalf("unexpected node: %q", cfg.Node)
	}
	if cfg.Device.Username != "Default" || cfg.Device.Color != "yellow" {
		t.Fatalf("unexpected identity: %q/%q", cfg.Device.Username, cfg.Device.Color)
	}
	if cfg.Device.PeerUsername != device.DefaultPeerUsername {
		t.Fatalf("peer username should keep default, got %q", cfg.Device.PeerUsername)
	}
	if cfg.TickInterval != 210*time.Millisecond || cfg.PollInterval != 5*time.Millisecond {
		t.Fatalf("unexpected intervals: tick=%v poll=%v", cfg.TickInterval, cfg.PollInterval)
	}
	if cfg.AdminListenAddr != "127.0.0.1:9300" {
		t.Fatalf("unexpected admin addr: %q", cfg.AdminListenAddr)
	}
	if cfg.Transport.Kind != transport.KindTCP || cfg.Transport.Address != "127.0.0.1:9400" {
		t.Fatalf("unexpected transport: %+v", cfg.Transport)
	}
	if cfg.Transport.Baud != 115200 {
		t.Fatalf("baud should keep default, got %d", cfg.Transport.Baud)
	}
	if cfg.Transport.WriteTimeout != time.Second {
		t.Fatalf("unexpected write timeout: %v", cfg.Transport.WriteTimeout)
	}
	if cfg.Backoff.InitialDelay != 500*time.Millisecond || cfg.Backoff.MaxDelay != 10*time.Second || cfg.Backoff.MaxAttempts != 0 {
		t.Fatalf("unexpected backoff: %+v", cfg.Backoff)
	}
	if rc.LogFile != "remotext.log" {
		t.Fatalf("unexpected log file: %q", rc.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("example config invalid: %v", err)
	}
}

func TestLoadRunConfigRejectsBadDuration(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("tick_interval = \"soon\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadRunConfig(path); err == nil || !strings.Contains(err.Error(), "tick_interval") {
		t.Fatalf("expected tick_interval error, got %v", err)
	}
}

func TestApplyProfileUsesProfileTable(t *testing.T) {
	testlog.Start(t)

	p := config.DefaultProfile()
	p.Calibration.BitOrder = "lsb"
	p.Keypad.Send = "last"
	p.Keypad.Delete = "mute"

	cfg := device.DefaultServiceConfig()
	if err := applyProfile(&cfg, p); err != nil {
		t.Fatalf("apply profile: %v", err)
	}
	if cfg.Device.Calibration.Order != ir.LSBFirst || cfg.Sim.Calibration.Order != ir.LSBFirst {
		t.Fatalf("bit order not applied: %+v", cfg.Device.Calibration)
	}
	if cfg.Device.Layout.SendCode() != keypad.ButtonLast {
		t.Fatalf("send code got=0x%04X want=0x%04X", cfg.Device.Layout.SendCode(), keypad.ButtonLast)
	}
}

func TestDecodeCommand(t *testing.T) {
	testlog.Start(t)

	cal := ir.DefaultCalibration()
	train := ir.MarshalFrame(ir.Frame{Group: cal.GroupCode, Command: keypad.Button7}, ir.DefaultTiming(), cal, 17)
	parts := make([]string, 0, len(train))
	for _, us := range train {
		parts = append(parts, strconv.FormatUint(uint64(us), 10))
	}

	var out bytes.Buffer
	if err := run(append([]string{"decode"}, parts...), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out.String(), "button: 7") || !strings.Contains(out.String(), `chars="pqrs"`) {
		t.Fatalf("unexpected decode output: %q", out.String())
	}

	out.Reset()
	if err := run([]string{"decode", "300", "300"}, &out); err == nil {
		t.Fatalf("expected incomplete frame error")
	}
}

func TestProfileCommandPrintsDefaults(t *testing.T) {
	testlog.Start(t)

	var out bytes.Buffer
	if err := run([]string{"profile"}, &out); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.Contains(out.String(), "factory") {
		t.Fatalf("profile output missing name: %q", out.String())
	}

	path := filepath.Join(t.TempDir(), "remote.toml")
	out.Reset()
	if err := run([]string{"profile", "init", "-output", path}, &out); err != nil {
		t.Fatalf("profile init: %v", err)
	}
	out.Reset()
	if err := run([]string{"profile", "validate", path}, &out); err != nil {
		t.Fatalf("profile validate: %v", err)
	}
	if !strings.Contains(out.String(), "12 buttons") {
		t.Fatalf("unexpected validate output: %q", out.String())
	}
}
