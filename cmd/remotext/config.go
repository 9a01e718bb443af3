package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/remotext/internal/config"
	"github.com/danmuck/remotext/internal/device"
	"github.com/danmuck/remotext/internal/transport"
)

type fileConfig struct {
	Node         string              `toml:"node"`
	Username     string              `toml:"username"`
	Color        string              `toml:"color"`
	PeerUsername string              `toml:"peer_username"`
	PeerColor    string              `toml:"peer_color"`
	Profile      string              `toml:"profile"`
	TickInterval string              `toml:"tick_interval"`
	PollInterval string              `toml:"poll_interval"`
	Display      string              `toml:"display"`
	AdminAddr    string              `toml:"admin_addr"`
	CorsOrigins  []string            `toml:"cors_origins"`
	LogFile      string              `toml:"log_file"`
	LogLevel     string              `toml:"log_level"`
	Transport    fileTransportConfig `toml:"transport"`
}

type fileTransportConfig struct {
	Kind         string `toml:"kind"`
	Address      string `toml:"address"`
	Baud         int    `toml:"baud"`
	Publish      string `toml:"publish"`
	Subscribe    string `toml:"subscribe"`
	DialTimeout  string `toml:"dial_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	RetryInitial string `toml:"retry_initial"`
	RetryMax     string `toml:"retry_max"`
	RetryLimit   int    `toml:"retry_attempts"`
}

// runConfig is the service config plus the process-level knobs that never
// reach the device.
type runConfig struct {
	Service     device.ServiceConfig
	ProfilePath string
	LogFile     string
	LogLevel    string
}

func defaultRunConfig() runConfig {
	return runConfig{Service: device.DefaultServiceConfig()}
}

func loadRunConfig(path string) (runConfig, error) {
	rc := defaultRunConfig()
	if strings.TrimSpace(path) == "" {
		return rc, nil
	}
	cfg := &rc.Service

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load remotext config: %w", err)
	}

	if meta.IsDefined("node") {
		if v := strings.TrimSpace(raw.Node); v != "" {
			cfg.Node = v
		}
	}
	if meta.IsDefined("username") {
		cfg.Device.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("color") {
		cfg.Device.Color = strings.TrimSpace(raw.Color)
	}
	if meta.IsDefined("peer_username") {
		cfg.Device.PeerUsername = strings.TrimSpace(raw.PeerUsername)
	}
	if meta.IsDefined("peer_color") {
		cfg.Device.PeerColor = strings.TrimSpace(raw.PeerColor)
	}
	if meta.IsDefined("profile") {
		rc.ProfilePath = strings.TrimSpace(raw.Profile)
	}
	if meta.IsDefined("tick_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TickInterval))
		if err != nil {
			return runConfig{}, fmt.Errorf("parse tick_interval: %w", err)
		}
		cfg.TickInterval = d
	}
	if meta.IsDefined("poll_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PollInterval))
		if err != nil {
			return runConfig{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if meta.IsDefined("display") {
		cfg.Display = device.DisplayKind(strings.ToLower(strings.TrimSpace(raw.Display)))
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminListenAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("log_file") {
		rc.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("log_level") {
		rc.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := applyTransport(meta, raw.Transport, &cfg.Transport); err != nil {
		return runConfig{}, err
	}
	if err := applyBackoff(meta, raw.Transport, &cfg.Backoff); err != nil {
		return runConfig{}, err
	}
	return rc, nil
}

func applyTransport(meta toml.MetaData, raw fileTransportConfig, cfg *transport.Config) error {
	if meta.IsDefined("transport", "kind") {
		cfg.Kind = transport.Kind(strings.ToLower(strings.TrimSpace(raw.Kind)))
	}
	if meta.IsDefined("transport", "address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("transport", "baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("transport", "publish") {
		cfg.Publish = strings.TrimSpace(raw.Publish)
	}
	if meta.IsDefined("transport", "subscribe") {
		cfg.Subscribe = strings.TrimSpace(raw.Subscribe)
	}
	if meta.IsDefined("transport", "dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return fmt.Errorf("parse transport.dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}
	if meta.IsDefined("transport", "write_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.WriteTimeout))
		if err != nil {
			return fmt.Errorf("parse transport.write_timeout: %w", err)
		}
		cfg.WriteTimeout = d
	}
	return nil
}

func applyBackoff(meta toml.MetaData, raw fileTransportConfig, cfg *transport.BackoffConfig) error {
	if meta.IsDefined("transport", "retry_initial") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RetryInitial))
		if err != nil {
			return fmt.Errorf("parse transport.retry_initial: %w", err)
		}
		cfg.InitialDelay = d
	}
	if meta.IsDefined("transport", "retry_max") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RetryMax))
		if err != nil {
			return fmt.Errorf("parse transport.retry_max: %w", err)
		}
		cfg.MaxDelay = d
	}
	if meta.IsDefined("transport", "retry_attempts") {
		cfg.MaxAttempts = raw.RetryLimit
	}
	return nil
}

// loadProfile returns the factory profile for an empty path.
func loadProfile(path string) (config.Profile, error) {
	if strings.TrimSpace(path) == "" {
		return config.DefaultProfile(), nil
	}
	return config.LoadProfile(path)
}

// applyProfile points the decoder, keypad and simulated remote at p.
func applyProfile(cfg *device.ServiceConfig, p config.Profile) error {
	buf, err := p.BufferConfig()
	if err != nil {
		return err
	}
	cal, err := p.IRCalibration()
	if err != nil {
		return err
	}
	kp, err := p.KeypadConfig()
	if err != nil {
		return err
	}
	layout, err := p.KeypadLayout()
	if err != nil {
		return err
	}
	sim, err := p.SimConfig()
	if err != nil {
		return err
	}
	cfg.Device.Buffer = buf
	cfg.Device.Calibration = cal
	cfg.Device.Keypad = kp
	cfg.Device.Layout = layout
	cfg.Sim = sim
	return nil
}
