package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/danmuck/remotext/internal/config"
	"github.com/danmuck/remotext/internal/device"
	"github.com/danmuck/remotext/internal/ir"
	"github.com/danmuck/remotext/internal/logging"
	"github.com/danmuck/remotext/internal/transport"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "remotext: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	return buildCLI(stdout).ParseAndRun(context.Background(), args)
}

func buildCLI(stdout io.Writer) *ffcli.Command {
	// run
	runFlagSet := flag.NewFlagSet("remotext run", flag.ContinueOnError)
	runConfigPath := runFlagSet.String("config", "", "runtime config file (TOML)")
	runProfile := runFlagSet.String("profile", "", "remote profile file (TOML); factory remote when empty")
	runTransport := runFlagSet.String("transport", "", "peer transport: serial|tcp|tcp-listen|nats")
	runAddress := runFlagSet.String("address", "", "serial device, host:port or NATS URL")
	runDisplay := runFlagSet.String("display", "", "display: terminal|none")
	runAdmin := runFlagSet.String("admin", "", "admin HTTP listen address")
	runUsername := runFlagSet.String("username", "", "own username")
	runColor := runFlagSet.String("color", "", "own color name")
	runLogFile := runFlagSet.String("log-file", "", "write logs to this file")
	runLogLevel := runFlagSet.String("log-level", "", "log level: trace|debug|info|warn|error")

	runCmd := &ffcli.Command{
		Name:       "run",
		ShortUsage: "remotext run [flags]",
		ShortHelp:  "Run the pager",
		FlagSet:    runFlagSet,
		Options:    []ff.Option{ff.WithEnvVarPrefix("REMOTEXT")},
		Exec: func(_ context.Context, _ []string) error {
			rc, err := loadRunConfig(*runConfigPath)
			if err != nil {
				return err
			}
			runFlagSet.Visit(func(f *flag.Flag) {
				switch f.Name {
				case "profile":
					rc.ProfilePath = *runProfile
				case "transport":
					rc.Service.Transport.Kind = transport.Kind(*runTransport)
				case "address":
					rc.Service.Transport.Address = *runAddress
				case "display":
					rc.Service.Display = device.DisplayKind(*runDisplay)
				case "admin":
					rc.Service.AdminListenAddr = *runAdmin
				case "username":
					rc.Service.Device.Username = *runUsername
				case "color":
					rc.Service.Device.Color = *runColor
				case "log-file":
					rc.LogFile = *runLogFile
				case "log-level":
					rc.LogLevel = *runLogLevel
				}
			})
			return execRun(rc)
		},
	}

	// decode
	decodeFlagSet := flag.NewFlagSet("remotext decode", flag.ContinueOnError)
	decodeProfile := decodeFlagSet.String("profile", "", "remote profile file (TOML)")
	decodeFile := decodeFlagSet.String("file", "", "read intervals from file, '-' for stdin")

	decodeCmd := &ffcli.Command{
		Name:       "decode",
		ShortUsage: "remotext decode [flags] [interval_us ...]",
		ShortHelp:  "Decode captured edge intervals into a button",
		FlagSet:    decodeFlagSet,
		Exec: func(_ context.Context, args []string) error {
			p, err := loadProfile(*decodeProfile)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if *decodeFile != "" {
				data, err := readInput(*decodeFile)
				if err != nil {
					return err
				}
				text = string(data)
			}
			intervals, err := parseIntervals(text)
			if err != nil {
				return err
			}
			return execDecode(stdout, p, intervals)
		},
	}

	// profile
	profileFlagSet := flag.NewFlagSet("remotext profile", flag.ContinueOnError)
	profilePath := profileFlagSet.String("profile", "", "remote profile file (TOML)")

	initFlagSet := flag.NewFlagSet("remotext profile init", flag.ContinueOnError)
	initKind := initFlagSet.String("kind", "profile", "template kind: profile|runtime")
	initOutput := initFlagSet.String("output", "", "output path (stdout when empty)")
	initForce := initFlagSet.Bool("force", false, "overwrite an existing file")

	profileInitCmd := &ffcli.Command{
		Name:       "init",
		ShortUsage: "remotext profile init [flags]",
		ShortHelp:  "Write a starter profile or runtime config",
		FlagSet:    initFlagSet,
		Exec: func(_ context.Context, _ []string) error {
			if *initOutput == "" {
				tmpl, err := config.Template(*initKind)
				if err != nil {
					return err
				}
				_, err = io.WriteString(stdout, tmpl)
				return err
			}
			if err := config.WriteTemplate(*initOutput, *initKind, *initForce); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "wrote %s template to %s\n", *initKind, *initOutput)
			return nil
		},
	}

	profileValidateCmd := &ffcli.Command{
		Name:       "validate",
		ShortUsage: "remotext profile validate <path>",
		ShortHelp:  "Check a profile file",
		Exec: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("validate takes exactly one path")
			}
			p, err := config.LoadProfile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "profile %q ok: %d buttons\n", p.Name, len(p.Buttons))
			return nil
		},
	}

	profileCmd := &ffcli.Command{
		Name:        "profile",
		ShortUsage:  "remotext profile [flags] [<subcommand>]",
		ShortHelp:   "Print the effective remote profile",
		FlagSet:     profileFlagSet,
		Subcommands: []*ffcli.Command{profileInitCmd, profileValidateCmd},
		Exec: func(_ context.Context, _ []string) error {
			p, err := loadProfile(*profilePath)
			if err != nil {
				return err
			}
			data, err := config.Marshal(p)
			if err != nil {
				return err
			}
			_, err = stdout.Write(data)
			return err
		},
	}

	return &ffcli.Command{
		ShortUsage:  "remotext <subcommand> [flags]",
		ShortHelp:   "Point-to-point text pager driven by an IR remote",
		LongHelp:    "Keys (terminal display):\n  0-9        multi-tap text entry\n  Backspace  delete last character\n  Enter      send, or run /c <color> and /u <name>\n  Esc        quit",
		FlagSet:     flag.NewFlagSet("remotext", flag.ContinueOnError),
		Subcommands: []*ffcli.Command{runCmd, decodeCmd, profileCmd},
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
	}
}

func execRun(rc runConfig) error {
	p, err := loadProfile(rc.ProfilePath)
	if err != nil {
		return err
	}
	if err := applyProfile(&rc.Service, p); err != nil {
		return err
	}
	closeLog, err := setupLogging(rc)
	if err != nil {
		return err
	}
	defer closeLog()
	return device.NewService(rc.Service).Run()
}

// setupLogging keeps log output off the terminal the display is drawing on.
func setupLogging(rc runConfig) (func(), error) {
	cfg := logging.Resolve(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(rc.LogLevel); ok {
		cfg.Level = lvl
	}
	closeFn := func() {}
	switch {
	case rc.LogFile != "":
		f, err := os.OpenFile(rc.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cfg.Out = f
		cfg.NoColor = true
		closeFn = func() { _ = f.Close() }
	case rc.Service.Display == device.DisplayTerminal:
		cfg.Bypass = true
	}
	logging.Apply(cfg)
	return closeFn, nil
}

func execDecode(w io.Writer, p config.Profile, intervals []uint32) error {
	cal, err := p.IRCalibration()
	if err != nil {
		return err
	}
	layout, err := p.KeypadLayout()
	if err != nil {
		return err
	}
	f, err := ir.Decode(intervals, cal)
	if err != nil && !errors.Is(err, ir.ErrForeignProtocol) {
		return err
	}
	fmt.Fprintln(w, f.String())
	if err != nil {
		fmt.Fprintf(w, "rejected: %v\n", err)
		return nil
	}
	b, ok := layout.ByCode(f.Command)
	if !ok {
		fmt.Fprintln(w, "button: unmapped")
		return nil
	}
	fmt.Fprintf(w, "button: %s key=%s chars=%q\n", b.Name, layout.Classify(b.Code), string(b.Chars))
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// parseIntervals accepts whitespace or comma separated microsecond values.
func parseIntervals(text string) ([]uint32, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse interval %q: %w", f, err)
		}
		out = append(out, uint32(v))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no intervals given")
	}
	return out, nil
}
