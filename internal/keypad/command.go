package keypad

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTrigger marks a composition as a local command.
const DefaultTrigger = '/'

// MaxToken bounds the command and parameter tokens.
const MaxToken = 16

var (
	ErrMalformedCommand = errors.New("keypad: malformed command")
	ErrUnknownCommand   = errors.New("keypad: unknown command")
)

type CommandKind int

const (
	CommandSetColor CommandKind = iota + 1
	CommandSetUsername
)

func (k CommandKind) String() string {
	switch k {
	case CommandSetColor:
		return "set-color"
	case CommandSetUsername:
		return "set-username"
	default:
		return "unknown"
	}
}

// Command is one parsed local command.
type Command struct {
	Kind  CommandKind
	Token string
	Param string
}

// ParseCommand splits "<trigger><token> <param>[ ...]". Scans stop at the end
// of s or at a null byte, whichever comes first. The parameter is truncated
// to MaxToken bytes.
func ParseCommand(s string, trigger byte) (Command, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if len(s) == 0 || s[0] != trigger {
		return Command{}, fmt.Errorf("%w: missing trigger %q", ErrMalformedCommand, trigger)
	}
	rest := s[1:]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return Command{}, fmt.Errorf("%w: no parameter separator in %q", ErrMalformedCommand, s)
	}
	token := rest[:sp]
	param := rest[sp+1:]
	if end := strings.IndexByte(param, ' '); end >= 0 {
		param = param[:end]
	}
	// An empty parameter would blank the username or color.
	if token == "" || param == "" {
		return Command{}, fmt.Errorf("%w: empty token or parameter in %q", ErrMalformedCommand, s)
	}
	if len(param) > MaxToken {
		param = param[:MaxToken]
	}

	cmd := Command{Token: token, Param: param}
	switch token {
	case "c", "color":
		cmd.Kind = CommandSetColor
	case "u", "user":
		cmd.Kind = CommandSetUsername
	default:
		return cmd, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
	}
	return cmd, nil
}
