package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns an annotated starter file: "profile" for a remote
// profile, "runtime" for the remotext run config.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "profile":
		return profileTemplate, nil
	case "runtime":
		return runtimeTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const profileTemplate = `name = "factory"

[counter]
modulus = 16777216
ticks_per_micro = 80

[capture]
target = 50
capacity = 64

[calibration]
leader_us = 8000
bit_one_us = 1700
width = 32
group_code = 0xF070
bit_order = "msb"

[timing]
leader_us = 9500
zero_us = 1125
one_us = 2250

[keypad]
cycle_window = 5
max_length = 40
trigger = "/"
delete = "last"
send = "mute"

[[buttons]]
name = "1"
code = 0x106F
chars = "/.,?!"

[[buttons]]
name = "2"
code = 0x502F
chars = "abc"

[[buttons]]
name = "3"
code = 0x304F
chars = "def"

[[buttons]]
name = "4"
code = 0x0877
chars = "ghi"

[[buttons]]
name = "5"
code = 0x4837
chars = "jkl"

[[buttons]]
name = "6"
code = 0x2857
chars = "mno"

[[buttons]]
name = "7"
code = 0x1867
chars = "pqrs"

[[buttons]]
name = "8"
code = 0x5827
chars = "tuv"

[[buttons]]
name = "9"
code = 0x3847
chars = "wxyz"

[[buttons]]
name = "0"
code = 0x443B
chars = " "

[[buttons]]
name = "last"
code = 0x641B

[[buttons]]
name = "mute"
code = 0x7807
`

const runtimeTemplate = `username = "Default"
color = "yellow"
profile = ""
tick_interval = "210ms"
poll_interval = "5ms"
display = "terminal"
admin_addr = "127.0.0.1:9300"
cors_origins = ["http://localhost:3000"]

[transport]
kind = "serial"
address = "/dev/ttyUSB0"
baud = 115200
publish = "remotext.a"
subscribe = "remotext.b"
dial_timeout = "5s"
write_timeout = "2s"
retry_initial = "250ms"
retry_max = "5s"
retry_attempts = 1
`
