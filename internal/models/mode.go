package models

import (
	"fmt"
	"strings"
)

// Mode selects how the surface echo is located in each trace
type Mode int

const (
	// Nadir predicts the echo from spacecraft geometry and terrain models
	Nadir Mode = iota

	// Fret picks the first return from a power/derivative criterion
	Fret

	// Max is the max power return mode. It is declared but not implemented.
	Max
)

var modeNames = [...]string{"nadir", "fret", "max"}

func (m Mode) String() string {
	if int(m) >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown surface mode %q (must be nadir, fret, or max)", s)
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
