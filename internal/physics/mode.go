package physics

import (
	"fmt"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// Mode selects which particle system drives a simulation.
type Mode int

const (
	ModeFlock Mode = iota
	ModeField
)

var modeNames = map[Mode]string{
	ModeFlock: "flock",
	ModeField: "field",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownMode, s)
}

func Modes() []Mode { return []Mode{ModeFlock, ModeField} }

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", dynamo.ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
