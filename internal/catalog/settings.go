package catalog

import (
	"slices"
	"strings"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// SettingsMarker starts every settings line.
const SettingsMarker = "*"

// IsSettingsLine reports whether line is a settings line.
func IsSettingsLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), SettingsMarker)
}

// ParseSettings parses a settings line for a machine with numRotors slots:
//
//	* <rotor names...> <positions> [<rings>] [<plugboard cycles>]
//
// The first numRotors tokens after the marker are rotor names, reflector
// first. The next token gives the initial positions. A following token that
// does not start with '(' is the ring setting; everything after is the
// plugboard.
//
// Only the line's shape is checked here. Names, characters and lengths are
// checked when the settings are applied.
func ParseSettings(line string, numRotors int) (*ir.Settings, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, SettingsMarker) {
		return nil, cipher.Errorf(cipher.ErrCodeMissingMarker, "settings line must start with %q", SettingsMarker)
	}

	fields := strings.Fields(strings.TrimPrefix(trimmed, SettingsMarker))
	if len(fields) < numRotors {
		return nil, cipher.Errorf(cipher.ErrCodeSlotCount, "settings name %d rotors, machine has %d slots", len(fields), numRotors)
	}

	s := &ir.Settings{Rotors: slices.Clone(fields[:numRotors])}
	rest := fields[numRotors:]
	if len(rest) == 0 || strings.HasPrefix(rest[0], "(") {
		return nil, cipher.Errorf(cipher.ErrCodeSettingLength, "settings line has no rotor positions")
	}
	s.Positions = rest[0]
	rest = rest[1:]

	if len(rest) > 0 && !strings.HasPrefix(rest[0], "(") {
		s.Rings = rest[0]
		rest = rest[1:]
	}
	s.Plugboard = strings.Join(rest, " ")
	return s, nil
}

// Apply configures m from s. On error m keeps its previous configuration.
func Apply(m *cipher.Machine, s *ir.Settings) error {
	return m.Configure(s.Rotors, s.Positions, s.Rings, s.Plugboard)
}
