package session

import (
	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// Keystroke records one character passing through the machine.
type Keystroke struct {
	Seq       int    `json:"seq"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Positions string `json:"positions"` // after stepping
}

// Trace configures m from s and converts text one character at a time,
// recording the rotor positions after each keystroke.
//
// text is prepared like a message line. Every character is checked against
// the alphabet before the first keystroke, so on error m is left as s
// configured it.
func Trace(m *cipher.Machine, s *ir.Settings, text string) ([]Keystroke, error) {
	if err := catalog.Apply(m, s); err != nil {
		return nil, err
	}

	prepared := Prepare(text)
	alpha := m.Alphabet()
	for _, r := range prepared {
		if !alpha.Contains(r) {
			return nil, cipher.Errorf(cipher.ErrCodeNotInAlphabet, "character %q not in alphabet %q", r, alpha.String())
		}
	}

	keys := make([]Keystroke, 0, len(prepared))
	for _, r := range prepared {
		out, err := m.Convert(string(r))
		if err != nil {
			return keys, err
		}
		keys = append(keys, Keystroke{
			Seq:       len(keys) + 1,
			Input:     string(r),
			Output:    out,
			Positions: m.Positions(),
		})
	}
	return keys, nil
}
