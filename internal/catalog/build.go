package catalog

import (
	"fmt"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// Build creates an unconfigured machine from c. Every rotor is built
// eagerly, so a wiring error anywhere in the catalog fails the build
// even if no settings line would select that rotor.
//
// Build does not require the catalog to pass Validate; it fails only on
// what the cipher package itself rejects.
func Build(c *ir.Catalog, opts ...cipher.Option) (*cipher.Machine, error) {
	alpha, err := cipher.NewAlphabet(c.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("catalog alphabet: %w", err)
	}

	rotors := make(map[string]*cipher.Rotor, len(c.Rotors))
	for _, spec := range c.Rotors {
		if _, dup := rotors[spec.Name]; dup {
			return nil, cipher.Errorf(cipher.ErrCodeDuplicateRotor, "catalog defines rotor %q twice", spec.Name)
		}
		r, err := buildRotor(spec, alpha)
		if err != nil {
			return nil, fmt.Errorf("rotor %s: %w", spec.Name, err)
		}
		rotors[spec.Name] = r
	}

	return cipher.NewMachine(alpha, c.Slots, c.Pawls, rotors, opts...)
}

func buildRotor(spec ir.RotorSpec, alpha *cipher.Alphabet) (*cipher.Rotor, error) {
	kind, err := cipherKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	perm, err := cipher.NewPermutation(spec.Cycles, alpha)
	if err != nil {
		return nil, err
	}
	return cipher.NewRotor(spec.Name, kind, perm, spec.Notches)
}

func cipherKind(k ir.RotorKind) (cipher.Kind, error) {
	switch k {
	case ir.KindStationary:
		return cipher.KindStationary, nil
	case ir.KindStepping:
		return cipher.KindStepping, nil
	case ir.KindReflector:
		return cipher.KindReflecting, nil
	default:
		return 0, cipher.Errorf(cipher.ErrCodeRotorType, "invalid rotor kind %q", k)
	}
}

func specKind(k cipher.Kind) ir.RotorKind {
	return ir.RotorKind(k.String())
}

func cipherKindCode(k ir.RotorKind) string {
	kind, err := cipherKind(k)
	if err != nil {
		return "?"
	}
	return kind.Code()
}
