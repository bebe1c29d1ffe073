package cipher

import "strings"

// Kind identifies the rotor variant.
type Kind int

const (
	// KindStationary is a non-moving, non-reflecting rotor.
	KindStationary Kind = iota
	// KindStepping is a rotor with a ratchet and notches.
	KindStepping
	// KindReflecting is a fixed rotor that folds the signal back.
	KindReflecting
)

// String returns the kind name used in catalogs and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindStationary:
		return "stationary"
	case KindStepping:
		return "stepping"
	case KindReflecting:
		return "reflector"
	default:
		return "unknown"
	}
}

// Code returns the single-letter type code of the text catalog format.
func (k Kind) Code() string {
	switch k {
	case KindStationary:
		return "N"
	case KindStepping:
		return "M"
	case KindReflecting:
		return "R"
	default:
		return "?"
	}
}

// ParseKind parses a rotor type code of the text catalog format.
//
// The code is "M" followed by the notch characters for a stepping rotor,
// "N" for a stationary rotor, and "R" for a reflector. Returns the kind and
// the notch characters.
func ParseKind(code string) (Kind, string, error) {
	if code == "" {
		return 0, "", Errorf(ErrCodeRotorType, "empty rotor type")
	}
	rest := code[1:]
	switch code[0] {
	case 'M':
		return KindStepping, rest, nil
	case 'N':
		if rest != "" {
			return 0, "", Errorf(ErrCodeRotorType, "stationary rotor type %q cannot carry notches", code)
		}
		return KindStationary, "", nil
	case 'R':
		if rest != "" {
			return 0, "", Errorf(ErrCodeRotorType, "reflector type %q cannot carry notches", code)
		}
		return KindReflecting, "", nil
	default:
		return 0, "", Errorf(ErrCodeRotorType, "unknown rotor type %q, must start with M, N or R", code)
	}
}

// Rotor is a wired substitution disk. A single type carries every variant;
// behavior is selected by Kind.
//
// Position is the rotational offset and ring is the wiring offset, both in
// 0..Size()-1. Only stepping rotors advance; a reflector's position is
// always 0.
type Rotor struct {
	name        string
	kind        Kind
	permutation *Permutation
	position    int
	ring        int

	// notches[i] is true when position i is a notch. Stepping rotors only.
	notches []bool
}

// NewStationaryRotor creates a non-moving, non-reflecting rotor.
func NewStationaryRotor(name string, perm *Permutation) *Rotor {
	return &Rotor{name: name, kind: KindStationary, permutation: perm}
}

// NewReflector creates a reflecting rotor.
func NewReflector(name string, perm *Permutation) *Rotor {
	return &Rotor{name: name, kind: KindReflecting, permutation: perm}
}

// NewSteppingRotor creates a rotor that advances and whose notches are at
// the positions named by the characters of notches.
func NewSteppingRotor(name string, perm *Permutation, notches string) (*Rotor, error) {
	alpha := perm.Alphabet()
	set := make([]bool, perm.Size())
	for _, r := range notches {
		i, ok := alpha.ToIndex(r)
		if !ok {
			return nil, Errorf(ErrCodeNotInAlphabet, "rotor %s: notch %q not in alphabet", name, r)
		}
		set[i] = true
	}
	return &Rotor{name: name, kind: KindStepping, permutation: perm, notches: set}, nil
}

// NewRotor creates a rotor of the given kind. Notches are ignored unless
// kind is KindStepping.
func NewRotor(name string, kind Kind, perm *Permutation, notches string) (*Rotor, error) {
	switch kind {
	case KindStationary:
		return NewStationaryRotor(name, perm), nil
	case KindStepping:
		return NewSteppingRotor(name, perm, notches)
	case KindReflecting:
		return NewReflector(name, perm), nil
	default:
		return nil, Errorf(ErrCodeRotorType, "rotor %s: unknown kind %d", name, kind)
	}
}

// Clone returns a copy with independent position and ring state. The
// permutation and notch set are shared since neither is mutated.
func (r *Rotor) Clone() *Rotor {
	c := *r
	return &c
}

// Name returns the rotor name.
func (r *Rotor) Name() string { return r.name }

// Kind returns the rotor variant.
func (r *Rotor) Kind() Kind { return r.kind }

// Permutation returns the wiring at position 0, ring 0.
func (r *Rotor) Permutation() *Permutation { return r.permutation }

// Alphabet returns the rotor's alphabet.
func (r *Rotor) Alphabet() *Alphabet { return r.permutation.Alphabet() }

// Size returns the size of the rotor's alphabet.
func (r *Rotor) Size() int { return r.permutation.Size() }

// Rotates returns true iff the rotor has a ratchet and can move.
func (r *Rotor) Rotates() bool { return r.kind == KindStepping }

// Reflects returns true iff the rotor is a reflector.
func (r *Rotor) Reflects() bool { return r.kind == KindReflecting }

// Position returns the current rotational offset.
func (r *Rotor) Position() int { return r.position }

// Ring returns the ring setting.
func (r *Rotor) Ring() int { return r.ring }

// SetPosition sets the rotational offset. A reflector accepts only 0.
func (r *Rotor) SetPosition(posn int) error {
	if posn < 0 || posn >= r.Size() {
		return Errorf(ErrCodeSettingLength, "rotor %s: position %d out of range 0..%d", r.name, posn, r.Size()-1)
	}
	if r.kind == KindReflecting && posn != 0 {
		return Errorf(ErrCodeReflectorPosition, "reflector %s has only one position", r.name)
	}
	r.position = posn
	return nil
}

// SetPositionChar sets the position to the index of c.
func (r *Rotor) SetPositionChar(c rune) error {
	i, err := r.Alphabet().index(c)
	if err != nil {
		return err
	}
	return r.SetPosition(i)
}

// SetRing sets the ring setting.
func (r *Rotor) SetRing(ring int) error {
	if ring < 0 || ring >= r.Size() {
		return Errorf(ErrCodeSettingLength, "rotor %s: ring setting %d out of range 0..%d", r.name, ring, r.Size()-1)
	}
	r.ring = ring
	return nil
}

// SetRingChar sets the ring setting to the index of c.
func (r *Rotor) SetRingChar(c rune) error {
	i, err := r.Alphabet().index(c)
	if err != nil {
		return err
	}
	return r.SetRing(i)
}

// AtNotch returns true iff the rotor is a stepping rotor positioned at one
// of its notches, allowing the rotor to its left to advance.
func (r *Rotor) AtNotch() bool {
	return r.kind == KindStepping && r.notches[r.position]
}

// Advance moves a stepping rotor one position. Other kinds do nothing.
func (r *Rotor) Advance() {
	if r.kind == KindStepping {
		r.position = r.permutation.Wrap(r.position + 1)
	}
}

// Notches returns the notch characters in alphabet order.
func (r *Rotor) Notches() string {
	var b strings.Builder
	for i, ok := range r.notches {
		if ok {
			b.WriteRune(r.Alphabet().ToChar(i))
		}
	}
	return b.String()
}

// ConvertForward converts p (in 0..Size()-1) through the wiring, entering
// at the rotor's current offset.
func (r *Rotor) ConvertForward(p int) int {
	shift := r.position - r.ring
	entry := r.permutation.Wrap(p + shift)
	return r.permutation.Wrap(r.permutation.Permute(entry) - shift)
}

// ConvertBackward converts e through the inverse wiring.
// ConvertBackward(ConvertForward(p)) == p at any fixed position and ring.
func (r *Rotor) ConvertBackward(e int) int {
	shift := r.position - r.ring
	entry := r.permutation.Wrap(e + shift)
	return r.permutation.Wrap(r.permutation.Invert(entry) - shift)
}

// String implements fmt.Stringer.
func (r *Rotor) String() string {
	return "Rotor " + r.name
}
