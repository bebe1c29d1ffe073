package cipher

import (
	"strings"
	"unicode/utf8"
)

// Machine is a rotor cipher machine: an ordered stack of rotor slots and a
// plugboard. Slot 0 holds the reflector; the highest slot holds the fastest
// rotor.
//
// A Machine is a mutable value. Every conversion advances its rotors, so it
// must not be used from more than one goroutine without external locking.
type Machine struct {
	alphabet  *Alphabet
	numRotors int
	numPawls  int

	// available is the rotor catalog. Machines install clones, never the
	// catalog rotors themselves.
	available map[string]*Rotor

	strictReflectors bool

	rotors    []*Rotor // nil until InsertRotors or Configure succeeds
	plugboard *Permutation
}

// Option configures a Machine.
type Option func(*Machine)

// WithStrictReflectors rejects reflectors with fixed points at insertion.
func WithStrictReflectors() Option {
	return func(m *Machine) {
		m.strictReflectors = true
	}
}

// NewMachine creates a machine over alpha with numRotors slots and
// numPawls pawls. available maps rotor names to the rotors that may be
// inserted; it is read but never modified.
func NewMachine(alpha *Alphabet, numRotors, numPawls int, available map[string]*Rotor, opts ...Option) (*Machine, error) {
	if alpha == nil || alpha.Size() == 0 {
		return nil, Errorf(ErrCodeSlotCount, "machine alphabet must be non-empty")
	}
	if numRotors < 2 {
		return nil, Errorf(ErrCodeSlotCount, "machine needs at least 2 rotor slots, got %d", numRotors)
	}
	if numPawls < 0 || numPawls >= numRotors {
		return nil, Errorf(ErrCodeSlotCount, "pawl count %d must be in 0..%d", numPawls, numRotors-1)
	}
	for name, r := range available {
		if !r.Alphabet().Equal(alpha) {
			return nil, Errorf(ErrCodeAlphabetMismatch, "rotor %s uses alphabet %q, machine uses %q", name, r.Alphabet(), alpha)
		}
	}

	m := &Machine{
		alphabet:  alpha,
		numRotors: numRotors,
		numPawls:  numPawls,
		available: available,
		plugboard: IdentityPermutation(alpha),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Alphabet returns the machine alphabet.
func (m *Machine) Alphabet() *Alphabet { return m.alphabet }

// NumRotors returns the number of rotor slots.
func (m *Machine) NumRotors() int { return m.numRotors }

// NumPawls returns the number of pawls, and so of stepping rotors.
func (m *Machine) NumPawls() int { return m.numPawls }

// Configured returns true once a rotor stack is installed.
func (m *Machine) Configured() bool { return m.rotors != nil }

// Plugboard returns the current plugboard permutation.
func (m *Machine) Plugboard() *Permutation { return m.plugboard }

// Available returns the names of the rotors in the catalog.
func (m *Machine) Available() []string {
	names := make([]string, 0, len(m.available))
	for name := range m.available {
		names = append(names, name)
	}
	return names
}

// Rotors returns the names of the installed rotors, slot 0 first.
func (m *Machine) Rotors() []string {
	names := make([]string, len(m.rotors))
	for i, r := range m.rotors {
		names[i] = r.Name()
	}
	return names
}

// Positions returns the position characters of the non-reflecting slots,
// leftmost first, in the format accepted by SetRotorPositions.
func (m *Machine) Positions() string {
	return m.settingString(func(r *Rotor) int { return r.Position() })
}

// Rings returns the ring characters of the non-reflecting slots.
func (m *Machine) Rings() string {
	return m.settingString(func(r *Rotor) int { return r.Ring() })
}

func (m *Machine) settingString(get func(*Rotor) int) string {
	var b strings.Builder
	for _, r := range m.rotors {
		if !r.Reflects() {
			b.WriteRune(m.alphabet.ToChar(get(r)))
		}
	}
	return b.String()
}

// InsertRotors replaces the rotor stack with the rotors named by names,
// names[0] being the reflector. All rotors start at position 0, ring 0.
// On error the previous stack is kept.
func (m *Machine) InsertRotors(names []string) error {
	stack, err := m.selectRotors(names)
	if err != nil {
		return err
	}
	m.rotors = stack
	return nil
}

// SetRotorPositions sets the non-reflecting rotors from setting, one
// alphabet character per slot, leftmost first.
func (m *Machine) SetRotorPositions(setting string) error {
	if !m.Configured() {
		return Errorf(ErrCodeNotConfigured, "no rotors inserted")
	}
	vals, err := m.parseSetting("position", setting)
	if err != nil {
		return err
	}
	return applySetting(m.rotors, vals, (*Rotor).SetPosition)
}

// SetRingSettings sets the ring settings of the non-reflecting rotors.
func (m *Machine) SetRingSettings(setting string) error {
	if !m.Configured() {
		return Errorf(ErrCodeNotConfigured, "no rotors inserted")
	}
	vals, err := m.parseSetting("ring", setting)
	if err != nil {
		return err
	}
	return applySetting(m.rotors, vals, (*Rotor).SetRing)
}

// SetPlugboard installs p as the plugboard. A nil p is the identity.
func (m *Machine) SetPlugboard(p *Permutation) error {
	if p == nil {
		m.plugboard = IdentityPermutation(m.alphabet)
		return nil
	}
	if !p.Alphabet().Equal(m.alphabet) {
		return Errorf(ErrCodeAlphabetMismatch, "plugboard alphabet %q differs from machine alphabet %q", p.Alphabet(), m.alphabet)
	}
	m.plugboard = p
	return nil
}

// Configure installs a complete configuration in one step: the rotors
// named by names, their positions and ring settings, and the plugboard in
// cycle notation. An empty rings string sets every ring to the first
// alphabet character.
//
// Configure is atomic. If any part is invalid the machine keeps its
// previous configuration.
func (m *Machine) Configure(names []string, positions, rings, plugboard string) error {
	stack, err := m.selectRotors(names)
	if err != nil {
		return err
	}
	posVals, err := m.parseSetting("position", positions)
	if err != nil {
		return err
	}
	var ringVals []int
	if rings != "" {
		if ringVals, err = m.parseSetting("ring", rings); err != nil {
			return err
		}
	}
	plug, err := NewPermutation(plugboard, m.alphabet)
	if err != nil {
		return err
	}

	if err := applySetting(stack, posVals, (*Rotor).SetPosition); err != nil {
		return err
	}
	if ringVals != nil {
		if err := applySetting(stack, ringVals, (*Rotor).SetRing); err != nil {
			return err
		}
	}

	m.rotors = stack
	m.plugboard = plug
	return nil
}

// selectRotors resolves names against the catalog and checks the
// structural invariants of a rotor stack. Returns fresh clones.
func (m *Machine) selectRotors(names []string) ([]*Rotor, error) {
	if len(names) != m.numRotors {
		return nil, Errorf(ErrCodeSlotCount, "expected %d rotors, got %d", m.numRotors, len(names))
	}

	stack := make([]*Rotor, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		src, ok := m.available[name]
		if !ok {
			return nil, Errorf(ErrCodeUnknownRotor, "unknown rotor %q", name)
		}
		if used[name] {
			return nil, Errorf(ErrCodeDuplicateRotor, "rotor %q selected more than once", name)
		}
		used[name] = true
		stack[i] = src.Clone()
		stack[i].position = 0
		stack[i].ring = 0
	}

	if err := m.checkStack(stack); err != nil {
		return nil, err
	}
	return stack, nil
}

// checkStack enforces: the reflector is in slot 0 and only there;
// stationary rotors form a contiguous run right after it; the number of
// stepping rotors equals the pawl count.
func (m *Machine) checkStack(stack []*Rotor) error {
	stepping := 0
	for i, r := range stack {
		switch {
		case i == 0 && !r.Reflects():
			return Errorf(ErrCodeReflectorSlot, "first rotor must be a reflector, %s is %s", r.Name(), r.Kind())
		case i > 0 && r.Reflects():
			return Errorf(ErrCodeReflectorSlot, "reflector %s must be in slot 0, found in slot %d", r.Name(), i)
		case r.Rotates():
			stepping++
		case stepping > 0:
			return Errorf(ErrCodeRotorOrder, "%s rotor %s in slot %d is right of a stepping rotor", r.Kind(), r.Name(), i)
		}
	}
	if stepping != m.numPawls {
		return Errorf(ErrCodePawlCount, "%d stepping rotors selected, machine has %d pawls", stepping, m.numPawls)
	}
	if m.strictReflectors && !stack[0].Permutation().Derangement() {
		return Errorf(ErrCodeNotDerangement, "reflector %s maps %q to themselves", stack[0].Name(), stack[0].Permutation().FixedPoints())
	}
	return nil
}

// parseSetting converts a position or ring string to indices, one per
// non-reflecting slot.
func (m *Machine) parseSetting(what, setting string) ([]int, error) {
	want := m.numRotors - 1
	if got := utf8.RuneCountInString(setting); got != want {
		return nil, Errorf(ErrCodeSettingLength, "%s setting %q has %d characters, expected %d", what, setting, got, want)
	}
	vals := make([]int, 0, want)
	for _, c := range setting {
		i, err := m.alphabet.index(c)
		if err != nil {
			return nil, Errorf(ErrCodeNotInAlphabet, "%s setting %q: character %q not in alphabet", what, setting, c)
		}
		vals = append(vals, i)
	}
	return vals, nil
}

func applySetting(stack []*Rotor, vals []int, set func(*Rotor, int) error) error {
	k := 0
	for _, r := range stack {
		if r.Reflects() {
			continue
		}
		if err := set(r, vals[k]); err != nil {
			return err
		}
		k++
	}
	return nil
}

// ConvertIndex advances the rotors and returns the encoding of index c.
func (m *Machine) ConvertIndex(c int) (int, error) {
	if !m.Configured() {
		return 0, Errorf(ErrCodeNotConfigured, "no rotors inserted")
	}
	m.step()
	return m.signal(m.plugboard.Wrap(c)), nil
}

// Convert encodes or decodes msg one character at a time, updating rotor
// state as it goes. Every character must be in the alphabet; whitespace is
// not treated specially. The message is checked before any rotor moves, so
// a failed call leaves the machine untouched.
func (m *Machine) Convert(msg string) (string, error) {
	if !m.Configured() {
		return "", Errorf(ErrCodeNotConfigured, "no rotors inserted")
	}
	in := make([]int, 0, len(msg))
	for _, ch := range msg {
		c, err := m.alphabet.index(ch)
		if err != nil {
			return "", err
		}
		in = append(in, c)
	}

	var b strings.Builder
	b.Grow(len(msg))
	for _, c := range in {
		m.step()
		b.WriteRune(m.alphabet.ToChar(m.signal(c)))
	}
	return b.String(), nil
}

// step advances the rotors for one keystroke.
//
// Notch state is captured for every slot before any rotor moves. Then the
// rightmost rotor always advances, and any other stepping rotor advances
// if it sits at its own notch with a rotating left neighbor, or if its
// right neighbor rotates and was at a notch. Because the snapshot is taken
// first, a middle rotor at its notch moves on two consecutive keystrokes.
func (m *Machine) step() {
	n := len(m.rotors)
	wasAtNotch := make([]bool, n)
	for i, r := range m.rotors {
		wasAtNotch[i] = r.AtNotch()
	}

	advance := make([]bool, n)
	advance[n-1] = m.rotors[n-1].Rotates()
	for i := 1; i < n-1; i++ {
		r := m.rotors[i]
		if !r.Rotates() {
			continue
		}
		left, right := m.rotors[i-1], m.rotors[i+1]
		advance[i] = (wasAtNotch[i] && left.Rotates()) ||
			(right.Rotates() && wasAtNotch[i+1])
	}

	for i, ok := range advance {
		if ok {
			m.rotors[i].Advance()
		}
	}
}

// signal runs index c through plugboard, rotors, reflector and back.
func (m *Machine) signal(c int) int {
	c = m.plugboard.Permute(c)
	for i := len(m.rotors) - 1; i >= 0; i-- {
		c = m.rotors[i].ConvertForward(c)
	}
	for _, r := range m.rotors {
		if !r.Reflects() {
			c = r.ConvertBackward(c)
		}
	}
	return m.plugboard.Permute(c)
}
