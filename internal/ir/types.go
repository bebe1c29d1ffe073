package ir

import (
	"fmt"
	"slices"
	"strings"
)

// RotorKind names a rotor variant in catalog documents.
type RotorKind string

const (
	KindStationary RotorKind = "stationary"
	KindStepping   RotorKind = "stepping"
	KindReflector  RotorKind = "reflector"
)

// ValidRotorKinds defines allowed rotor kinds.
var ValidRotorKinds = map[RotorKind]bool{
	KindStationary: true,
	KindStepping:   true,
	KindReflector:  true,
}

// ParseRotorKind parses a kind name.
func ParseRotorKind(s string) (RotorKind, error) {
	k := RotorKind(s)
	if !ValidRotorKinds[k] {
		return "", fmt.Errorf("invalid rotor kind %q: must be stationary, stepping, or reflector", s)
	}
	return k, nil
}

// Catalog is a loaded machine description: the alphabet, the slot and
// pawl counts, and every rotor that may be inserted.
type Catalog struct {
	Alphabet string      `json:"alphabet"`
	Slots    int         `json:"slots"`
	Pawls    int         `json:"pawls"`
	Rotors   []RotorSpec `json:"rotors"`
}

// RotorSpec describes one catalog rotor.
type RotorSpec struct {
	Name    string    `json:"name"`
	Kind    RotorKind `json:"kind"`
	Notches string    `json:"notches,omitempty"` // stepping rotors only
	Cycles  string    `json:"cycles"`            // wiring in cycle notation
	Line    int       `json:"-"`                 // source line, 0 if unknown
}

// Rotor returns the rotor named name, or nil.
func (c *Catalog) Rotor(name string) *RotorSpec {
	for i := range c.Rotors {
		if c.Rotors[i].Name == name {
			return &c.Rotors[i]
		}
	}
	return nil
}

// Names returns the rotor names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Rotors))
	for i, r := range c.Rotors {
		names[i] = r.Name
	}
	return names
}

// Value converts the catalog to canonical form. Rotors are ordered by
// name so that every catalog format describing the same machine yields
// the same value.
func (c *Catalog) Value() Object {
	rotors := slices.Clone(c.Rotors)
	slices.SortFunc(rotors, func(a, b RotorSpec) int { return strings.Compare(a.Name, b.Name) })

	arr := make(Array, len(rotors))
	for i, r := range rotors {
		obj := Object{
			"name":   String(r.Name),
			"kind":   String(r.Kind),
			"cycles": String(r.Cycles),
		}
		if r.Kind == KindStepping {
			obj["notches"] = String(r.Notches)
		}
		arr[i] = obj
	}
	return Object{
		"alphabet": String(c.Alphabet),
		"slots":    Int(c.Slots),
		"pawls":    Int(c.Pawls),
		"rotors":   arr,
	}
}

// Settings is one parsed settings line: the rotors to insert, reflector
// first, their initial positions, optional ring settings, and the
// plugboard in cycle notation.
type Settings struct {
	Rotors    []string `json:"rotors"`
	Positions string   `json:"positions"`
	Rings     string   `json:"rings,omitempty"`
	Plugboard string   `json:"plugboard,omitempty"`
}

// String renders the settings line that parses back to s.
func (s *Settings) String() string {
	parts := make([]string, 0, len(s.Rotors)+4)
	parts = append(parts, "*")
	parts = append(parts, s.Rotors...)
	parts = append(parts, s.Positions)
	if s.Rings != "" {
		parts = append(parts, s.Rings)
	}
	if s.Plugboard != "" {
		parts = append(parts, s.Plugboard)
	}
	return strings.Join(parts, " ")
}

// Value converts the settings to canonical form.
func (s *Settings) Value() Object {
	return Object{
		"rotors":    Strings(s.Rotors),
		"positions": String(s.Positions),
		"rings":     String(s.Rings),
		"plugboard": String(s.Plugboard),
	}
}
