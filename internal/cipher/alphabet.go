package cipher

import (
	"unicode"
	"unicode/utf8"
)

// UpperLatin is the character set of the default alphabet.
const UpperLatin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// maxDenseSpan bounds the rune range covered by the dense lookup table.
// Alphabets spanning more code points fall back to a map.
const maxDenseSpan = 4096

// Alphabet is an ordered set of unique characters. Character number k has
// index k. Alphabets are immutable and safe to share.
type Alphabet struct {
	chars []rune

	// Dense char->index table covering [base, base+len(dense)).
	// Entries hold index+1 so the zero value means "absent".
	base  rune
	dense []int32

	// sparse is used instead of dense when the rune span is too wide.
	sparse map[rune]int
}

// NewAlphabet creates an alphabet from chars.
//
// Fails if a character repeats or is reserved. Reserved characters are
// '(', ')', '*' and whitespace, which carry meaning in cycle notation and
// settings lines.
func NewAlphabet(chars string) (*Alphabet, error) {
	if !utf8.ValidString(chars) {
		return nil, Errorf(ErrCodeAlphabetReserved, "alphabet is not valid UTF-8")
	}

	runes := []rune(chars)
	lo, hi := rune(0), rune(-1)
	for i, r := range runes {
		if isReserved(r) {
			return nil, Errorf(ErrCodeAlphabetReserved, "reserved character %q in alphabet", r)
		}
		if i == 0 || r < lo {
			lo = r
		}
		if i == 0 || r > hi {
			hi = r
		}
	}

	a := &Alphabet{chars: runes}
	if span := int(hi-lo) + 1; span <= maxDenseSpan {
		a.base = lo
		a.dense = make([]int32, max(span, 0))
		for i, r := range runes {
			slot := &a.dense[r-lo]
			if *slot != 0 {
				return nil, Errorf(ErrCodeAlphabetDuplicate, "duplicate character %q in alphabet", r)
			}
			*slot = int32(i + 1)
		}
		return a, nil
	}

	a.sparse = make(map[rune]int, len(runes))
	for i, r := range runes {
		if _, dup := a.sparse[r]; dup {
			return nil, Errorf(ErrCodeAlphabetDuplicate, "duplicate character %q in alphabet", r)
		}
		a.sparse[r] = i
	}
	return a, nil
}

// DefaultAlphabet returns the alphabet of the 26 uppercase Latin letters.
func DefaultAlphabet() *Alphabet {
	a, err := NewAlphabet(UpperLatin)
	if err != nil {
		panic(err)
	}
	return a
}

func isReserved(r rune) bool {
	return r == '(' || r == ')' || r == '*' || unicode.IsSpace(r)
}

// Size returns the number of characters in the alphabet.
func (a *Alphabet) Size() int {
	return len(a.chars)
}

// Contains returns true if r is in the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.ToIndex(r)
	return ok
}

// ToChar returns character number index, where 0 <= index < Size().
// Panics if index is out of range.
func (a *Alphabet) ToChar(index int) rune {
	return a.chars[index]
}

// ToIndex returns the index of r. The second result is false if r is not
// in the alphabet. ToIndex is the inverse of ToChar.
func (a *Alphabet) ToIndex(r rune) (int, bool) {
	if a.sparse != nil {
		i, ok := a.sparse[r]
		return i, ok
	}
	off := int(r - a.base)
	if off < 0 || off >= len(a.dense) || a.dense[off] == 0 {
		return 0, false
	}
	return int(a.dense[off]) - 1, true
}

// index is ToIndex reporting absence as a ConfigurationError.
func (a *Alphabet) index(r rune) (int, error) {
	i, ok := a.ToIndex(r)
	if !ok {
		return 0, Errorf(ErrCodeNotInAlphabet, "character %q not in alphabet %q", r, a.String())
	}
	return i, nil
}

// Chars returns the alphabet characters in index order.
func (a *Alphabet) Chars() string {
	return string(a.chars)
}

// String implements fmt.Stringer.
func (a *Alphabet) String() string {
	return string(a.chars)
}

// Equal reports whether both alphabets hold the same characters in order.
func (a *Alphabet) Equal(b *Alphabet) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || len(a.chars) != len(b.chars) {
		return false
	}
	for i := range a.chars {
		if a.chars[i] != b.chars[i] {
			return false
		}
	}
	return true
}
