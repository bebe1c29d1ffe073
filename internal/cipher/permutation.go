package cipher

import (
	"strings"
	"unicode"
)

// Permutation is a bijection over the index range of an Alphabet, built
// from cycle notation. Permutations are immutable and safe to share.
type Permutation struct {
	alphabet *Alphabet
	forward  []int
	backward []int
}

// NewPermutation builds the permutation described by cycles, a string of
// the form "(c0c1...cm) (c0...) ..." over alpha. Whitespace is ignored
// everywhere; the empty string is the identity. Characters named in no
// cycle map to themselves.
func NewPermutation(cycles string, alpha *Alphabet) (*Permutation, error) {
	groups, err := parseCycles(cycles)
	if err != nil {
		return nil, err
	}

	n := alpha.Size()
	p := &Permutation{
		alphabet: alpha,
		forward:  make([]int, n),
		backward: make([]int, n),
	}
	for i := 0; i < n; i++ {
		p.forward[i] = i
		p.backward[i] = i
	}

	seen := make([]bool, n)
	for _, group := range groups {
		idx := make([]int, len(group))
		for k, r := range group {
			i, err := alpha.index(r)
			if err != nil {
				return nil, Errorf(ErrCodeNotInAlphabet, "cycle character %q not in alphabet %q", r, alpha.String())
			}
			if seen[i] {
				return nil, Errorf(ErrCodeDuplicateCycleChar, "character %q appears more than once in cycles %q", r, cycles)
			}
			seen[i] = true
			idx[k] = i
		}
		for k, cur := range idx {
			next := idx[(k+1)%len(idx)]
			p.forward[cur] = next
			p.backward[next] = cur
		}
	}
	return p, nil
}

// IdentityPermutation returns the permutation mapping every index to itself.
func IdentityPermutation(alpha *Alphabet) *Permutation {
	p, _ := NewPermutation("", alpha)
	return p
}

// parseCycles splits cycle notation into groups of characters.
func parseCycles(cycles string) ([][]rune, error) {
	var (
		groups [][]rune
		cur    []rune
		open   bool
	)
	for _, r := range cycles {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '(':
			if open {
				return nil, Errorf(ErrCodeMalformedCycle, "nested '(' in cycles %q", cycles)
			}
			open = true
			cur = nil
		case r == ')':
			if !open {
				return nil, Errorf(ErrCodeMalformedCycle, "unbalanced ')' in cycles %q", cycles)
			}
			if len(cur) == 0 {
				return nil, Errorf(ErrCodeMalformedCycle, "empty cycle in %q", cycles)
			}
			groups = append(groups, cur)
			open = false
		default:
			if !open {
				return nil, Errorf(ErrCodeMalformedCycle, "character %q outside of a cycle in %q", r, cycles)
			}
			cur = append(cur, r)
		}
	}
	if open {
		return nil, Errorf(ErrCodeMalformedCycle, "unterminated cycle in %q", cycles)
	}
	return groups, nil
}

// Size returns the size of the alphabet being permuted.
func (p *Permutation) Size() int {
	return len(p.forward)
}

// Alphabet returns the alphabet used to build the permutation.
func (p *Permutation) Alphabet() *Alphabet {
	return p.alphabet
}

// Wrap returns i modulo Size(), always in 0..Size()-1.
func (p *Permutation) Wrap(i int) int {
	n := p.Size()
	if n == 0 {
		return 0
	}
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}

// Permute applies the permutation to index i (reduced modulo Size()).
func (p *Permutation) Permute(i int) int {
	return p.forward[p.Wrap(i)]
}

// Invert applies the inverse permutation to index i (reduced modulo Size()).
func (p *Permutation) Invert(i int) int {
	return p.backward[p.Wrap(i)]
}

// PermuteChar applies the permutation to a character of the alphabet.
func (p *Permutation) PermuteChar(r rune) (rune, error) {
	i, err := p.alphabet.index(r)
	if err != nil {
		return 0, err
	}
	return p.alphabet.ToChar(p.forward[i]), nil
}

// InvertChar applies the inverse permutation to a character of the alphabet.
func (p *Permutation) InvertChar(r rune) (rune, error) {
	i, err := p.alphabet.index(r)
	if err != nil {
		return 0, err
	}
	return p.alphabet.ToChar(p.backward[i]), nil
}

// Derangement returns true iff no index maps to itself.
func (p *Permutation) Derangement() bool {
	for i, j := range p.forward {
		if i == j {
			return false
		}
	}
	return true
}

// FixedPoints returns the characters that map to themselves.
func (p *Permutation) FixedPoints() string {
	var b strings.Builder
	for i, j := range p.forward {
		if i == j {
			b.WriteRune(p.alphabet.ToChar(i))
		}
	}
	return b.String()
}

// String renders the permutation in cycle notation, cycles ordered by
// their first character's index. Fixed points are omitted.
func (p *Permutation) String() string {
	var b strings.Builder
	seen := make([]bool, p.Size())
	for start := range p.forward {
		if seen[start] || p.forward[start] == start {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		for i := start; !seen[i]; i = p.forward[i] {
			seen[i] = true
			b.WriteRune(p.alphabet.ToChar(i))
		}
		b.WriteByte(')')
	}
	return b.String()
}
