package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAlphabet(t *testing.T) {
	a := DefaultAlphabet()
	assert.Equal(t, 26, a.Size())
	assert.Equal(t, UpperLatin, a.Chars())

	assert.Equal(t, 'A', a.ToChar(0))
	assert.Equal(t, 'Z', a.ToChar(25))

	i, ok := a.ToIndex('A')
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = a.ToIndex('Z')
	assert.True(t, ok)
	assert.Equal(t, 25, i)

	assert.True(t, a.Contains('Q'))
	assert.False(t, a.Contains('q'))
	assert.False(t, a.Contains('1'))
}

func TestAlphabetCustom(t *testing.T) {
	a, err := NewAlphabet("BCO")
	require.NoError(t, err)

	i, ok := a.ToIndex('C')
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, 'C', a.ToChar(1))

	_, ok = a.ToIndex('A')
	assert.False(t, ok, "A is below the alphabet's lowest rune")
}

func TestAlphabetRoundTrip(t *testing.T) {
	for _, chars := range []string{UpperLatin, "ZYXW", "0123456789", "ÄÖÜß", "aé中"} {
		t.Run(chars, func(t *testing.T) {
			a, err := NewAlphabet(chars)
			require.NoError(t, err)
			for i := 0; i < a.Size(); i++ {
				j, ok := a.ToIndex(a.ToChar(i))
				require.True(t, ok)
				assert.Equal(t, i, j)
			}
		})
	}
}

func TestAlphabetSparseRunes(t *testing.T) {
	// Span too wide for the dense table.
	a, err := NewAlphabet("A😀")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Size())

	i, ok := a.ToIndex('😀')
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.False(t, a.Contains('B'))

	_, err = NewAlphabet("A😀A")
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeAlphabetDuplicate))
}

func TestAlphabetErrors(t *testing.T) {
	tests := []struct {
		name  string
		chars string
		code  ErrorCode
	}{
		{"duplicate", "ABBCD", ErrCodeAlphabetDuplicate},
		{"open paren", "AB(C", ErrCodeAlphabetReserved},
		{"close paren", "AB)C", ErrCodeAlphabetReserved},
		{"asterisk", "A*", ErrCodeAlphabetReserved},
		{"space", "A B", ErrCodeAlphabetReserved},
		{"tab", "A\tB", ErrCodeAlphabetReserved},
		{"invalid utf8", "A\xffB", ErrCodeAlphabetReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAlphabet(tt.chars)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
			assert.Equal(t, tt.code, CodeOf(err))
		})
	}
}

func TestAlphabetEmpty(t *testing.T) {
	a, err := NewAlphabet("")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Size())
	assert.False(t, a.Contains('A'))
}

func TestAlphabetEqual(t *testing.T) {
	a, _ := NewAlphabet("ABC")
	b, _ := NewAlphabet("ABC")
	c, _ := NewAlphabet("ACB")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
