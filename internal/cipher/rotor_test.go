package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rotorIPerm(t *testing.T) *Permutation {
	t.Helper()
	perm, err := NewPermutation(rotorI, DefaultAlphabet())
	require.NoError(t, err)
	return perm
}

func TestRotorKinds(t *testing.T) {
	perm := rotorIPerm(t)

	fixed := NewStationaryRotor("Beta", perm)
	assert.False(t, fixed.Rotates())
	assert.False(t, fixed.Reflects())
	assert.Equal(t, KindStationary, fixed.Kind())

	moving, err := NewSteppingRotor("I", perm, "Q")
	require.NoError(t, err)
	assert.True(t, moving.Rotates())
	assert.False(t, moving.Reflects())

	refl := NewReflector("B", perm)
	assert.False(t, refl.Rotates())
	assert.True(t, refl.Reflects())

	assert.Equal(t, "I", moving.Name())
	assert.Equal(t, "Rotor I", moving.String())
	assert.Equal(t, 26, moving.Size())
}

func TestRotorSetting(t *testing.T) {
	r := NewStationaryRotor("W", rotorIPerm(t))

	require.NoError(t, r.SetPosition(0))
	assert.Equal(t, 0, r.Position())

	require.NoError(t, r.SetPosition(22))
	assert.Equal(t, 22, r.Position())

	require.NoError(t, r.SetPositionChar('C'))
	assert.Equal(t, 2, r.Position())

	require.NoError(t, r.SetPositionChar('Z'))
	assert.Equal(t, 25, r.Position())

	err := r.SetPosition(26)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeSettingLength))

	err = r.SetPosition(-1)
	require.Error(t, err)

	err = r.SetPositionChar('a')
	require.Error(t, err)
	assert.True(t, IsAlphabetError(err))
	assert.Equal(t, 25, r.Position(), "failed set leaves position unchanged")

	require.NoError(t, r.SetRing(3))
	assert.Equal(t, 3, r.Ring())
	require.NoError(t, r.SetRingChar('B'))
	assert.Equal(t, 1, r.Ring())
	require.Error(t, r.SetRing(26))
}

func TestReflectorPosition(t *testing.T) {
	r := NewReflector("B", rotorIPerm(t))

	require.NoError(t, r.SetPosition(0))

	err := r.SetPosition(1)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeReflectorPosition))
	assert.Equal(t, 0, r.Position())

	err = r.SetPositionChar('C')
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeReflectorPosition))
}

func TestRotorConvertForward(t *testing.T) {
	r := NewStationaryRotor("W", rotorIPerm(t))

	require.NoError(t, r.SetPosition(0))
	assert.Equal(t, 4, r.ConvertForward(0))

	require.NoError(t, r.SetPosition(1))
	assert.Equal(t, 9, r.ConvertForward(0))
}

func TestRotorRingSetting(t *testing.T) {
	r := NewStationaryRotor("W", rotorIPerm(t))

	// Ring 1 at position 1 cancels out: B -> K.
	require.NoError(t, r.SetPosition(1))
	require.NoError(t, r.SetRing(1))
	assert.Equal(t, 10, r.ConvertForward(1))

	// Ring B at position A: entry Z, Z -> J, exit J + 1 = K.
	require.NoError(t, r.SetPosition(0))
	assert.Equal(t, 10, r.ConvertForward(0))
}

func TestRotorRoundTrip(t *testing.T) {
	r, err := NewSteppingRotor("I", rotorIPerm(t), "Q")
	require.NoError(t, err)

	for pos := 0; pos < r.Size(); pos++ {
		for ring := 0; ring < r.Size(); ring++ {
			require.NoError(t, r.SetPosition(pos))
			require.NoError(t, r.SetRing(ring))
			for p := 0; p < r.Size(); p++ {
				if got := r.ConvertBackward(r.ConvertForward(p)); got != p {
					t.Fatalf("pos=%d ring=%d p=%d: round trip gave %d", pos, ring, p, got)
				}
			}
		}
	}
}

func TestRotorNotches(t *testing.T) {
	r, err := NewSteppingRotor("W", rotorIPerm(t), "BZ")
	require.NoError(t, err)
	assert.Equal(t, "BZ", r.Notches())

	require.NoError(t, r.SetPosition(1))
	assert.True(t, r.AtNotch())

	require.NoError(t, r.SetPosition(25))
	assert.True(t, r.AtNotch())

	require.NoError(t, r.SetPositionChar('B'))
	assert.True(t, r.AtNotch())

	require.NoError(t, r.SetPositionChar('C'))
	assert.False(t, r.AtNotch())

	for pos := 0; pos < r.Size(); pos++ {
		require.NoError(t, r.SetPosition(pos))
		c := r.Alphabet().ToChar(pos)
		assert.Equal(t, c == 'B' || c == 'Z', r.AtNotch(), "position %q", c)
	}
}

func TestRotorNotchOrderIsAlphabetical(t *testing.T) {
	r, err := NewSteppingRotor("VI", rotorIPerm(t), "ZM")
	require.NoError(t, err)
	assert.Equal(t, "MZ", r.Notches())
}

func TestRotorNotchNotInAlphabet(t *testing.T) {
	_, err := NewSteppingRotor("W", rotorIPerm(t), "B1")
	require.Error(t, err)
	assert.True(t, IsAlphabetError(err))
}

func TestRotorAdvance(t *testing.T) {
	r, err := NewSteppingRotor("W", rotorIPerm(t), "BZ")
	require.NoError(t, err)

	require.NoError(t, r.SetPosition(0))
	assert.Equal(t, 4, r.ConvertForward(0))

	r.Advance()
	assert.Equal(t, 1, r.Position())
	assert.Equal(t, 9, r.ConvertForward(0))

	require.NoError(t, r.SetPosition(25))
	r.Advance()
	assert.Equal(t, 0, r.Position())
}

func TestNonSteppingRotorsNeverAdvance(t *testing.T) {
	perm := rotorIPerm(t)
	for _, r := range []*Rotor{NewStationaryRotor("N", perm), NewReflector("R", perm)} {
		r.Advance()
		assert.Equal(t, 0, r.Position(), r.Name())
		assert.False(t, r.AtNotch(), r.Name())
	}
}

func TestRotorClone(t *testing.T) {
	r, err := NewSteppingRotor("I", rotorIPerm(t), "Q")
	require.NoError(t, err)
	require.NoError(t, r.SetPosition(5))

	c := r.Clone()
	c.Advance()
	require.NoError(t, c.SetRing(2))

	assert.Equal(t, 5, r.Position())
	assert.Equal(t, 0, r.Ring())
	assert.Equal(t, 6, c.Position())
	assert.Same(t, r.Permutation(), c.Permutation())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		code    string
		kind    Kind
		notches string
		wantErr bool
	}{
		{"MQ", KindStepping, "Q", false},
		{"MZM", KindStepping, "ZM", false},
		{"M", KindStepping, "", false},
		{"N", KindStationary, "", false},
		{"R", KindReflecting, "", false},
		{"NQ", 0, "", true},
		{"RA", 0, "", true},
		{"X", 0, "", true},
		{"", 0, "", true},
		{"m", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			kind, notches, err := ParseKind(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, HasCode(err, ErrCodeRotorType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.notches, notches)
			assert.Equal(t, tt.code[:1], kind.Code())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "stationary", KindStationary.String())
	assert.Equal(t, "stepping", KindStepping.String())
	assert.Equal(t, "reflector", KindReflecting.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
