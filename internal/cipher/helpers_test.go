package cipher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// rotorI is the wiring of naval/army rotor I in cycle notation.
const rotorI = "(AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)"

type testRotor struct {
	kind    Kind
	notches string
	cycles  string
}

var navalRotors = map[string]testRotor{
	"I":     {KindStepping, "Q", rotorI},
	"II":    {KindStepping, "E", "(FIXVYOMW) (CDKLHUP) (ESZ) (BJ) (GR) (NT) (A) (Q)"},
	"III":   {KindStepping, "V", "(ABDHPEJT) (CFLVMZOYQIRWUKXSG) (N)"},
	"IV":    {KindStepping, "J", "(AEPLIYWCOXMRFZBSTGJQNH) (DV) (KU)"},
	"V":     {KindStepping, "Z", "(AVOLDRWFIUQ)(BZKSMNHYC) (EGTJPX)"},
	"VI":    {KindStepping, "ZM", "(AJQDVLEOZWIYTS) (CGMNHFUX) (BPRK)"},
	"VII":   {KindStepping, "ZM", "(ANOUPFRIMBZTLWKSVEGCJYDHXQ)"},
	"VIII":  {KindStepping, "ZM", "(AFLSETWUNDHOZVICQ) (BKJ) (GXY) (MPR)"},
	"Beta":  {KindStationary, "", "(ALBEVFCYODJWUGNMQTZSKPR) (HIX)"},
	"Gamma": {KindStationary, "", "(AFNIRWGUPYJHE) (BSL) (COZVDKMTQ) (X)"},
	"B":     {KindReflecting, "", "(AE) (BN) (CK) (DQ) (FU) (GY) (HW) (IJ) (LO) (MP) (RX) (SZ) (TV)"},
	"C":     {KindReflecting, "", "(AR) (BD) (CO) (EJ) (FN) (GT) (HK) (IV) (LM) (PW) (QZ) (SX) (UY)"},
	"UKWB":  {KindReflecting, "", "(AY) (BR) (CU) (DH) (EQ) (FS) (GL) (IP) (JX) (KN) (MO) (TZ) (VW)"},
	"Half":  {KindReflecting, "", "(AB) (CD)"},
}

// navalCatalog builds every test rotor over the default alphabet.
func navalCatalog(t *testing.T) map[string]*Rotor {
	t.Helper()
	alpha := DefaultAlphabet()
	catalog := make(map[string]*Rotor, len(navalRotors))
	for name, spec := range navalRotors {
		perm, err := NewPermutation(spec.cycles, alpha)
		require.NoError(t, err, "rotor %s", name)
		r, err := NewRotor(name, spec.kind, perm, spec.notches)
		require.NoError(t, err, "rotor %s", name)
		catalog[name] = r
	}
	return catalog
}

// newMachine builds a machine over the test catalog.
func newMachine(t *testing.T, slots, pawls int, opts ...Option) *Machine {
	t.Helper()
	m, err := NewMachine(DefaultAlphabet(), slots, pawls, navalCatalog(t), opts...)
	require.NoError(t, err)
	return m
}
