package catalog

import (
	"fmt"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// Validate checks a catalog against every rule a machine build relies on,
// plus the ones that decide whether any settings line can succeed.
// Returns all errors found (does not fail-fast).
func Validate(c *ir.Catalog) []ValidationError {
	var errs []ValidationError

	alpha, err := cipher.NewAlphabet(c.Alphabet)
	switch {
	case err != nil:
		errs = append(errs, ValidationError{Field: "alphabet", Message: err.Error(), Code: ErrAlphabetInvalid})
		alpha = nil
	case alpha.Size() == 0:
		errs = append(errs, ValidationError{Field: "alphabet", Message: "alphabet must be non-empty", Code: ErrAlphabetInvalid})
		alpha = nil
	}

	if c.Slots < 2 {
		errs = append(errs, ValidationError{
			Field:   "slots",
			Message: fmt.Sprintf("machine needs at least 2 slots, got %d", c.Slots),
			Code:    ErrSlotCount,
		})
	}
	pawlsOK := c.Pawls >= 0 && c.Pawls < max(c.Slots, 1)
	if !pawlsOK {
		errs = append(errs, ValidationError{
			Field:   "pawls",
			Message: fmt.Sprintf("pawl count %d must be in 0..%d", c.Pawls, c.Slots-1),
			Code:    ErrPawlCount,
		})
	}

	if len(c.Rotors) == 0 {
		errs = append(errs, ValidationError{Field: "rotors", Message: "catalog defines no rotors", Code: ErrNoRotors})
		return errs
	}

	counts := make(map[ir.RotorKind]int)
	seen := make(map[string]int)
	for i, r := range c.Rotors {
		field := fmt.Sprintf("rotors[%d]", i)

		if !validRotorName(r.Name) {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("rotor name %q must be non-empty without whitespace, '(', ')' or '*'", r.Name),
				Code:    ErrRotorName,
				Line:    r.Line,
			})
		}
		if j, dup := seen[r.Name]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate rotor name %q (first defined at rotors[%d])", r.Name, j),
				Code:    ErrDuplicateRotorName,
				Line:    r.Line,
			})
		} else {
			seen[r.Name] = i
		}

		if !ir.ValidRotorKinds[r.Kind] {
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("invalid rotor kind %q", r.Kind),
				Code:    ErrRotorKind,
				Line:    r.Line,
			})
			continue
		}
		counts[r.Kind]++

		if r.Kind != ir.KindStepping && r.Notches != "" {
			errs = append(errs, ValidationError{
				Field:   field + ".notches",
				Message: fmt.Sprintf("%s rotor %s cannot have notches", r.Kind, r.Name),
				Code:    ErrRotorNotches,
				Line:    r.Line,
			})
		}
		if alpha == nil {
			continue
		}
		if r.Kind == ir.KindStepping {
			for _, n := range r.Notches {
				if !alpha.Contains(n) {
					errs = append(errs, ValidationError{
						Field:   field + ".notches",
						Message: fmt.Sprintf("notch %q not in alphabet", n),
						Code:    ErrRotorNotches,
						Line:    r.Line,
					})
				}
			}
		}
		if _, err := cipher.NewPermutation(r.Cycles, alpha); err != nil {
			errs = append(errs, ValidationError{
				Field:   field + ".cycles",
				Message: err.Error(),
				Code:    ErrRotorCycles,
				Line:    r.Line,
			})
		}
	}

	if counts[ir.KindReflector] == 0 {
		errs = append(errs, ValidationError{Field: "rotors", Message: "catalog defines no reflector", Code: ErrNoReflector})
	}
	if c.Slots >= 2 && pawlsOK {
		if n := counts[ir.KindStepping]; n < c.Pawls {
			errs = append(errs, ValidationError{
				Field:   "rotors",
				Message: fmt.Sprintf("%d pawls need %d stepping rotors, catalog defines %d", c.Pawls, c.Pawls, n),
				Code:    ErrStackUnfillable,
			})
		}
		need := c.Slots - 1 - c.Pawls
		if n := counts[ir.KindStationary]; n < need {
			errs = append(errs, ValidationError{
				Field:   "rotors",
				Message: fmt.Sprintf("%d slots with %d pawls need %d stationary rotors, catalog defines %d", c.Slots, c.Pawls, need, n),
				Code:    ErrStackUnfillable,
			})
		}
	}

	return errs
}
