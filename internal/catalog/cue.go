package catalog

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/enigma/internal/ir"
)

const schemaFilename = "catalog-schema.cue"

// cueSchema closes the catalog document: unknown fields and wrong types
// are reported by CUE with their source position.
const cueSchema = `
#Kind: "stationary" | "stepping" | "reflector"

#Rotor: {
	kind:     #Kind
	notches?: string
	cycles:   string
}

#Catalog: {
	alphabet: string
	slots:    int
	pawls:    int
	rotor: [string]: #Rotor
}
`

// LoadCUE reads and compiles the CUE catalog at path.
func LoadCUE(path string) (*ir.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	ctx := cuecontext.New()
	return CompileCUE(ctx.CompileBytes(data, cue.Filename(path)))
}

// CompileCUE converts a CUE value into a catalog. The value is the
// catalog struct itself, e.g.:
//
//	alphabet: "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
//	slots:    5
//	pawls:    3
//	rotor: I: {kind: "stepping", notches: "Q", cycles: "(AELTPHQXRU) ..."}
//	rotor: B: {kind: "reflector", cycles: "(AE) (BN) ..."}
//
// Rotors keep their declaration order.
func CompileCUE(v cue.Value) (*ir.Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, v)
	}

	schema := v.Context().CompileString(cueSchema, cue.Filename(schemaFilename))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err, schema)
	}
	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, v)
	}

	c := &ir.Catalog{}
	var err error
	if c.Alphabet, err = lookupString(unified, "alphabet"); err != nil {
		return nil, err
	}
	if c.Slots, err = lookupInt(unified, "slots"); err != nil {
		return nil, err
	}
	if c.Pawls, err = lookupInt(unified, "pawls"); err != nil {
		return nil, err
	}

	rotorsVal := unified.LookupPath(cue.ParsePath("rotor"))
	if !rotorsVal.Exists() {
		return c, nil
	}
	iter, err := rotorsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err, v)
	}
	for iter.Next() {
		spec, err := compileRotor(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		if src := v.LookupPath(cue.MakePath(cue.Str("rotor"), cue.Str(spec.Name))); src.Exists() {
			spec.Line = src.Pos().Line()
		}
		c.Rotors = append(c.Rotors, spec)
	}
	return c, nil
}

func compileRotor(name string, v cue.Value) (ir.RotorSpec, error) {
	spec := ir.RotorSpec{Name: name}

	kind, err := lookupString(v, "kind")
	if err != nil {
		return spec, err
	}
	if spec.Kind, err = ir.ParseRotorKind(kind); err != nil {
		return spec, &CompileError{Field: "rotor." + name + ".kind", Message: err.Error(), Pos: v.Pos()}
	}

	if nv := v.LookupPath(cue.ParsePath("notches")); nv.Exists() && nv.IsConcrete() {
		if spec.Notches, err = nv.String(); err != nil {
			return spec, formatCUEError(err, v)
		}
	}

	if spec.Cycles, err = lookupString(v, "cycles"); err != nil {
		return spec, err
	}
	return spec, nil
}

func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err, v)
	}
	return s, nil
}

func lookupInt(v cue.Value, field string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err, v)
	}
	return int(n), nil
}
