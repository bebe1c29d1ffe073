package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/enigma/internal/ir"
)

// yamlCatalog is the YAML catalog document.
//
// Example:
//
//	alphabet: ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	slots: 5
//	pawls: 3
//	rotors:
//	  - name: I
//	    kind: stepping
//	    notches: Q
//	    cycles: (AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)
type yamlCatalog struct {
	Alphabet string      `yaml:"alphabet" validate:"required"`
	Slots    int         `yaml:"slots" validate:"gte=2"`
	Pawls    int         `yaml:"pawls" validate:"gte=0,ltfield=Slots"`
	Rotors   []yamlRotor `yaml:"rotors" validate:"required,min=1,dive"`
}

type yamlRotor struct {
	Name    string `yaml:"name" validate:"required,rotorname"`
	Kind    string `yaml:"kind" validate:"required,oneof=stationary stepping reflector"`
	Notches string `yaml:"notches,omitempty" validate:"excluded_unless=Kind stepping"`
	Cycles  string `yaml:"cycles"`
}

// catalogValidate checks YAML documents before conversion.
var catalogValidate *validator.Validate

func init() {
	catalogValidate = validator.New()
	catalogValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = catalogValidate.RegisterValidation("rotorname", validateRotorName)
}

// validateRotorName rejects names that cannot appear in a settings line.
func validateRotorName(fl validator.FieldLevel) bool {
	return validRotorName(fl.Field().String())
}

func validRotorName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '*' {
			return false
		}
	}
	return true
}

// ParseYAML decodes a YAML catalog. Unknown fields are rejected, and
// document-level constraints (required fields, kinds, counts) are checked
// before conversion. Validation errors are returned as ValidationErrors.
func ParseYAML(data []byte) (*ir.Catalog, error) {
	var doc yamlCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing YAML catalog: %w", err)
	}

	lines := rotorLines(data)
	if err := catalogValidate.Struct(&doc); err != nil {
		return nil, convertValidatorError(err, lines)
	}

	c := &ir.Catalog{
		Alphabet: doc.Alphabet,
		Slots:    doc.Slots,
		Pawls:    doc.Pawls,
		Rotors:   make([]ir.RotorSpec, len(doc.Rotors)),
	}
	for i, r := range doc.Rotors {
		c.Rotors[i] = ir.RotorSpec{
			Name:    r.Name,
			Kind:    ir.RotorKind(r.Kind),
			Notches: r.Notches,
			Cycles:  r.Cycles,
		}
		if i < len(lines) {
			c.Rotors[i].Line = lines[i]
		}
	}
	return c, nil
}

// rotorLines returns the source line of each rotor entry.
func rotorLines(data []byte) []int {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil || len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "rotors" {
			continue
		}
		seq := doc.Content[i+1]
		lines := make([]int, len(seq.Content))
		for j, item := range seq.Content {
			lines[j] = item.Line
		}
		return lines
	}
	return nil
}

// convertValidatorError maps validator failures to ValidationErrors.
func convertValidatorError(err error, lines []int) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "yamlCatalog.rotors[2].kind"; drop the type name.
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		out = append(out, ValidationError{
			Field:   field,
			Message: validatorMessage(fe),
			Code:    validatorCode(field),
			Line:    lineOf(field, lines),
		})
	}
	return out
}

func validatorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of %s, got %q", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "ltfield":
		return fmt.Sprintf("must be less than slots, got %v", fe.Value())
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "excluded_unless":
		return "only stepping rotors have notches"
	case "rotorname":
		return fmt.Sprintf("%q cannot contain whitespace, '(', ')' or '*'", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func validatorCode(field string) string {
	switch {
	case field == "alphabet":
		return ErrAlphabetInvalid
	case field == "slots":
		return ErrSlotCount
	case field == "pawls":
		return ErrPawlCount
	case field == "rotors":
		return ErrNoRotors
	case strings.HasSuffix(field, ".name"):
		return ErrRotorName
	case strings.HasSuffix(field, ".kind"):
		return ErrRotorKind
	case strings.HasSuffix(field, ".notches"):
		return ErrRotorNotches
	default:
		return ErrRotorCycles
	}
}

// lineOf finds the line of the rotor named in field, if any.
func lineOf(field string, lines []int) int {
	var i int
	if _, err := fmt.Sscanf(field, "rotors[%d]", &i); err != nil {
		return 0
	}
	if i >= 0 && i < len(lines) {
		return lines[i]
	}
	return 0
}

// FormatYAML writes c as a YAML catalog document.
func FormatYAML(w io.Writer, c *ir.Catalog) error {
	doc := yamlCatalog{
		Alphabet: c.Alphabet,
		Slots:    c.Slots,
		Pawls:    c.Pawls,
		Rotors:   make([]yamlRotor, len(c.Rotors)),
	}
	for i, r := range c.Rotors {
		doc.Rotors[i] = yamlRotor{Name: r.Name, Kind: string(r.Kind), Notches: r.Notches, Cycles: r.Cycles}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding YAML catalog: %w", err)
	}
	return enc.Close()
}
