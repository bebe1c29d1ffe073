package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	StrictReflectors bool
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                      `json:"valid"`
	CatalogID string                    `json:"catalog_id,omitempty"`
	Summary   *CatalogSummary           `json:"summary,omitempty"`
	Errors    []catalog.ValidationError `json:"errors,omitempty"`
}

// CatalogSummary describes a valid catalog.
type CatalogSummary struct {
	Alphabet   int `json:"alphabet"`
	Slots      int `json:"slots"`
	Pawls      int `json:"pawls"`
	Reflectors int `json:"reflectors"`
	Stationary int `json:"stationary"`
	Stepping   int `json:"stepping"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <catalog>",
		Short: "Validate a rotor catalog",
		Long: `Validate a rotor catalog without converting any message.

Reports every problem found: alphabet, slot and pawl counts, rotor names,
kinds, notches and wirings, and whether the catalog holds enough rotors of
each kind to fill one stack. A valid catalog is also built into a machine.

The catalog format is chosen by extension: .cue, .yaml/.yml, or the
plain text format for anything else.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.StrictReflectors, "strict-reflectors", false, "reject reflectors that map a character to itself")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	c, err := LoadCatalog(path)
	if err != nil {
		code, message := loadErrorCode(err)
		return formatter.commandError(code, message, nil)
	}

	formatter.VerboseLog("Loaded %s catalog with %d rotor(s) from %s", catalog.DetectFormat(path), len(c.Rotors), path)

	problems := catalog.Validate(c)
	if len(problems) == 0 {
		if _, err := catalog.Build(c); err != nil {
			problems = append(problems, catalog.ValidationError{
				Field:   "build",
				Message: err.Error(),
				Code:    messageErrorCode(err),
			})
		}
	}
	if len(problems) == 0 && opts.StrictReflectors {
		problems = strictReflectorProblems(c)
	}
	if len(problems) > 0 {
		return outputValidationErrors(formatter, problems)
	}

	id, err := ir.CatalogID(c)
	if err != nil {
		return formatter.commandError(ErrCodeGeneric, err.Error(), nil)
	}
	return outputValidateSuccess(formatter, ValidationResult{
		Valid:     true,
		CatalogID: id,
		Summary:   summarize(c),
	})
}

// strictReflectorProblems reports every reflector with a fixed point.
// A machine only checks the reflector it inserts.
func strictReflectorProblems(c *ir.Catalog) []catalog.ValidationError {
	alpha, err := cipher.NewAlphabet(c.Alphabet)
	if err != nil {
		return nil
	}

	var problems []catalog.ValidationError
	for i, r := range c.Rotors {
		if r.Kind != ir.KindReflector {
			continue
		}
		perm, err := cipher.NewPermutation(r.Cycles, alpha)
		if err != nil || perm.Derangement() {
			continue
		}
		problems = append(problems, catalog.ValidationError{
			Field:   fmt.Sprintf("rotors[%d].cycles", i),
			Message: fmt.Sprintf("reflector %s maps %q to themselves", r.Name, perm.FixedPoints()),
			Code:    string(cipher.ErrCodeNotDerangement),
			Line:    r.Line,
		})
	}
	return problems
}

func summarize(c *ir.Catalog) *CatalogSummary {
	s := &CatalogSummary{
		Alphabet: len([]rune(c.Alphabet)),
		Slots:    c.Slots,
		Pawls:    c.Pawls,
	}
	for _, r := range c.Rotors {
		switch r.Kind {
		case ir.KindReflector:
			s.Reflectors++
		case ir.KindStationary:
			s.Stationary++
		case ir.KindStepping:
			s.Stepping++
		}
	}
	return s
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	s := result.Summary
	fmt.Fprintln(formatter.Writer, "✓ Catalog valid")
	fmt.Fprintf(formatter.Writer, "  alphabet:    %d characters\n", s.Alphabet)
	fmt.Fprintf(formatter.Writer, "  slots:       %d (%d pawls)\n", s.Slots, s.Pawls)
	fmt.Fprintf(formatter.Writer, "  rotors:      %d reflector(s), %d stationary, %d stepping\n", s.Reflectors, s.Stationary, s.Stepping)
	fmt.Fprintf(formatter.Writer, "  fingerprint: %s\n", result.CatalogID)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []catalog.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
