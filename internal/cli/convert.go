package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/ir"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	To     string // target catalog format
	Output string // output file path
}

// ConvertFormats are the catalog formats convert can write.
var ConvertFormats = []string{"text", "yaml", "json"}

// ConvertResult holds a converted catalog.
type ConvertResult struct {
	Format    string `json:"format"`
	CatalogID string `json:"catalog_id"`
	Document  string `json:"document,omitempty"` // empty when written to a file
	Path      string `json:"path,omitempty"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <catalog>",
		Short: "Convert a rotor catalog to another format",
		Long: `Convert a valid rotor catalog to the text or YAML catalog format, or
to canonical JSON.

The machine described is unchanged: every format of the same catalog has
the same fingerprint.

Examples:
  enigma convert default.conf --to yaml
  enigma convert naval.cue --to text -o default.conf`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "yaml", "target format (text|yaml|json)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runConvert(opts *ConvertOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if !slices.Contains(ConvertFormats, opts.To) {
		return formatter.commandError(ErrCodeUsage, fmt.Sprintf("invalid target format %q: must be one of %v", opts.To, ConvertFormats), nil)
	}

	c, err := LoadValidCatalog(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeInvalid {
			return outputValidationErrors(formatter, loadErr.Problems)
		}
		code, message := loadErrorCode(err)
		return formatter.commandError(code, message, nil)
	}
	formatter.VerboseLog("Converting %s catalog %s to %s", catalog.DetectFormat(path), path, opts.To)

	doc, err := encodeCatalog(c, opts.To)
	if err != nil {
		return formatter.commandError(ErrCodeGeneric, err.Error(), nil)
	}
	id, err := ir.CatalogID(c)
	if err != nil {
		return formatter.commandError(ErrCodeGeneric, err.Error(), nil)
	}

	result := ConvertResult{Format: opts.To, CatalogID: id}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, doc, 0644); err != nil {
			return formatter.commandError(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		result.Path = opts.Output
	} else {
		result.Document = string(doc)
	}

	return outputConvertSuccess(formatter, result)
}

// encodeCatalog renders c in the named format.
func encodeCatalog(c *ir.Catalog, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "text":
		if err := catalog.FormatText(&buf, c); err != nil {
			return nil, err
		}
	case "yaml":
		if err := catalog.FormatYAML(&buf, c); err != nil {
			return nil, err
		}
	case "json":
		data, err := ir.MarshalCanonical(c.Value())
		if err != nil {
			return nil, fmt.Errorf("marshaling catalog: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
	return buf.Bytes(), nil
}

// outputConvertSuccess outputs the converted catalog.
func outputConvertSuccess(formatter *OutputFormatter, result ConvertResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Path == "" {
		_, err := fmt.Fprint(formatter.Writer, result.Document)
		return err
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %s catalog to %s\n", result.Format, result.Path)
	fmt.Fprintf(formatter.Writer, "  fingerprint: %s\n", result.CatalogID)
	return nil
}
