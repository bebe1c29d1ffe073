package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/enigma/internal/ir"
)

// Format identifies a catalog file format.
type Format string

const (
	TextFormat Format = "text"
	CUEFormat  Format = "cue"
	YAMLFormat Format = "yaml"
)

// DetectFormat chooses the format from the file extension. Anything other
// than .cue, .yaml or .yml is read as text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return CUEFormat
	case ".yaml", ".yml":
		return YAMLFormat
	default:
		return TextFormat
	}
}

// Load reads the catalog at path in the format given by its extension.
func Load(path string) (*ir.Catalog, error) {
	switch DetectFormat(path) {
	case CUEFormat:
		return LoadCUE(path)
	case YAMLFormat:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
		return ParseYAML(data)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
		defer f.Close()
		return ParseText(f)
	}
}
