package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// Error codes for command-level failures (E001-E099).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeLoadFailed  = "E004" // Catalog does not parse
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Machine build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeInvalid     = "E008" // Catalog fails validation
	ErrCodeUsage       = "E009" // Invalid flag value
)

// LoadError represents an error that occurred while loading a catalog.
type LoadError struct {
	Code    string
	Message string
	Err     error // underlying error, if any

	// Problems holds every validation problem when Code is ErrCodeInvalid.
	Problems []catalog.ValidationError
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadCatalog reads the catalog at path in the format chosen by its
// extension. The catalog is not validated.
func LoadCatalog(path string) (*ir.Catalog, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog: %v", err), Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog is a directory: %s", path)}
	}

	c, err := catalog.Load(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error(), Err: err}
	}
	return c, nil
}

// LoadValidCatalog loads the catalog at path and rejects it if Validate
// reports any problem.
func LoadValidCatalog(path string) (*ir.Catalog, error) {
	c, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	if problems := catalog.Validate(c); len(problems) > 0 {
		verr := catalog.ValidationErrors(problems)
		return nil, &LoadError{Code: ErrCodeInvalid, Message: verr.Error(), Err: verr, Problems: problems}
	}
	return c, nil
}

// LoadMachine loads and validates the catalog at path and builds an
// unconfigured machine from it.
func LoadMachine(path string, opts ...cipher.Option) (*ir.Catalog, *cipher.Machine, error) {
	c, err := LoadValidCatalog(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := catalog.Build(c, opts...)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error(), Err: err}
	}
	return c, m, nil
}

// machineOptions returns the cipher options selected by command flags.
func machineOptions(strictReflectors bool) []cipher.Option {
	if strictReflectors {
		return []cipher.Option{cipher.WithStrictReflectors()}
	}
	return nil
}

// loadErrorCode extracts the command error code and message from err.
func loadErrorCode(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// messageErrorCode returns the configuration error code carried by err,
// or ErrCodeGeneric if it has none.
func messageErrorCode(err error) string {
	if code := cipher.CodeOf(err); code != "" {
		return string(code)
	}
	return ErrCodeGeneric
}
