package testlist

import (
	"errors"
	"fmt"
	"strings"
)

// LoadError is returned when a test list document cannot be read, parsed or validated.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading test list %s: %v", e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ImportCycleError is returned when a document imports itself, directly or
// through other documents.
type ImportCycleError struct {
	Chain []string // Documents being expanded, ending with the repeated one
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("import cycle detected: %s", strings.Join(e.Chain, " -> "))
}

// IsLoadError checks if the error is or wraps a LoadError
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return err != nil && errors.As(err, &loadErr)
}

// IsImportCycleError checks if the error is or wraps an ImportCycleError
func IsImportCycleError(err error) bool {
	var cycleErr *ImportCycleError
	return err != nil && errors.As(err, &cycleErr)
}
