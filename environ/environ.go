// Package environ reads the environment variables the regression runner depends on.
package environ

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// MissingError is returned when a required environment variable is not set.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Name)
}

// IsMissingError checks if the error is or wraps a MissingError
func IsMissingError(err error) bool {
	var missingErr *MissingError
	return err != nil && errors.As(err, &missingErr)
}

// Require returns the value of the named variable. An unset or empty
// variable is reported as a *MissingError.
func Require(name string) (string, error) {
	val, ok := os.LookupEnv(name)
	if !ok || val == "" {
		return "", &MissingError{Name: name}
	}
	return val, nil
}

// LoadFiles loads the given .env files into the process environment.
// Variables that are already set are never overwritten.
func LoadFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}
