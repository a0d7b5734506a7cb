package config

import (
	"errors"
	"strings"
)

// ErrInvalid is wrapped by errors about malformed configuration values.
var ErrInvalid = errors.New("invalid configuration")

// MissingError lists required environment variables that are not set.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return "missing required configuration: " + strings.Join(e.Vars, ", ")
}
