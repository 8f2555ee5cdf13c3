package job

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec is wrapped by every local validation failure returned from Build.
var ErrInvalidSpec = errors.New("invalid job spec")

// invalid returns an error for the named field that wraps ErrInvalidSpec.
func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidSpec, field, fmt.Sprintf(format, args...))
}
