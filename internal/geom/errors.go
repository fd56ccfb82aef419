package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry matches every *InvalidGeometryError via errors.Is.
var ErrInvalidGeometry = errors.New("invalid geometry")

// InvalidGeometryError reports a malformed point, radius or unit handed to
// the geometry functions.
type InvalidGeometryError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidGeometryError) Is(target error) bool {
	return target == ErrInvalidGeometry
}

func invalid(field string, value any, reason string) error {
	return &InvalidGeometryError{Field: field, Value: value, Reason: reason}
}
