package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NonFiniteValueError is returned when a series holds NaN or Inf, which the
// plotting backend cannot place on an axis.
type NonFiniteValueError struct {
	Label  string  // series label
	Column string  // "Recall" or "Precision"
	Row    int     // 0-based data row
	Value  float64 // offending value
}

func (e *NonFiniteValueError) Error() string {
	return fmt.Sprintf("prcurve: series '%s' has non-finite %s value %v at row %d",
		e.Label, e.Column, e.Value, e.Row)
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *NonFiniteValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("label", e.Label).
		Str("column", e.Column).
		Int("row", e.Row).
		Float64("value", e.Value).
		Str("type", "NonFiniteValueError")
}

// NewNonFiniteValueError creates a NonFiniteValueError with a stack trace.
func NewNonFiniteValueError(label, column string, row int, value float64) error {
	err := &NonFiniteValueError{Label: label, Column: column, Row: row, Value: value}
	return errors.WithStack(err)
}

// CheckFinite returns a NonFiniteValueError for the first NaN or Inf in values.
func CheckFinite(label, column string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNonFiniteValueError(label, column, i, v)
		}
	}
	return nil
}
