// Package curve loads precomputed precision-recall curves from tabular files.
//
// A source is a CSV file with a header row holding the columns Precision and
// Recall in any order. Loading validates the column set under a SchemaPolicy
// and returns a Curve whose two sequences are index-aligned and kept in file
// row order.
package curve

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Column names every source must provide.
const (
	ColumnPrecision = "Precision"
	ColumnRecall    = "Recall"
)

// SchemaPolicy selects how strictly the header of a source is checked.
type SchemaPolicy int

const (
	// SchemaStrict requires the column set to be exactly {Precision, Recall}.
	SchemaStrict SchemaPolicy = iota
	// SchemaLenient requires both columns and ignores any others.
	SchemaLenient
)

// String returns "strict" or "lenient".
func (p SchemaPolicy) String() string {
	switch p {
	case SchemaStrict:
		return "strict"
	case SchemaLenient:
		return "lenient"
	default:
		return fmt.Sprintf("SchemaPolicy(%d)", int(p))
	}
}

// ParseSchemaPolicy converts "strict" or "lenient" to a SchemaPolicy.
func ParseSchemaPolicy(s string) (SchemaPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return SchemaStrict, nil
	case "lenient":
		return SchemaLenient, nil
	default:
		return SchemaStrict, errors.NewValidationError("schema", "must be strict or lenient", s)
	}
}

// Curve is an immutable pair of index-aligned sequences: recall[i] and
// precision[i] come from the same source row.
type Curve struct {
	recall    []float64
	precision []float64
}

// New builds a Curve from copies of recall and precision, which must have
// the same length.
func New(recall, precision []float64) (*Curve, error) {
	if len(recall) != len(precision) {
		return nil, errors.NewValidationError("precision",
			fmt.Sprintf("length must match recall (%d)", len(recall)), len(precision))
	}
	return &Curve{
		recall:    append([]float64(nil), recall...),
		precision: append([]float64(nil), precision...),
	}, nil
}

// Len returns the number of rows. It also satisfies plotter.XYer.
func (c *Curve) Len() int { return len(c.recall) }

// XY returns row i as (recall, precision), i.e. the plot's (x, y).
func (c *Curve) XY(i int) (x, y float64) { return c.recall[i], c.precision[i] }

// Recall returns a copy of the recall sequence.
func (c *Curve) Recall() []float64 { return append([]float64(nil), c.recall...) }

// Precision returns a copy of the precision sequence.
func (c *Curve) Precision() []float64 { return append([]float64(nil), c.precision...) }

// Summary describes the extent of a curve. Ranges ignore missing (NaN)
// values and are NaN when a column has no finite value.
type Summary struct {
	Rows         int
	RecallMin    float64
	RecallMax    float64
	PrecisionMin float64
	PrecisionMax float64
}

// Summary returns the row count and per-column value ranges.
func (c *Curve) Summary() Summary {
	rMin, rMax := extent(c.recall)
	pMin, pMax := extent(c.precision)
	return Summary{
		Rows:         c.Len(),
		RecallMin:    rMin,
		RecallMax:    rMax,
		PrecisionMin: pMin,
		PrecisionMax: pMax,
	}
}

func extent(values []float64) (lo, hi float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(finite), floats.Max(finite)
}
