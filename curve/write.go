package curve

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/YuminosukeSato/prcurve/pkg/errors"
)

// Write writes c as a Precision,Recall CSV. Values use the shortest
// representation that parses back to the same float64, so Read(Write(c))
// reproduces c.
func Write(w io.Writer, c *Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnPrecision, ColumnRecall}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i := 0; i < c.Len(); i++ {
		row := []string{
			strconv.FormatFloat(c.precision[i], 'g', -1, 64),
			strconv.FormatFloat(c.recall[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush")
}
