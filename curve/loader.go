package curve

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/pkg/log"
)

const utf8BOM = "\ufeff"

// Loader reads Curves from CSV files under a fixed SchemaPolicy.
type Loader struct {
	policy SchemaPolicy
	logger log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for per-source debug records.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader for the given policy.
func NewLoader(policy SchemaPolicy, opts ...Option) *Loader {
	l := &Loader{policy: policy, logger: log.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the schema policy the loader enforces.
func (l *Loader) Policy() SchemaPolicy { return l.policy }

// Load opens path and reads it as a curve source.
//
// It fails with a *errors.SchemaError when the header does not satisfy the
// loader's policy, and with a *errors.IOError when the file cannot be opened
// or is not well-formed CSV. Both errors name path.
func (l *Loader) Load(path string) (*Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("open", path, err)
	}
	defer f.Close()

	return l.Read(path, f)
}

// Read parses a curve source from r. source is only used in errors and logs.
func (l *Loader) Read(source string, r io.Reader) (*Curve, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewIOError("parse", source, errors.ErrMissingHeader)
	}
	if err != nil {
		return nil, errors.NewIOError("parse", source, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	// The header is settled before any data row is touched.
	recallIdx, precisionIdx, err := l.resolveColumns(source, header)
	if err != nil {
		return nil, err
	}

	var recall, precision []float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIOError("parse", source, err)
		}

		rv, err := parseValue(cr, record, recallIdx, ColumnRecall)
		if err != nil {
			return nil, errors.NewIOError("parse", source, err)
		}
		pv, err := parseValue(cr, record, precisionIdx, ColumnPrecision)
		if err != nil {
			return nil, errors.NewIOError("parse", source, err)
		}
		recall = append(recall, rv)
		precision = append(precision, pv)
	}

	l.logger.Debug("Curve loaded",
		log.SourcePathKey, source,
		log.SchemaPolicyKey, l.policy.String(),
		log.ColumnsKey, header,
		log.RowsKey, len(recall),
	)
	return &Curve{recall: recall, precision: precision}, nil
}

// resolveColumns checks the header against the policy and returns the
// positions of the Recall and Precision columns.
func (l *Loader) resolveColumns(source string, header []string) (recallIdx, precisionIdx int, err error) {
	recallIdx, precisionIdx = -1, -1
	var extra []string
	for i, name := range header {
		switch {
		case name == ColumnRecall && recallIdx < 0:
			recallIdx = i
		case name == ColumnPrecision && precisionIdx < 0:
			precisionIdx = i
		default:
			// Anything else, including a repeated required column.
			extra = append(extra, name)
		}
	}

	var missing []string
	if precisionIdx < 0 {
		missing = append(missing, ColumnPrecision)
	}
	if recallIdx < 0 {
		missing = append(missing, ColumnRecall)
	}

	switch l.policy {
	case SchemaLenient:
		if len(missing) > 0 {
			return -1, -1, errors.NewSchemaError(source, l.policy.String(), missing, nil)
		}
		if len(extra) > 0 {
			errors.Warn(errors.NewIgnoredColumnsWarning(source, extra))
		}
	default:
		if len(missing) > 0 || len(extra) > 0 {
			return -1, -1, errors.NewSchemaError(source, l.policy.String(), missing, extra)
		}
	}
	return recallIdx, precisionIdx, nil
}

// parseValue reads column idx of record. An empty cell is a missing value
// and becomes NaN.
func parseValue(cr *csv.Reader, record []string, idx int, column string) (float64, error) {
	raw := strings.TrimSpace(record[idx])
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		line, _ := cr.FieldPos(idx)
		return 0, errors.Wrapf(errors.ErrMalformedValue, "line %d, column %s: %q", line, column, raw)
	}
	return v, nil
}

// Read parses a curve source from r with a default Loader for policy.
func Read(source string, r io.Reader, policy SchemaPolicy) (*Curve, error) {
	return NewLoader(policy).Read(source, r)
}
