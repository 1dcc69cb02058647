// Package log defines standard attribute keys for prcurve operations.
//
// Keys follow a dotted, hierarchical naming convention (e.g. "catalog.label",
// "data.rows") so log lines from the loader, assembler and renderer can be
// filtered on the same fields.

package log

// Catalog and series context.
const (
	// RunIDKey identifies one render or inspect invocation.
	RunIDKey = "run.id"

	// ComponentKey identifies which package is logging.
	// Examples: "curve", "series", "render", "cli"
	ComponentKey = "component"

	// LabelKey is the catalog label of a curve, e.g. "KNN_GFD".
	LabelKey = "catalog.label"

	// FamilyKey is the family derived from a label, e.g. "KNN".
	FamilyKey = "catalog.family"

	// IndexKey is the 0-based position of a label in the whole catalog.
	IndexKey = "catalog.index"

	// CatalogSizeKey is the number of entries in a catalog.
	CatalogSizeKey = "catalog.size"
)

// Source and data shape.
const (
	// SourcePathKey is the location of a tabular source.
	SourcePathKey = "source.path"

	// SchemaPolicyKey is "strict" or "lenient".
	SchemaPolicyKey = "schema.policy"

	// RowsKey is the number of data rows read from a source.
	RowsKey = "data.rows"

	// ColumnsKey lists the header columns of a source.
	ColumnsKey = "data.columns"
)

// Styling.
const (
	// CoordKey is the color-ramp coordinate assigned to a series.
	CoordKey = "style.coord"

	// ColorKey is the hex color assigned to a series.
	ColorKey = "style.color"

	// MarkerKey is the marker glyph assigned to a series.
	MarkerKey = "style.marker"
)

// Figures and output.
const (
	// FigurePathKey is the image file a figure is written to.
	FigurePathKey = "figure.path"

	// FigureSeriesKey is the number of series drawn on a figure.
	FigureSeriesKey = "figure.series"

	// FigureFormatKey is the image format, e.g. "png".
	FigureFormatKey = "figure.format"

	// WorkersKey is the number of concurrent source loads.
	WorkersKey = "perf.workers"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorKey holds the error message.
	ErrorKey = "error"

	// ErrorTypeKey categorizes the error, e.g. "SchemaError".
	ErrorTypeKey = "error.type"

	// StacktraceKey contains the cockroachdb/errors stack trace, if any.
	StacktraceKey = "error.stacktrace"
)
