// Package series assembles a catalog into an ordered list of styled,
// plottable curves.
//
// Assembly resolves every label's family and style before touching any file,
// then loads the sources and emits one Series per catalog entry in catalog
// order. Any failure aborts the whole assembly; no partial list is returned.
package series

import (
	"time"

	"github.com/YuminosukeSato/prcurve/catalog"
	"github.com/YuminosukeSato/prcurve/core/parallel"
	"github.com/YuminosukeSato/prcurve/curve"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/pkg/log"
	"github.com/YuminosukeSato/prcurve/style"
)

// Series is one renderable curve: a label, its (recall, precision) data and
// its assigned style. It satisfies plotter.XYer with x=recall, y=precision.
type Series struct {
	Label  string
	Family string
	// Index is the label's position in the whole catalog.
	Index int
	Curve *curve.Curve
	Style style.Style
}

// Len returns the number of points.
func (s Series) Len() int { return s.Curve.Len() }

// XY returns point i as (recall, precision).
func (s Series) XY(i int) (x, y float64) { return s.Curve.XY(i) }

// Loader loads one curve source.
type Loader interface {
	Load(path string) (*curve.Curve, error)
}

// Assembler turns a catalog into series.
type Assembler struct {
	loader  Loader
	styler  *style.Styler
	logger  log.Logger
	workers int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the assembler's logger.
func WithLogger(logger log.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithWorkers sets how many sources are loaded concurrently. Values below 1
// are treated as 1. Output order does not depend on it.
func WithWorkers(n int) Option {
	return func(a *Assembler) {
		if n < 1 {
			n = 1
		}
		a.workers = n
	}
}

// NewAssembler creates an Assembler. Loads are sequential unless WithWorkers
// says otherwise.
func NewAssembler(loader Loader, styler *style.Styler, opts ...Option) *Assembler {
	a := &Assembler{loader: loader, styler: styler, logger: log.Nop(), workers: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble loads and styles every catalog entry.
//
// Families are checked for the whole catalog before the first load: the
// first label in catalog order whose family has no ramp fails with a
// *errors.ConfigurationError and no source is opened. After that, the load
// error of the lowest catalog index, if any, is returned.
func (a *Assembler) Assemble(cat *catalog.Catalog) ([]Series, error) {
	start := time.Now()
	entries := cat.Entries()
	out := make([]Series, len(entries))

	for i, e := range entries {
		family := catalog.FamilyOf(e.Label)
		if !a.styler.Has(family) {
			return nil, errors.NewConfigurationError(e.Label, family, "no color ramp registered for family")
		}
		st, err := a.styler.Assign(family, i)
		if err != nil {
			return nil, err
		}
		out[i] = Series{Label: e.Label, Family: family, Index: i, Style: st}
	}

	loadErrs := make([]error, len(entries))
	parallel.ForEach(len(entries), a.workers, func(i int) {
		c, err := a.loader.Load(entries[i].Path)
		if err != nil {
			loadErrs[i] = err
			return
		}
		out[i].Curve = c
	})
	for i, err := range loadErrs {
		if err != nil {
			a.logger.Error("Source failed to load", err,
				log.LabelKey, entries[i].Label,
				log.SourcePathKey, entries[i].Path,
			)
			return nil, errors.Wrapf(err, "series %s", entries[i].Label)
		}
	}

	for _, s := range out {
		a.logger.Debug("Series assembled",
			log.LabelKey, s.Label,
			log.FamilyKey, s.Family,
			log.IndexKey, s.Index,
			log.CoordKey, s.Style.Coord,
			log.ColorKey, s.Style.Hex(),
			log.MarkerKey, s.Style.Marker.String(),
			log.RowsKey, s.Len(),
		)
	}
	a.logger.Info("Catalog assembled",
		log.CatalogSizeKey, len(out),
		log.WorkersKey, a.workers,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Filter returns the series whose family is family, keeping their order and
// their catalog-wide styles.
func Filter(all []Series, family string) []Series {
	var out []Series
	for _, s := range all {
		if s.Family == family {
			out = append(out, s)
		}
	}
	return out
}

// Families returns the distinct families of all in first-appearance order.
func Families(all []Series) []string {
	seen := make(map[string]bool)
	var families []string
	for _, s := range all {
		if !seen[s.Family] {
			seen[s.Family] = true
			families = append(families, s.Family)
		}
	}
	return families
}
