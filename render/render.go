// Package render draws assembled series as precision-recall figures with
// gonum/plot and writes them to disk.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/YuminosukeSato/prcurve/curve"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/pkg/log"
	"github.com/YuminosukeSato/prcurve/series"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// Formats lists the accepted Options.Format values.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF}

// Bounds fixes the axis ranges instead of letting gonum/plot fit the data.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Options controls the look and encoding of one figure.
type Options struct {
	Width, Height vg.Length
	DPI           int
	Format        string

	XLabel, YLabel string
	LineWidth      vg.Length
	MarkerRadius   vg.Length
	Grid           bool
	Bounds         *Bounds
}

// DefaultOptions returns the combined-figure defaults: 12x8 in at 300 DPI.
func DefaultOptions() Options {
	return Options{
		Width:        12 * vg.Inch,
		Height:       8 * vg.Inch,
		DPI:          300,
		Format:       FormatPNG,
		XLabel:       curve.ColumnRecall,
		YLabel:       curve.ColumnPrecision,
		LineWidth:    vg.Points(2),
		MarkerRadius: vg.Points(3),
		Grid:         true,
	}
}

// FamilyOptions returns the per-family defaults, which only differ from
// DefaultOptions in size: 10x6 in.
func FamilyOptions() Options {
	o := DefaultOptions()
	o.Width = 10 * vg.Inch
	o.Height = 6 * vg.Inch
	return o
}

// Validate checks the size, resolution and format.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.NewValidationError("size", "width and height must be positive",
			fmt.Sprintf("%vx%v", o.Width, o.Height))
	}
	if o.DPI <= 0 {
		return errors.NewValidationError("dpi", "must be positive", o.DPI)
	}
	if !IsFormat(o.Format) {
		return errors.NewValidationError("format", "must be one of "+strings.Join(Formats, ", "), o.Format)
	}
	return nil
}

// IsFormat reports whether format is a supported output format.
func IsFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Figure builds one plot with a line per series, x=recall and y=precision.
// Legend entries follow the order of ss. Any NaN or Inf fails with a
// *errors.NonFiniteValueError before anything is drawn.
func Figure(title string, ss []series.Series, opts Options) (*plot.Plot, error) {
	for _, s := range ss {
		if err := errors.CheckFinite(s.Label, curve.ColumnRecall, s.Curve.Recall()); err != nil {
			return nil, err
		}
		if err := errors.CheckFinite(s.Label, curve.ColumnPrecision, s.Curve.Precision()); err != nil {
			return nil, err
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	if opts.Grid {
		p.Add(plotter.NewGrid())
	}
	if b := opts.Bounds; b != nil {
		p.X.Min, p.X.Max = b.XMin, b.XMax
		p.Y.Min, p.Y.Max = b.YMin, b.YMax
	}
	p.Legend.Top = false
	p.Legend.Left = true

	for _, s := range ss {
		glyph := glyphFor(s.Style.Marker)
		if glyph == nil {
			line, err := plotter.NewLine(s)
			if err != nil {
				return nil, errors.Wrapf(err, "series %s", s.Label)
			}
			line.LineStyle.Color = s.Style.Color
			line.LineStyle.Width = opts.LineWidth
			p.Add(line)
			p.Legend.Add(s.Label, line)
			continue
		}

		line, points, err := plotter.NewLinePoints(s)
		if err != nil {
			return nil, errors.Wrapf(err, "series %s", s.Label)
		}
		line.LineStyle.Color = s.Style.Color
		line.LineStyle.Width = opts.LineWidth
		points.GlyphStyle = draw.GlyphStyle{
			Color:  s.Style.Color,
			Radius: opts.MarkerRadius,
			Shape:  glyph,
		}
		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}
	return p, nil
}

// Encode writes p to w in opts.Format. PNG output is rasterized at opts.DPI.
func Encode(w io.Writer, p *plot.Plot, opts Options) error {
	if opts.Format == FormatPNG {
		c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
		p.Draw(draw.New(c))
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Layout names the figures a Renderer writes and how each kind looks.
type Layout struct {
	Dir          string
	AllName      string
	FamilyPrefix string
	AllTitle     string
	// FamilyTitle is a format string receiving the family name.
	FamilyTitle string
	All         Options
	Family      Options
}

// DefaultLayout writes Figure_All_Models and Figure_<family> into the
// working directory.
func DefaultLayout() Layout {
	return Layout{
		Dir:          ".",
		AllName:      "Figure_All_Models",
		FamilyPrefix: "Figure_",
		AllTitle:     "Combined precision-recall curves for all models",
		FamilyTitle:  "Precision-recall curves for model %s",
		All:          DefaultOptions(),
		Family:       FamilyOptions(),
	}
}

// Renderer writes figures for assembled series.
type Renderer struct {
	layout Layout
	logger log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer's logger.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a Renderer for layout.
func NewRenderer(layout Layout, opts ...Option) *Renderer {
	r := &Renderer{layout: layout, logger: log.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout returns the renderer's layout.
func (r *Renderer) Layout() Layout { return r.layout }

// RenderAll writes the combined figure of every series and returns its path.
func (r *Renderer) RenderAll(ss []series.Series) (string, error) {
	return r.render(r.layout.AllName, r.layout.AllTitle, ss, r.layout.All)
}

// RenderFamily writes the figure of one family. Series keep the colors and
// markers assigned for the whole catalog.
func (r *Renderer) RenderFamily(ss []series.Series, family string) (string, error) {
	members := series.Filter(ss, family)
	if len(members) == 0 {
		return "", errors.NewConfigurationError("", family, "no series in family")
	}
	return r.render(r.layout.FamilyPrefix+family, fmt.Sprintf(r.layout.FamilyTitle, family), members, r.layout.Family)
}

// RenderRun writes the combined figure, then one figure per family in
// first-appearance order. It stops at the first failure; figures written
// before it stay on disk.
func (r *Renderer) RenderRun(ss []series.Series) ([]string, error) {
	path, err := r.RenderAll(ss)
	if err != nil {
		return nil, err
	}
	paths := []string{path}
	for _, family := range series.Families(ss) {
		path, err := r.RenderFamily(ss, family)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Renderer) render(name, title string, ss []series.Series, opts Options) (string, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return "", err
	}
	path := filepath.Join(r.layout.Dir, name+"."+opts.Format)

	p, err := Figure(title, ss, opts)
	if err != nil {
		return "", err
	}
	err = errors.SafeExecute("draw "+name, func() error {
		return writeAtomic(path, func(w io.Writer) error { return Encode(w, p, opts) })
	})
	if err != nil {
		r.logger.Error("Figure failed", err, log.FigurePathKey, path)
		return "", err
	}

	r.logger.Info("Figure written",
		log.FigurePathKey, path,
		log.FigureSeriesKey, len(ss),
		log.FigureFormatKey, opts.Format,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return path, nil
}

// writeAtomic encodes into a temp file next to path and renames it into
// place, so path either holds a complete image or is left untouched.
func writeAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.NewIOError("create", path, err)
	}
	committed := false
	defer func() {
		// Also runs while a panic from encode unwinds.
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := encode(tmp); err != nil {
		return errors.NewIOError("encode", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewIOError("write", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.NewIOError("rename", path, err)
	}
	committed = true
	return nil
}
