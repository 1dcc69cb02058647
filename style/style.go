package style

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/YuminosukeSato/prcurve/pkg/errors"
)

// Coordinate rule: t = CoordBase + CoordStep*(index mod Period).
const (
	CoordBase = 0.2
	CoordStep = 0.15
	Period    = 5
)

// Marker is a point glyph drawn at each data row of a series.
type Marker int

const (
	MarkerNone Marker = iota
	Circle
	Square
	Diamond
	TriangleUp
	TriangleDown
)

var markerNames = map[Marker]string{
	MarkerNone:   "none",
	Circle:       "circle",
	Square:       "square",
	Diamond:      "diamond",
	TriangleUp:   "triangle-up",
	TriangleDown: "triangle-down",
}

func (m Marker) String() string {
	if n, ok := markerNames[m]; ok {
		return n
	}
	return "unknown"
}

// markerCycle is indexed by index mod Period.
var markerCycle = [Period]Marker{Circle, Square, Diamond, TriangleUp, TriangleDown}

// Coordinate returns the ramp coordinate for a global catalog index.
func Coordinate(index int) float64 {
	return CoordBase + CoordStep*float64(mod(index))
}

// MarkerAt returns the palette marker for a global catalog index.
func MarkerAt(index int) Marker {
	return markerCycle[mod(index)]
}

func mod(index int) int {
	m := index % Period
	if m < 0 {
		m += Period
	}
	return m
}

// Style is the color and marker assigned to one series.
type Style struct {
	Color  colorful.Color
	Marker Marker
	// Coord is the ramp coordinate Color was taken at.
	Coord float64
}

// Hex returns the color as "#rrggbb".
func (s Style) Hex() string { return s.Color.Hex() }

// Styler maps (family, index) to a Style. It is immutable once built.
type Styler struct {
	ramps      map[string]Ramp
	useMarkers bool
}

// NewStyler copies the family -> ramp table.
func NewStyler(ramps map[string]Ramp, useMarkers bool) *Styler {
	table := make(map[string]Ramp, len(ramps))
	for family, r := range ramps {
		table[family] = r
	}
	return &Styler{ramps: table, useMarkers: useMarkers}
}

// Has reports whether family has a registered ramp.
func (s *Styler) Has(family string) bool {
	_, ok := s.ramps[family]
	return ok
}

// Ramp returns the ramp registered for family.
func (s *Styler) Ramp(family string) (Ramp, bool) {
	r, ok := s.ramps[family]
	return r, ok
}

// Families returns the registered families, sorted.
func (s *Styler) Families() []string {
	families := make([]string, 0, len(s.ramps))
	for f := range s.ramps {
		families = append(families, f)
	}
	sort.Strings(families)
	return families
}

// UseMarkers reports whether Assign hands out markers.
func (s *Styler) UseMarkers() bool { return s.useMarkers }

// Assign returns the style of the entry at global catalog position index
// whose family is family. index is the position in the whole catalog, not
// within the family.
func (s *Styler) Assign(family string, index int) (Style, error) {
	r, ok := s.ramps[family]
	if !ok {
		return Style{}, errors.NewConfigurationError("", family, "no color ramp registered")
	}
	t := Coordinate(index)
	st := Style{Color: r.At(t), Marker: MarkerNone, Coord: t}
	if s.useMarkers {
		st.Marker = MarkerAt(index)
	}
	return st, nil
}
