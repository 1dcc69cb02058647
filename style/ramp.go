// Package style assigns deterministic colors and markers to catalog entries.
//
// Each family owns a color ramp. A label at global catalog index i is drawn
// at ramp coordinate 0.2 + 0.15*(i mod 5) with marker i mod 5 of a fixed
// palette, so hues and markers repeat every five entries.
package style

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/YuminosukeSato/prcurve/pkg/errors"
)

// lutSize matches the 256-entry lookup table matplotlib samples its
// colormaps on, so ramp colors land on the same entries.
const lutSize = 256

// Ramp is an ordered color gradient over [0, 1] built from evenly spaced
// stops. A ramp with a single stop is a flat color.
type Ramp struct {
	name  string
	stops []colorful.Color
}

// NewRamp creates a ramp from one or more stops, first stop at t=0.
func NewRamp(name string, stops ...color.Color) (Ramp, error) {
	if len(stops) == 0 {
		return Ramp{}, errors.NewValidationError("ramp."+name, "needs at least one color stop", 0)
	}
	r := Ramp{name: name, stops: make([]colorful.Color, len(stops))}
	for i, s := range stops {
		c, ok := colorful.MakeColor(s)
		if !ok {
			return Ramp{}, errors.NewValidationError("ramp."+name, "fully transparent stop", i)
		}
		r.stops[i] = c
	}
	return r, nil
}

// Name returns the ramp name, e.g. "blues" or "tab:orange".
func (r Ramp) Name() string { return r.name }

// At returns the ramp color at t. t is clamped to [0, 1] and snapped to the
// 256-entry lookup grid before interpolating linearly between stops.
func (r Ramp) At(t float64) colorful.Color {
	if len(r.stops) == 1 {
		return r.stops[0]
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	idx := int(t * lutSize)
	if idx >= lutSize {
		idx = lutSize - 1
	}
	x := float64(idx) / (lutSize - 1) * float64(len(r.stops)-1)
	lo := int(x)
	if lo >= len(r.stops)-1 {
		return r.stops[len(r.stops)-1]
	}
	return r.stops[lo].BlendRgb(r.stops[lo+1], x-float64(lo)).Clamped()
}

// ColorBrewer 9-class sequential schemes, the data behind matplotlib's
// Blues, Greens, Reds... colormaps.
var sequential = map[string][]string{
	"blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"greens":  {"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"},
	"reds":    {"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"},
	"purples": {"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#54278f", "#3f007d"},
	"oranges": {"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c", "#f16913", "#d94801", "#a63603", "#7f2704"},
	"greys":   {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
}

// Tableau palette, matplotlib's "tab:" named colors.
var tableau = map[string]string{
	"tab:blue":   "#1f77b4",
	"tab:orange": "#ff7f0e",
	"tab:green":  "#2ca02c",
	"tab:red":    "#d62728",
	"tab:purple": "#9467bd",
	"tab:brown":  "#8c564b",
	"tab:pink":   "#e377c2",
	"tab:gray":   "#7f7f7f",
	"tab:olive":  "#bcbd22",
	"tab:cyan":   "#17becf",
}

// RampNames lists every named ramp and flat color ParseRamp accepts.
func RampNames() []string {
	names := make([]string, 0, len(sequential)+len(tableau))
	for n := range sequential {
		names = append(names, n)
	}
	for n := range tableau {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseRamp resolves a ramp name ("blues"), a tableau color ("tab:green")
// or a "#rrggbb" hex color (a flat ramp).
func ParseRamp(spec string) (Ramp, error) {
	key := strings.ToLower(strings.TrimSpace(spec))
	if hexes, ok := sequential[key]; ok {
		return rampFromHex(key, hexes...)
	}
	if hex, ok := tableau[key]; ok {
		return rampFromHex(key, hex)
	}
	if strings.HasPrefix(key, "#") {
		return rampFromHex(key, key)
	}
	return Ramp{}, errors.NewValidationError("ramp", fmt.Sprintf("unknown ramp; use one of %s or #rrggbb", strings.Join(RampNames(), ", ")), spec)
}

func rampFromHex(name string, hexes ...string) (Ramp, error) {
	stops := make([]color.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Ramp{}, errors.NewValidationError("ramp", "invalid hex color", h)
		}
		stops[i] = c
	}
	return NewRamp(name, stops...)
}
