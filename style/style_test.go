package style

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/prcurve/pkg/errors"
)

func TestCoordinate(t *testing.T) {
	want := []float64{0.2, 0.35, 0.5, 0.65, 0.8, 0.2, 0.35}
	for i, w := range want {
		assert.InDeltaf(t, w, Coordinate(i), 1e-12, "index %d", i)
	}
}

func TestMarkerCycle(t *testing.T) {
	want := []Marker{Circle, Square, Diamond, TriangleUp, TriangleDown, Circle}
	for i, w := range want {
		assert.Equalf(t, w, MarkerAt(i), "index %d", i)
	}
	assert.Equal(t, MarkerAt(0), MarkerAt(5))
	assert.Equal(t, "triangle-down", TriangleDown.String())
}

func TestParseRamp(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"blues", false},
		{"Purples", false},
		{"tab:orange", false},
		{"#1f77b4", false},
		{"viridis", true},
		{"#zzzzzz", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := ParseRamp(tt.spec)
			if tt.wantErr {
				var valErr *errors.ValidationError
				assert.True(t, errors.As(err, &valErr), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRampAt(t *testing.T) {
	blues, err := ParseRamp("blues")
	require.NoError(t, err)

	// Ends of the ramp are the first and last stops.
	assert.Equal(t, "#f7fbff", blues.At(0).Hex())
	assert.Equal(t, "#08306b", blues.At(1).Hex())
	assert.Equal(t, blues.At(0).Hex(), blues.At(-3).Hex(), "clamped below")
	assert.Equal(t, blues.At(1).Hex(), blues.At(7).Hex(), "clamped above")
	assert.Equal(t, blues.At(0).Hex(), blues.At(math.NaN()).Hex())

	// Darker as t grows.
	prev := 101.0
	for i := 0; i < Period; i++ {
		l, _, _ := blues.At(Coordinate(i)).Lab()
		assert.Less(t, l*100, prev)
		prev = l * 100
	}

	flat, err := ParseRamp("tab:green")
	require.NoError(t, err)
	assert.Equal(t, "#2ca02c", flat.At(0.2).Hex())
	assert.Equal(t, "#2ca02c", flat.At(0.8).Hex())
}

func TestNewRampNeedsStops(t *testing.T) {
	_, err := NewRamp("empty")
	assert.Error(t, err)
}

func testStyler(t *testing.T, markers bool) *Styler {
	t.Helper()
	a, err := ParseRamp("blues")
	require.NoError(t, err)
	b, err := ParseRamp("reds")
	require.NoError(t, err)
	return NewStyler(map[string]Ramp{"A": a, "B": b}, markers)
}

func TestStylerAssign(t *testing.T) {
	s := testStyler(t, true)

	ax, err := s.Assign("A", 0)
	require.NoError(t, err)
	ay, err := s.Assign("A", 1)
	require.NoError(t, err)
	bx, err := s.Assign("B", 2)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, ax.Coord, 1e-12)
	assert.InDelta(t, 0.35, ay.Coord, 1e-12)
	assert.InDelta(t, 0.5, bx.Coord, 1e-12)
	assert.NotEqual(t, ax.Hex(), ay.Hex())

	blues, _ := s.Ramp("A")
	reds, _ := s.Ramp("B")
	assert.Equal(t, blues.At(0.2).Hex(), ax.Hex())
	assert.Equal(t, reds.At(0.5).Hex(), bx.Hex())

	assert.Equal(t, Circle, ax.Marker)
	assert.Equal(t, Square, ay.Marker)
	assert.Equal(t, Diamond, bx.Marker)
}

func TestStylerWithoutMarkers(t *testing.T) {
	s := testStyler(t, false)
	st, err := s.Assign("B", 3)
	require.NoError(t, err)
	assert.Equal(t, MarkerNone, st.Marker)
	assert.False(t, s.UseMarkers())
}

func TestStylerUnknownFamily(t *testing.T) {
	s := testStyler(t, true)
	_, err := s.Assign("RF", 0)
	var cfgErr *errors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "RF", cfgErr.Family)
	assert.False(t, s.Has("RF"))
	assert.Equal(t, []string{"A", "B"}, s.Families())
}

func TestStylerIsImmutable(t *testing.T) {
	a, err := ParseRamp("greens")
	require.NoError(t, err)
	table := map[string]Ramp{"A": a}
	s := NewStyler(table, true)
	delete(table, "A")
	assert.True(t, s.Has("A"))
}

func TestWithinFamilyPairsDistinct(t *testing.T) {
	s := testStyler(t, true)
	seen := make(map[string]bool)
	for i := 0; i < Period; i++ {
		st, err := s.Assign("A", i)
		require.NoError(t, err)
		key := st.Hex() + "/" + st.Marker.String()
		assert.False(t, seen[key], "duplicate style %s", key)
		seen[key] = true
	}
}
