package render

import (
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/prcurve/style"
)

// diamondGlyph is a square rotated by 45 degrees.
type diamondGlyph struct{}

func (diamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetColor(sty.Color)
	r := sty.Radius * 1.2
	var p vg.Path
	p.Move(vg.Point{X: pt.X, Y: pt.Y + r})
	p.Line(vg.Point{X: pt.X + r, Y: pt.Y})
	p.Line(vg.Point{X: pt.X, Y: pt.Y - r})
	p.Line(vg.Point{X: pt.X - r, Y: pt.Y})
	p.Close()
	c.Fill(p)
}

// triangleDownGlyph mirrors draw.PyramidGlyph about the horizontal axis.
type triangleDownGlyph struct{}

const (
	cos30 = 0.8660254037844386
	sin30 = 0.5
)

func (triangleDownGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetColor(sty.Color)
	r := sty.Radius + (sty.Radius-sty.Radius*sin30)/2
	var p vg.Path
	p.Move(vg.Point{X: pt.X, Y: pt.Y - r})
	p.Line(vg.Point{X: pt.X - r*cos30, Y: pt.Y + r*sin30})
	p.Line(vg.Point{X: pt.X + r*cos30, Y: pt.Y + r*sin30})
	p.Close()
	c.Fill(p)
}

// glyphFor returns the drawer for m, or nil for style.MarkerNone.
func glyphFor(m style.Marker) draw.GlyphDrawer {
	switch m {
	case style.Circle:
		return draw.CircleGlyph{}
	case style.Square:
		return draw.SquareGlyph{}
	case style.Diamond:
		return diamondGlyph{}
	case style.TriangleUp:
		return draw.PyramidGlyph{}
	case style.TriangleDown:
		return triangleDownGlyph{}
	default:
		return nil
	}
}
