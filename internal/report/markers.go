package report

import (
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Shape is a marker shape.
type Shape int

const (
	Circle Shape = iota
	Ring
	Square
	Triangle
	Nabla
	Diamond
	Plus
	Cross
)

var shapeNames = map[Shape]string{
	Circle:   "circle",
	Ring:     "ring",
	Square:   "square",
	Triangle: "triangle",
	Nabla:    "nabla",
	Diamond:  "diamond",
	Plus:     "plus",
	Cross:    "cross",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "circle"
}

// ParseShape accepts a matplotlib marker code ("o", "s", "^", "v", "D", "+",
// "x") or a shape name.
func ParseShape(code string) (Shape, bool) {
	switch code {
	case "o":
		return Circle, true
	case "s":
		return Square, true
	case "^":
		return Triangle, true
	case "v":
		return Nabla, true
	case "D", "d":
		return Diamond, true
	case "+":
		return Plus, true
	case "x":
		return Cross, true
	}
	code = strings.ToLower(strings.TrimSpace(code))
	for shape, name := range shapeNames {
		if name == code {
			return shape, true
		}
	}
	return Circle, false
}

// ShapeFor returns the shape of series i, or Circle when shapes has no entry
// for it.
func ShapeFor(shapes []Shape, i int) Shape {
	if i < len(shapes) {
		return shapes[i]
	}
	return Circle
}

func glyphFor(s Shape) draw.GlyphDrawer {
	switch s {
	case Ring:
		return draw.RingGlyph{}
	case Square:
		return draw.BoxGlyph{}
	case Triangle:
		return draw.PyramidGlyph{}
	case Nabla:
		return nablaGlyph{}
	case Diamond:
		return diamondGlyph{}
	case Plus:
		return draw.PlusGlyph{}
	case Cross:
		return draw.CrossGlyph{}
	}
	return draw.CircleGlyph{}
}

// nablaGlyph is a filled, downward pointing triangle.
type nablaGlyph struct{}

func (nablaGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetColor(sty.Color)
	r := sty.Radius
	var p vg.Path
	p.Move(vg.Point{X: pt.X, Y: pt.Y - r})
	p.Line(vg.Point{X: pt.X - r*0.866, Y: pt.Y + r*0.5})
	p.Line(vg.Point{X: pt.X + r*0.866, Y: pt.Y + r*0.5})
	p.Close()
	c.Fill(p)
}

// diamondGlyph is a filled square standing on a corner.
type diamondGlyph struct{}

func (diamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetColor(sty.Color)
	r := sty.Radius
	var p vg.Path
	p.Move(vg.Point{X: pt.X, Y: pt.Y + r})
	p.Line(vg.Point{X: pt.X + r, Y: pt.Y})
	p.Line(vg.Point{X: pt.X, Y: pt.Y - r})
	p.Line(vg.Point{X: pt.X - r, Y: pt.Y})
	p.Close()
	c.Fill(p)
}
