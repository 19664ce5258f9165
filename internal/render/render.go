// Package render turns routes into drawing primitives. It never touches a
// drawing surface; callers replay the primitives onto a canvas, an SVG path
// or anything else implementing Surface.
package render

import (
	"math"

	"github.com/playdrawer/backend/internal/routes"
)

// Op is the kind of a drawing primitive.
type Op string

const (
	OpMoveTo Op = "moveTo"
	OpLineTo Op = "lineTo"
	OpQuadTo Op = "quadraticCurveTo"
	OpStroke Op = "stroke"
)

// ArrowSpread is the angle between each arrowhead wing and the route direction.
const ArrowSpread = math.Pi / 6

// ArrowLengthFactor scales the stroke width into the arrowhead wing length.
const ArrowLengthFactor = 4

// Point is a position in pixel space; y grows downward.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Style is the stroke applied to a rendered route.
type Style struct {
	Width float64 `json:"width" msgpack:"width"`
	Color string  `json:"color" msgpack:"color"`
}

// Stroke defaults, used when no style or a partial one is given.
const (
	DefaultWidth = 6
	DefaultColor = "#0074e8"
)

// DefaultStyle returns the stroke used when none is given.
func DefaultStyle() Style {
	return Style{Width: DefaultWidth, Color: DefaultColor}
}

// Primitive is one drawing instruction. Control is set for OpQuadTo only and
// Style for OpStroke only.
type Primitive struct {
	Op      Op     `json:"op" msgpack:"op"`
	To      Point  `json:"to" msgpack:"to"`
	Control *Point `json:"control,omitempty" msgpack:"control,omitempty"`
	Style   *Style `json:"style,omitempty" msgpack:"style,omitempty"`
}

// Resolve fills the zero fields of s from the defaults.
func (s *Style) Resolve() Style {
	out := DefaultStyle()
	if s == nil {
		return out
	}
	if s.Width > 0 {
		out.Width = s.Width
	}
	if s.Color != "" {
		out.Color = s.Color
	}
	return out
}

// Render produces the primitives for route drawn from start, scale pixels per
// yard. Moves map to segments in order, followed by a two-stroke arrowhead at
// the final position and a single stroke.
func Render(route routes.Route, scale float64, start Point, style *Style) []Primitive {
	st := style.Resolve()

	prims := make([]Primitive, 0, len(route.Moves)+6)
	prims = append(prims, Primitive{Op: OpMoveTo, To: start})

	pos, prev := start, start
	for _, m := range route.Moves {
		next := pos
		if m.X != nil {
			next.X += *m.X * scale
		}
		if m.Y != nil {
			next.Y -= *m.Y * scale
		}

		if m.Quad != nil {
			control := Point{
				X: next.X - m.Quad.X*scale,
				Y: next.Y - m.Quad.Y*scale,
			}
			prims = append(prims, Primitive{Op: OpQuadTo, To: next, Control: &control})
		} else {
			prims = append(prims, Primitive{Op: OpLineTo, To: next})
		}

		prev, pos = pos, next
	}

	prims = append(prims, arrowhead(prev, pos, st.Width)...)
	prims = append(prims, Primitive{Op: OpStroke, Style: &st})
	return prims
}

// arrowhead draws two wings meeting at tip. The angle is measured from the
// vertical axis, atan2(dx, dy), because routes run up-field.
func arrowhead(prev, tip Point, width float64) []Primitive {
	angle := math.Atan2(prev.X-tip.X, prev.Y-tip.Y) + math.Pi
	length := ArrowLengthFactor * width

	wing := func(a float64) Point {
		return Point{
			X: tip.X - length*math.Sin(a),
			Y: tip.Y - length*math.Cos(a),
		}
	}

	return []Primitive{
		{Op: OpMoveTo, To: wing(angle - ArrowSpread)},
		{Op: OpLineTo, To: tip},
		{Op: OpMoveTo, To: wing(angle + ArrowSpread)},
		{Op: OpLineTo, To: tip},
	}
}

// arrowPrimitives is the number of primitives arrowhead emits.
const arrowPrimitives = 4

// Segments returns the per-move primitives of a Render result, dropping the
// leading move-to, the arrowhead and the stroke.
func Segments(prims []Primitive) []Primitive {
	end := len(prims) - arrowPrimitives - 1
	if end < 1 {
		return nil
	}
	return prims[1:end]
}

// End returns the final pen position of a Render result.
func End(prims []Primitive) (Point, bool) {
	segs := Segments(prims)
	if len(segs) == 0 {
		if len(prims) == 0 {
			return Point{}, false
		}
		return prims[0].To, true
	}
	return segs[len(segs)-1].To, true
}
