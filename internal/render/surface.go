package render

// Surface is a 2D drawing target, shaped after the browser canvas context.
type Surface interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cx, cy, x, y float64)
	Stroke(style Style)
}

// Replay draws prims onto s in order.
func Replay(s Surface, prims []Primitive) {
	for _, p := range prims {
		switch p.Op {
		case OpMoveTo:
			s.MoveTo(p.To.X, p.To.Y)
		case OpLineTo:
			s.LineTo(p.To.X, p.To.Y)
		case OpQuadTo:
			c := p.To
			if p.Control != nil {
				c = *p.Control
			}
			s.QuadraticCurveTo(c.X, c.Y, p.To.X, p.To.Y)
		case OpStroke:
			s.Stroke(p.Style.Resolve())
		}
	}
}
