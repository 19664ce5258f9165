package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PathData writes prims as the d attribute of an SVG path element. Stroke
// primitives are skipped.
func PathData(prims []Primitive) string {
	p := &pathBuilder{}
	Replay(p, prims)
	return strings.TrimSpace(p.b.String())
}

type pathBuilder struct {
	b strings.Builder
}

func (p *pathBuilder) MoveTo(x, y float64) {
	fmt.Fprintf(&p.b, "M%s %s ", num(x), num(y))
}

func (p *pathBuilder) LineTo(x, y float64) {
	fmt.Fprintf(&p.b, "L%s %s ", num(x), num(y))
}

func (p *pathBuilder) QuadraticCurveTo(cx, cy, x, y float64) {
	fmt.Fprintf(&p.b, "Q%s %s %s %s ", num(cx), num(cy), num(x), num(y))
}

func (p *pathBuilder) Stroke(Style) {}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Rect is an axis-aligned box in pixel space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mark is a labelled spot drawn on the field.
type Mark struct {
	Box   Rect
	Label string
}

// Document is a whole play drawn as SVG.
type Document struct {
	Width, Height float64
	Background    string
	Marks         []Mark
	// LineY is the y of the line of scrimmage; nil hides it.
	LineY  *float64
	Routes [][]Primitive
}

// WriteTo renders the document as a standalone SVG file.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	bg := d.Background
	if bg == "" {
		bg = "#3b7d3a"
	}

	fmt.Fprintf(cw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(d.Width), num(d.Height), num(d.Width), num(d.Height))
	fmt.Fprintf(cw, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", num(d.Width), num(d.Height), attr(bg))

	if d.LineY != nil {
		fmt.Fprintf(cw, `  <line x1="0" y1="%s" x2="%s" y2="%s" stroke="#ffffff" stroke-width="2" stroke-dasharray="8 6"/>`+"\n",
			num(*d.LineY), num(d.Width), num(*d.LineY))
	}

	for _, m := range d.Marks {
		cx := m.Box.X + m.Box.Width/2
		cy := m.Box.Y + m.Box.Height/2
		r := m.Box.Width / 3
		fmt.Fprintf(cw, `  <circle cx="%s" cy="%s" r="%s" fill="#ffffff" stroke="#222222" stroke-width="2"/>`+"\n", num(cx), num(cy), num(r))
		if m.Label != "" {
			fmt.Fprintf(cw, `  <text x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
				num(cx), num(cy), num(r), text(m.Label))
		}
	}

	for _, prims := range d.Routes {
		st := strokeOf(prims)
		fmt.Fprintf(cw, `  <path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			PathData(prims), attr(st.Color), num(st.Width))
	}

	fmt.Fprint(cw, "</svg>\n")

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

func strokeOf(prims []Primitive) Style {
	for i := len(prims) - 1; i >= 0; i-- {
		if prims[i].Op == OpStroke && prims[i].Style != nil {
			return prims[i].Style.Resolve()
		}
	}
	return DefaultStyle()
}

func text(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// attr escapes an attribute value; EscapeText already covers quotes.
func attr(s string) string {
	return text(s)
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
