// Package field computes the grid of placeable spots on the play field and
// converts between yards and pixels.
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/playdrawer/backend/internal/render"
)

// DefaultYardsWide is the width of a football field between the sidelines.
const DefaultYardsWide = 160.0 / 3.0

// DefaultLinePosition is the line of scrimmage height, in percent of the field
// measured from the bottom edge.
const DefaultLinePosition = 22.0

var (
	ErrInvalidField = errors.New("field: invalid field dimensions")
	ErrSpotRange    = errors.New("field: spot index out of range")
)

// Layout is the spot grid for one field size.
type Layout struct {
	FieldWidth    float64 `json:"fieldWidth"`
	FieldHeight   float64 `json:"fieldHeight"`
	SpotsPerRow   int     `json:"spotsPerRow"`
	Rows          int     `json:"rows"`
	SpotWidth     float64 `json:"spotWidth"`
	SpotHeight    float64 `json:"spotHeight"`
	WidthPercent  float64 `json:"widthPercent"`
	HeightPercent float64 `json:"heightPercent"`
	YardsWide     float64 `json:"yardsWide"`
}

// Cell is the pixel box of one spot.
type Cell struct {
	Index  int          `json:"index"`
	Row    int          `json:"row"`
	Col    int          `json:"col"`
	Box    render.Rect  `json:"box"`
	Center render.Point `json:"center"`
}

// NewLayout fits spotsPerRow square-ish spots across the field width and as
// many full rows as the height allows.
func NewLayout(fieldWidth, fieldHeight float64, spotsPerRow int, yardsWide float64) (*Layout, error) {
	if fieldWidth <= 0 || fieldHeight <= 0 || spotsPerRow <= 0 {
		return nil, fmt.Errorf("%w: %gx%g with %d spots per row", ErrInvalidField, fieldWidth, fieldHeight, spotsPerRow)
	}
	if yardsWide <= 0 {
		yardsWide = DefaultYardsWide
	}

	spotLength := fieldWidth / float64(spotsPerRow)
	rows := int(math.Floor(fieldHeight / spotLength))
	if rows == 0 {
		return nil, fmt.Errorf("%w: field height %g fits no row of %g px spots", ErrInvalidField, fieldHeight, spotLength)
	}

	widthPercent := 100 / float64(spotsPerRow)
	heightPercent := 100 / float64(rows)

	return &Layout{
		FieldWidth:    fieldWidth,
		FieldHeight:   fieldHeight,
		SpotsPerRow:   spotsPerRow,
		Rows:          rows,
		SpotWidth:     spotLength,
		SpotHeight:    fieldHeight / float64(rows),
		WidthPercent:  widthPercent,
		HeightPercent: heightPercent,
		YardsWide:     yardsWide,
	}, nil
}

// SpotCount is the number of spots in the grid.
func (l *Layout) SpotCount() int {
	return l.Rows * l.SpotsPerRow
}

// Spot returns the cell at index, counted row by row from the top left.
func (l *Layout) Spot(index int) (Cell, error) {
	if index < 0 || index >= l.SpotCount() {
		return Cell{}, fmt.Errorf("%w: %d of %d", ErrSpotRange, index, l.SpotCount())
	}

	row, col := index/l.SpotsPerRow, index%l.SpotsPerRow
	box := render.Rect{
		X:      float64(col) * l.SpotWidth,
		Y:      float64(row) * l.SpotHeight,
		Width:  l.SpotWidth,
		Height: l.SpotHeight,
	}

	return Cell{
		Index:  index,
		Row:    row,
		Col:    col,
		Box:    box,
		Center: render.Point{X: box.X + box.Width/2, Y: box.Y + box.Height/2},
	}, nil
}

// RouteStart is where a route drawn from the spot begins: the middle of the
// spot's top edge.
func (l *Layout) RouteStart(index int) (render.Point, error) {
	c, err := l.Spot(index)
	if err != nil {
		return render.Point{}, err
	}
	return render.Point{X: c.Center.X, Y: c.Box.Y}, nil
}

// YardScale is the number of pixels per yard.
func (l *Layout) YardScale() float64 {
	return l.FieldWidth / l.YardsWide
}

// LineY converts a line of scrimmage position (percent from the bottom) to a
// pixel row.
func (l *Layout) LineY(position float64) float64 {
	return l.FieldHeight - l.FieldHeight*position/100
}
