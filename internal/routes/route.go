// Package routes holds the preset route catalog: named routes grouped by
// starting side, the key format used to select them and the mirror transform
// that derives right-side routes from left-side ones.
package routes

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins a category identifier and a route identifier into a Key.
const Separator = "#"

var (
	// ErrNotFound is returned when a key names an unknown category or route.
	ErrNotFound = errors.New("routes: route not found")

	// ErrMalformedKey is returned when a key has no separator or an empty side.
	ErrMalformedKey = errors.New("routes: malformed route key")

	// ErrInvalidRoute is returned when a catalog is built from bad definitions.
	ErrInvalidRoute = errors.New("routes: invalid route definition")
)

// Quad is the control-point offset of a curved step, in yards.
type Quad struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// Move is one step of a route. Both displacements are optional; a step with
// a Quad is drawn as a quadratic curve, otherwise as a straight segment.
type Move struct {
	X    *float64 `json:"moveX,omitempty" yaml:"move_x,omitempty" msgpack:"moveX,omitempty"`
	Y    *float64 `json:"moveY,omitempty" yaml:"move_y,omitempty" msgpack:"moveY,omitempty"`
	Quad *Quad    `json:"quadProperties,omitempty" yaml:"quad,omitempty" msgpack:"quadProperties,omitempty"`
}

// Route is a named, ordered sequence of moves.
type Route struct {
	ID    string `json:"identifier" yaml:"identifier" msgpack:"identifier"`
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Moves []Move `json:"moves" yaml:"moves" msgpack:"moves"`
}

// Category groups routes by starting side.
type Category struct {
	ID     string  `json:"identifier"`
	Name   string  `json:"name"`
	Routes []Route `json:"routes"`
}

// Key selects a route as "category#route".
type Key string

// Forward moves straight up-field.
func Forward(y float64) Move {
	return Move{Y: &y}
}

// Lateral moves across the field.
func Lateral(x float64) Move {
	return Move{X: &x}
}

// Step moves on both axes.
func Step(x, y float64) Move {
	return Move{X: &x, Y: &y}
}

// Curve moves on both axes along a quadratic curve.
func Curve(x, y, qx, qy float64) Move {
	return Move{X: &x, Y: &y, Quad: &Quad{X: qx, Y: qy}}
}

// IsCurve reports whether the move is drawn as a quadratic curve.
func (m Move) IsCurve() bool {
	return m.Quad != nil
}

// Clone returns a copy of the route that shares no move data with r.
func (r Route) Clone() Route {
	out := Route{ID: r.ID, Name: r.Name}
	if r.Moves == nil {
		return out
	}
	out.Moves = make([]Move, len(r.Moves))
	for i, m := range r.Moves {
		var c Move
		if m.X != nil {
			x := *m.X
			c.X = &x
		}
		if m.Y != nil {
			y := *m.Y
			c.Y = &y
		}
		if m.Quad != nil {
			q := *m.Quad
			c.Quad = &q
		}
		out.Moves[i] = c
	}
	return out
}

// BuildKey joins the identifiers. Neither may contain Separator.
func BuildKey(categoryID, routeID string) Key {
	return Key(categoryID + Separator + routeID)
}

// ParseKey splits a key on the first separator.
func ParseKey(key Key) (categoryID, routeID string, err error) {
	categoryID, routeID, ok := strings.Cut(string(key), Separator)
	if !ok || categoryID == "" || routeID == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return categoryID, routeID, nil
}

func (k Key) String() string {
	return string(k)
}

func (r Route) validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidRoute)
	}
	if strings.Contains(r.ID, Separator) {
		return fmt.Errorf("%w: identifier %q contains %q", ErrInvalidRoute, r.ID, Separator)
	}
	if len(r.Moves) == 0 {
		return fmt.Errorf("%w: route %q has no moves", ErrInvalidRoute, r.ID)
	}
	return nil
}
