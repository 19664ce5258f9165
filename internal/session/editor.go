package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/models"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
)

var (
	ErrNoPlayName  = errors.New("session: please define a play name before saving")
	ErrNoPositions = errors.New("session: please define positions before saving")
)

// Spot is one placeable cell of the field grid.
type Spot struct {
	Position string     `json:"position"`
	Route    routes.Key `json:"route"`
}

// Set reports whether the spot has a position.
func (s Spot) Set() bool {
	return s.Position != ""
}

// Editor is the state of one play being edited: the spot grid, the current
// selection and the play metadata. It is not safe for concurrent use; the
// Manager serialises access.
type Editor struct {
	layout   *field.Layout
	catalog  *routes.Catalog
	style    render.Style
	spots    []Spot
	selected int // -1 when nothing is selected
	playID   string
	playName string
	lines    models.LinesData
}

// NewEditor creates a blank editor for layout.
func NewEditor(layout *field.Layout, catalog *routes.Catalog, style render.Style) *Editor {
	e := &Editor{
		layout:  layout,
		catalog: catalog,
		style:   style,
		spots:   make([]Spot, layout.SpotCount()),
	}
	e.Reload("", nil)
	return e
}

// Layout returns the spot grid.
func (e *Editor) Layout() *field.Layout {
	return e.layout
}

// Selected returns the selected spot index.
func (e *Editor) Selected() (int, bool) {
	return e.selected, e.selected >= 0
}

// Select toggles the selection: selecting the selected spot clears it,
// selecting another spot moves the selection there.
func (e *Editor) Select(index int) error {
	if err := e.check(index); err != nil {
		return err
	}
	if e.selected == index {
		e.selected = -1
	} else {
		e.selected = index
	}
	return nil
}

// Deselect clears the selection.
func (e *Editor) Deselect() {
	e.selected = -1
}

// Spot returns the spot at index.
func (e *Editor) Spot(index int) (Spot, error) {
	if err := e.check(index); err != nil {
		return Spot{}, err
	}
	return e.spots[index], nil
}

// SetPosition sets the position label of a spot. Empty clears it.
func (e *Editor) SetPosition(index int, position string) error {
	if err := e.check(index); err != nil {
		return err
	}
	e.spots[index].Position = position
	return nil
}

// SetRoute assigns a route to a spot. The key must resolve in the catalog;
// an empty key removes the route.
func (e *Editor) SetRoute(index int, key routes.Key) error {
	if err := e.check(index); err != nil {
		return err
	}
	if key != "" {
		if _, err := e.catalog.Resolve(key); err != nil {
			return err
		}
	}
	e.spots[index].Route = key
	return nil
}

// ResetSpot clears a spot and drops the selection.
func (e *Editor) ResetSpot(index int) error {
	if err := e.check(index); err != nil {
		return err
	}
	e.spots[index] = Spot{}
	e.selected = -1
	return nil
}

// SetName sets the play name.
func (e *Editor) SetName(name string) {
	e.playName = name
}

// Lines returns the line of scrimmage overlay.
func (e *Editor) Lines() models.LinesData {
	return e.lines
}

// SetLines sets the line of scrimmage overlay.
func (e *Editor) SetLines(lines models.LinesData) {
	e.lines = lines
}

// PlayID returns the identifier of the loaded or last saved play.
func (e *Editor) PlayID() string {
	return e.playID
}

// Reload replaces the editor contents with play, or clears the editor when
// play is nil. Spots outside the grid are ignored.
func (e *Editor) Reload(id string, play *models.Play) {
	e.selected = -1
	e.playID = id
	e.playName = ""
	e.lines = models.LinesData{Position: field.DefaultLinePosition}
	for i := range e.spots {
		e.spots[i] = Spot{}
	}

	if play == nil {
		return
	}

	e.playName = play.Name
	if play.Lines != nil {
		e.lines = *play.Lines
	}
	for idx, cfg := range play.Spots {
		if idx < 0 || idx >= len(e.spots) {
			continue
		}
		e.spots[idx] = Spot{Position: cfg.Position, Route: routes.Key(cfg.Route)}
	}
}

// Snapshot builds the play to save. Only spots with a position are kept.
func (e *Editor) Snapshot() (*models.Play, error) {
	if e.playName == "" {
		return nil, ErrNoPlayName
	}

	spots := make(map[int]models.SpotConfig)
	for i, s := range e.spots {
		if s.Set() {
			spots[i] = models.SpotConfig{Position: s.Position, Route: string(s.Route)}
		}
	}
	if len(spots) == 0 {
		return nil, ErrNoPositions
	}

	lines := e.lines
	return &models.Play{
		ID:    e.playID,
		Name:  e.playName,
		Spots: spots,
		Lines: &lines,
	}, nil
}

// Saved records the identifier the store assigned.
func (e *Editor) Saved(play *models.Play) {
	e.playID = play.ID
}

// Drawing is the rendered route of one spot.
type Drawing struct {
	Spot       int                `json:"spot"`
	Route      routes.Key         `json:"route"`
	Primitives []render.Primitive `json:"primitives"`
	// Tip is where the arrowhead points.
	Tip render.Point `json:"tip"`
}

// Drawings renders every spot that has a route. Keys that no longer resolve
// (a preset removed since the play was saved) are skipped.
func (e *Editor) Drawings() []Drawing {
	return DrawSpots(e.layout, e.catalog, e.style, e.spotConfigs())
}

func (e *Editor) spotConfigs() map[int]models.SpotConfig {
	out := make(map[int]models.SpotConfig)
	for i, s := range e.spots {
		if s.Route != "" {
			out[i] = models.SpotConfig{Position: s.Position, Route: string(s.Route)}
		}
	}
	return out
}

// DrawSpots renders the routes of spots on layout, in spot order.
func DrawSpots(layout *field.Layout, catalog *routes.Catalog, style render.Style, spots map[int]models.SpotConfig) []Drawing {
	play := &models.Play{Spots: spots}

	var out []Drawing
	for _, idx := range play.SpotIndexes() {
		cfg := spots[idx]
		if cfg.Route == "" {
			continue
		}
		route, err := catalog.Resolve(routes.Key(cfg.Route))
		if err != nil {
			continue
		}
		start, err := layout.RouteStart(idx)
		if err != nil {
			continue
		}
		prims := render.Render(route, layout.YardScale(), start, &style)
		tip, _ := render.End(prims)
		out = append(out, Drawing{
			Spot:       idx,
			Route:      routes.Key(cfg.Route),
			Primitives: prims,
			Tip:        tip,
		})
	}
	return out
}

// State is the serialisable view of an editor.
type State struct {
	ID           string           `json:"id"`
	PlayID       string           `json:"playId,omitempty"`
	PlayName     string           `json:"playName"`
	Selected     *int             `json:"selected,omitempty"`
	Layout       *field.Layout    `json:"layout"`
	Spots        map[int]Spot     `json:"spots"`
	Lines        models.LinesData `json:"linesData"`
	CreatedAt    time.Time        `json:"createdAt"`
	LastAccessed time.Time        `json:"lastAccessed"`
}

func (e *Editor) state(id string, createdAt, lastAccessed time.Time) State {
	st := State{
		ID:           id,
		PlayID:       e.playID,
		PlayName:     e.playName,
		Layout:       e.layout,
		Spots:        make(map[int]Spot),
		Lines:        e.lines,
		CreatedAt:    createdAt,
		LastAccessed: lastAccessed,
	}
	if sel, ok := e.Selected(); ok {
		st.Selected = &sel
	}
	for i, s := range e.spots {
		if s.Set() || s.Route != "" {
			st.Spots[i] = s
		}
	}
	return st
}

func (e *Editor) check(index int) error {
	if index < 0 || index >= len(e.spots) {
		return fmt.Errorf("%w: %d of %d", field.ErrSpotRange, index, len(e.spots))
	}
	return nil
}
