package session

import (
	"testing"
	"time"

	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/models"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout(t *testing.T) *field.Layout {
	t.Helper()
	// 11 spots of 50px, 10 rows.
	layout, err := field.NewLayout(550, 500, 11, 0)
	require.NoError(t, err)
	return layout
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return NewEditor(testLayout(t), routes.Default(), render.DefaultStyle())
}

func TestEditor_SelectToggles(t *testing.T) {
	e := newTestEditor(t)

	_, ok := e.Selected()
	assert.False(t, ok)

	require.NoError(t, e.Select(3))
	sel, ok := e.Selected()
	assert.True(t, ok)
	assert.Equal(t, 3, sel)

	require.NoError(t, e.Select(7))
	sel, _ = e.Selected()
	assert.Equal(t, 7, sel)

	require.NoError(t, e.Select(7))
	_, ok = e.Selected()
	assert.False(t, ok)

	assert.ErrorIs(t, e.Select(110), field.ErrSpotRange)
	assert.ErrorIs(t, e.Select(-1), field.ErrSpotRange)
}

func TestEditor_SetRoute(t *testing.T) {
	e := newTestEditor(t)

	require.NoError(t, e.SetRoute(4, "r_plays#wheel"))
	spot, err := e.Spot(4)
	require.NoError(t, err)
	assert.Equal(t, routes.Key("r_plays#wheel"), spot.Route)

	err = e.SetRoute(4, "r_plays#unknown")
	assert.ErrorIs(t, err, routes.ErrNotFound)
	spot, _ = e.Spot(4)
	assert.Equal(t, routes.Key("r_plays#wheel"), spot.Route, "failed assignment keeps the old route")

	assert.ErrorIs(t, e.SetRoute(4, "wheel"), routes.ErrMalformedKey)

	require.NoError(t, e.SetRoute(4, ""))
	spot, _ = e.Spot(4)
	assert.Empty(t, spot.Route)
}

func TestEditor_ResetSpot(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.SetPosition(2, "WR"))
	require.NoError(t, e.SetRoute(2, "c_plays#go"))
	require.NoError(t, e.Select(2))

	require.NoError(t, e.ResetSpot(2))

	spot, _ := e.Spot(2)
	assert.Equal(t, Spot{}, spot)
	_, ok := e.Selected()
	assert.False(t, ok)
}

func TestEditor_Snapshot(t *testing.T) {
	t.Run("requires a name", func(t *testing.T) {
		e := newTestEditor(t)
		require.NoError(t, e.SetPosition(0, "QB"))
		_, err := e.Snapshot()
		assert.ErrorIs(t, err, ErrNoPlayName)
	})

	t.Run("requires a position", func(t *testing.T) {
		e := newTestEditor(t)
		e.SetName("Empty")
		// A route without a position does not count.
		require.NoError(t, e.SetRoute(0, "c_plays#go"))
		_, err := e.Snapshot()
		assert.ErrorIs(t, err, ErrNoPositions)
	})

	t.Run("keeps positioned spots", func(t *testing.T) {
		e := newTestEditor(t)
		e.SetName("Trips Right")
		require.NoError(t, e.SetPosition(1, "WR"))
		require.NoError(t, e.SetRoute(1, "l_plays#five_o"))
		require.NoError(t, e.SetPosition(5, "QB"))
		require.NoError(t, e.SetRoute(9, "c_plays#go"))

		play, err := e.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, "Trips Right", play.Name)
		assert.Empty(t, play.ID)
		assert.Equal(t, map[int]models.SpotConfig{
			1: {Position: "WR", Route: "l_plays#five_o"},
			5: {Position: "QB"},
		}, play.Spots)
		require.NotNil(t, play.Lines)
		assert.Equal(t, field.DefaultLinePosition, play.Lines.Position)
	})
}

func TestEditor_Reload(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.SetPosition(0, "C"))
	require.NoError(t, e.Select(0))

	play := &models.Play{
		ID:   "p1",
		Name: "Loaded",
		Spots: map[int]models.SpotConfig{
			3:   {Position: "TE", Route: "r_plays#five_i"},
			500: {Position: "ghost"},
		},
		Lines: &models.LinesData{Display: true, Position: 40},
	}
	e.Reload(play.ID, play)

	assert.Equal(t, "p1", e.PlayID())
	_, ok := e.Selected()
	assert.False(t, ok)
	spot, _ := e.Spot(0)
	assert.False(t, spot.Set())
	spot, _ = e.Spot(3)
	assert.Equal(t, Spot{Position: "TE", Route: "r_plays#five_i"}, spot)

	st := e.state("s", time.Time{}, time.Time{})
	assert.Equal(t, "Loaded", st.PlayName)
	assert.Len(t, st.Spots, 1)
	assert.Equal(t, models.LinesData{Display: true, Position: 40}, st.Lines)

	e.Reload("", nil)
	assert.Empty(t, e.PlayID())
	assert.Equal(t, models.LinesData{Position: field.DefaultLinePosition}, e.lines)
}

func TestEditor_Drawings(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.SetPosition(0, "WR"))
	require.NoError(t, e.SetRoute(0, "c_plays#go"))
	require.NoError(t, e.SetPosition(12, "TE"))
	require.NoError(t, e.SetRoute(12, "l_plays#wheel"))
	require.NoError(t, e.SetPosition(20, "RB"))

	drawings := e.Drawings()
	require.Len(t, drawings, 2)
	assert.Equal(t, 0, drawings[0].Spot)
	assert.Equal(t, 12, drawings[1].Spot)

	scale := e.layout.YardScale()
	goRoute := drawings[0].Primitives
	assert.Equal(t, render.Point{X: 25, Y: 0}, goRoute[0].To)
	assert.Equal(t, render.OpLineTo, goRoute[1].Op)
	assert.Equal(t, 25.0, goRoute[1].To.X)
	assert.InDelta(t, -15*scale, goRoute[1].To.Y, 1e-9)
	assert.Equal(t, goRoute[1].To, drawings[0].Tip)

	// Spot 12 is row 1, col 1.
	assert.Equal(t, render.Point{X: 75, Y: 50}, drawings[1].Primitives[0].To)
}

func TestDrawSpots_SkipsUnresolvable(t *testing.T) {
	layout := testLayout(t)
	drawings := DrawSpots(layout, routes.Default(), render.DefaultStyle(), map[int]models.SpotConfig{
		1:    {Position: "WR", Route: "l_plays#retired"},
		2:    {Position: "WR", Route: "not-a-key"},
		3:    {Position: "QB"},
		9999: {Position: "X", Route: "c_plays#go"},
		4:    {Position: "WR", Route: "c_plays#go"},
	})
	require.Len(t, drawings, 1)
	assert.Equal(t, 4, drawings[0].Spot)
	assert.Equal(t, routes.Key("c_plays#go"), drawings[0].Route)
}
