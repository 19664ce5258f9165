package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirror_HorizontalFlipsLeftCategory(t *testing.T) {
	left := Default().Categories()[0].Routes
	require.NotEmpty(t, left)

	for _, r := range left {
		m := Mirror(r, true, false)

		assert.Equal(t, r.ID, m.ID)
		assert.Equal(t, r.Name, m.Name)
		require.Len(t, m.Moves, len(r.Moves))

		for i, orig := range r.Moves {
			got := m.Moves[i]
			if orig.X == nil {
				assert.Nil(t, got.X)
			} else {
				assert.Equal(t, -*orig.X, *got.X)
			}
			if orig.Y == nil {
				assert.Nil(t, got.Y)
			} else {
				assert.Equal(t, *orig.Y, *got.Y)
			}
			if orig.Quad == nil {
				assert.Nil(t, got.Quad)
			} else {
				assert.Equal(t, -orig.Quad.X, got.Quad.X)
				assert.Equal(t, orig.Quad.Y, got.Quad.Y)
			}
		}
	}
}

func TestMirror_VerticalFlip(t *testing.T) {
	r := Route{ID: "r", Moves: []Move{Curve(1, 2, 3, 4), Lateral(5)}}
	m := Mirror(r, false, true)

	assert.Equal(t, 1.0, *m.Moves[0].X)
	assert.Equal(t, -2.0, *m.Moves[0].Y)
	assert.Equal(t, Quad{X: 3, Y: -4}, *m.Moves[0].Quad)
	assert.Equal(t, 5.0, *m.Moves[1].X)
	assert.Nil(t, m.Moves[1].Y)
}

func TestMirror_NoFlagsReturnsInput(t *testing.T) {
	r := Route{ID: "r", Moves: []Move{Forward(3)}}
	m := Mirror(r, false, false)
	assert.Same(t, &r.Moves[0], &m.Moves[0])
}

func TestMirror_DoesNotAlias(t *testing.T) {
	r := Route{ID: "r", Moves: []Move{Curve(1, 2, 3, 4)}}
	m := Mirror(r, true, true)

	*m.Moves[0].X = 100
	m.Moves[0].Quad.Y = 100

	assert.Equal(t, 1.0, *r.Moves[0].X)
	assert.Equal(t, 4.0, r.Moves[0].Quad.Y)
}
