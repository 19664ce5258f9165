package routes

// Mirror returns route with the requested axes sign-flipped on every move and
// every curve control offset. The result never shares move data with the
// input; with no flag set the input is returned as is.
func Mirror(route Route, flipX, flipY bool) Route {
	if !flipX && !flipY {
		return route
	}

	moves := make([]Move, len(route.Moves))
	for i, m := range route.Moves {
		var out Move
		if m.X != nil {
			x := *m.X
			if flipX {
				x = -x
			}
			out.X = &x
		}
		if m.Y != nil {
			y := *m.Y
			if flipY {
				y = -y
			}
			out.Y = &y
		}
		if m.Quad != nil {
			q := *m.Quad
			if flipX {
				q.X = -q.X
			}
			if flipY {
				q.Y = -q.Y
			}
			out.Quad = &q
		}
		moves[i] = out
	}

	return Route{
		ID:    route.ID,
		Name:  route.Name,
		Moves: moves,
	}
}
