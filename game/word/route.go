package word

import (
	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/game/tile"
)

// Route is a path of distinct tiles, each touching the one before it.
type Route []tile.Tile

// FindRoute searches for a route that spells the word on the board.
// Routes are extended one letter at a time, keeping every partial route of the same length, and the first complete route is returned.
// The number of partial routes can grow exponentially with the length of the word on boards with many tiles of the same letters.
func FindRoute(w string, lm board.LetterMap) (Route, bool) {
	letters := Tokenize(w)
	var routes []Route
	for _, l := range letters {
		tiles := lm[l]
		if len(tiles) == 0 {
			return nil, false
		}
		if len(routes) == 0 {
			routes = make([]Route, len(tiles))
			for i, t := range tiles {
				routes[i] = Route{t}
			}
			continue
		}
		var extendedRoutes []Route
		for _, r := range routes {
			last := r.Last()
			for _, t := range tiles {
				if !last.Touching(t) || r.Contains(t) {
					continue
				}
				r2 := r.extend(t)
				if len(r2) == len(letters) {
					return r2, true
				}
				extendedRoutes = append(extendedRoutes, r2)
			}
		}
		if len(extendedRoutes) == 0 {
			return nil, false
		}
		routes = extendedRoutes
	}
	return nil, false
}

// HasRoute determines if a route that spells the word exists on the board.
func HasRoute(w string, lm board.LetterMap) bool {
	_, ok := FindRoute(w, lm)
	return ok
}

// Last is the most recently added tile.  The route must not be empty.
func (r Route) Last() tile.Tile {
	return r[len(r)-1]
}

// Contains determines if the tile is anywhere in the route.
func (r Route) Contains(t tile.Tile) bool {
	for _, t2 := range r {
		if t == t2 {
			return true
		}
	}
	return false
}

// extend creates a new route with the tile at the end, leaving the route unchanged.
func (r Route) extend(t tile.Tile) Route {
	r2 := make(Route, len(r), len(r)+1)
	copy(r2, r)
	return append(r2, t)
}
