// Package tile contains the cells that words are traced over on game boards.
package tile

type (
	// Tile is the location of a labeled cell on a board.
	// Tiles are compared by value, so two tiles are the same if they share a location.
	Tile struct {
		X X `json:"x"`
		Y Y `json:"y"`
	}

	// X is the x position of a tile (column).
	X int
	// Y is the y position of a tile (row).
	Y int
)

// New creates a tile at the column and row.
func New(column, row int) Tile {
	return Tile{
		X: X(column),
		Y: Y(row),
	}
}

// Touching determines if the other tile is next to the tile horizontally, vertically, or diagonally.
// A tile is touching itself.
func (t Tile) Touching(other Tile) bool {
	dx := int(t.X - other.X)
	dy := int(t.Y - other.Y)
	return -1 <= dx && dx <= 1 && -1 <= dy && dy <= 1
}
