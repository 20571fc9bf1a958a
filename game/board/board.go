// Package board indexes the letters of a game board so words can be traced over its tiles.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adamtheturtle/boggle-solver/game/tile"
)

type (
	// Grid is the labels of the tiles on a board, as rows of columns.
	// Labels are usually single letters, except for "Qu", which shares a tile.
	Grid [][]string

	// LetterMap is the locations of the tiles of each letter on a board.
	// Tiles of each letter are ordered by row, then column.
	LetterMap map[tile.Letter][]tile.Tile

	// Config stores the dimensions of a board.
	Config struct {
		NumRows int `json:"r"`
		NumCols int `json:"c"`
	}
)

// ErrInvalidInput is returned when a grid is not a rectangle of letter labels.
var ErrInvalidInput = errors.New("invalid board")

// Validate returns an error wrapping ErrInvalidInput if the grid is empty, not rectangular, or has a label that is not a letter.
func (g Grid) Validate() error {
	switch {
	case len(g) == 0:
		return fmt.Errorf("%w: no rows", ErrInvalidInput)
	case len(g[0]) == 0:
		return fmt.Errorf("%w: no columns", ErrInvalidInput)
	}
	numCols := len(g[0])
	for y, row := range g {
		if len(row) != numCols {
			return fmt.Errorf("%w: row %v has %v columns, wanted %v", ErrInvalidInput, y, len(row), numCols)
		}
		for x, label := range row {
			if _, err := tile.NewLetter(label); err != nil {
				return fmt.Errorf("%w: tile at column %v, row %v: %v", ErrInvalidInput, x, y, err)
			}
		}
	}
	return nil
}

// Config returns the dimensions of the grid.  The number of columns is taken from the first row.
func (g Grid) Config() Config {
	cfg := Config{
		NumRows: len(g),
	}
	if len(g) > 0 {
		cfg.NumCols = len(g[0])
	}
	return cfg
}

// LetterMap indexes the tiles of the grid by their uppercase labels.
// The grid is not validated, so every label gets a bucket, even one that is not a letter.
func (g Grid) LetterMap() LetterMap {
	lm := make(LetterMap)
	for y, row := range g {
		for x, label := range row {
			l := tile.Letter(strings.ToUpper(label))
			lm[l] = append(lm[l], tile.New(x, y))
		}
	}
	return lm
}

// Count is the number of tiles on the board with the letter.
func (lm LetterMap) Count(l tile.Letter) int {
	return len(lm[l])
}
