// Package game describes how words are formed on a board.
package game

import (
	"fmt"

	"github.com/adamtheturtle/boggle-solver/game/tile"
	"github.com/adamtheturtle/boggle-solver/game/word"
)

// Rules gets the rules used when checking words.
func Rules() []string {
	return []string{
		"Words are formed by a path of tiles on the board, starting at any tile.",
		"Each tile on the path must touch the previous tile horizontally, vertically, or diagonally.",
		"A tile can only be used once in each word.",
		fmt.Sprintf("The %v tile is a single tile that spells both letters.", tile.QU),
		fmt.Sprintf("Words must be at least %d letters long.", word.MinLength),
		"Letter case is ignored.",
	}
}
