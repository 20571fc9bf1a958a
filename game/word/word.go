// Package word determines if words can be traced over the tiles of a board.
package word

import (
	"strings"
	"unicode/utf8"

	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/game/tile"
)

// MinLength is the fewest characters a valid word can have.
const MinLength = 3

// Tokenize splits the word into the letters of the tiles needed to spell it.
// A Q is always read as the QU tile, absorbing the U that follows it, if any.
func Tokenize(w string) []tile.Letter {
	letters := make([]tile.Letter, 0, len(w))
	var prev rune
	for _, r := range w {
		switch {
		case r == 'U' && prev == 'Q':
			// already part of the QU tile
		case r == 'Q':
			letters = append(letters, tile.QU)
		default:
			letters = append(letters, tile.Letter(r))
		}
		prev = r
	}
	return letters
}

// TilesAvailable is a quick check of whether the board might have enough tiles for the word.
// Only the first letter of the word is checked: the board must have at least as many of its tiles as times it is in the word.
// A word that passes can still be impossible to trace.
func TilesAvailable(w string, lm board.LetterMap) bool {
	letters := Tokenize(w)
	if len(letters) == 0 {
		return true
	}
	first := letters[0]
	available := lm.Count(first)
	if available == 0 {
		return false
	}
	return countSubstrings(w, string(first)) <= available
}

// IsValid determines if the word is long enough and can be traced over the tiles of the board.
// Words are converted to uppercase before checking.
func IsValid(w string, lm board.LetterMap) bool {
	_, ok := ValidRoute(w, lm)
	return ok
}

// ValidRoute is IsValid that also returns the route found for the word.  The board is only searched once.
func ValidRoute(w string, lm board.LetterMap) (Route, bool) {
	if utf8.RuneCountInString(w) < MinLength {
		return nil, false
	}
	w = strings.ToUpper(w)
	if !TilesAvailable(w, lm) {
		return nil, false
	}
	return FindRoute(w, lm)
}

// countSubstrings counts the times the needle is in the haystack, including overlaps.
func countSubstrings(haystack, needle string) int {
	h := []rune(haystack)
	n := []rune(needle)
	count := 0
	for i := 0; i+len(n) <= len(h); i++ {
		if string(h[i:i+len(n)]) == needle {
			count++
		}
	}
	return count
}
