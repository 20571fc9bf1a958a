package tile

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Letter is the uppercase value of a tile.  It is usually a single character, but "QU" shares a single tile.
type Letter string

// QU is the letter printed on the tile that holds both Q and U.
const QU Letter = "QU"

// ErrInvalidLetter is returned when a label cannot be used as the letter of a tile.
var ErrInvalidLetter = errors.New("invalid letter")

// NewLetter creates an uppercase Letter from the label on a tile.
// The label must not be empty and may only contain letters.
func NewLetter(label string) (Letter, error) {
	if len(label) == 0 {
		return "", fmt.Errorf("%w: empty label", ErrInvalidLetter)
	}
	for i, r := range label {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("%w: non-letter at index %v of %q: %q", ErrInvalidLetter, i, label, r)
		}
	}
	return Letter(strings.ToUpper(label)), nil
}

// String returns the letter as a string.
func (l Letter) String() string {
	return string(l)
}
