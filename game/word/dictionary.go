package word

import (
	"bufio"
	"errors"
	"io"
	"sort"
	"strings"
)

// Dictionary is a set of uppercase words that can be looked for on boards.
type Dictionary map[string]struct{}

// NewDictionary consumes the whitespace-separated words in the reader.
// Words with characters that are not letters are skipped.
func NewDictionary(r io.Reader) (*Dictionary, error) {
	if r == nil {
		return nil, errors.New("reader required to initialize dictionary from")
	}
	d := make(Dictionary)
	scanner := bufio.NewScanner(r)
	scanner.Split(scanLetterWords)
	for scanner.Scan() {
		w := strings.ToUpper(scanner.Text())
		d[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Words returns the words in the dictionary in sorted order.
func (d Dictionary) Words() []string {
	words := make([]string, 0, len(d))
	for w := range d {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Len is the number of words in the dictionary.
func (d Dictionary) Len() int {
	return len(d)
}

// scanLetterWords is a bufio.SplitFunc that returns the next word made only of letters.
// Derived from bufio.ScanWords, but simplified to only handle ASCII.
func scanLetterWords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start, end := 0, 0
	skipUntilSpace := false
	for end < len(data) {
		b := data[end]
		end++
		switch {
		case isSpace(b):
			if !skipUntilSpace && end-start > 1 {
				return end, data[start : end-1], nil
			}
			start = end
			skipUntilSpace = false
		case !isLetter(b):
			skipUntilSpace = true
		}
	}
	if atEOF && len(data) > start {
		if skipUntilSpace {
			return len(data), nil, nil
		}
		return len(data), data[start:], nil
	}
	// Request more data.
	return start, nil, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
