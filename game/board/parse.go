package board

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Parse reads a grid from YAML or JSON, such as [[B, A], [C, R]], and validates it.
func Parse(r io.Reader) (Grid, error) {
	var g Grid
	d := yaml.NewDecoder(r)
	if err := d.Decode(&g); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no rows", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: decoding grid: %v", ErrInvalidInput, err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
