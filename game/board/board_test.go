package board

import (
	"errors"
	"reflect"
	"testing"

	"github.com/adamtheturtle/boggle-solver/game/tile"
)

func TestValidate(t *testing.T) {
	validateTests := []struct {
		Grid
		wantOk bool
	}{
		{},
		{
			Grid: Grid{{}},
		},
		{
			Grid: Grid{
				{"A", "B"},
				{"C"},
			},
		},
		{
			Grid: Grid{
				{"A", ""},
			},
		},
		{
			Grid: Grid{
				{"A", "3"},
			},
		},
		{
			Grid: Grid{
				{"A"},
			},
			wantOk: true,
		},
		{
			Grid: Grid{
				{"Qu", "a", "A"},
				{"b", "c", "D"},
			},
			wantOk: true,
		},
	}
	for i, test := range validateTests {
		err := test.Grid.Validate()
		switch {
		case !test.wantOk:
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Test %v: wanted invalid input error, got %v", i, err)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		}
	}
}

func TestConfig(t *testing.T) {
	configTests := []struct {
		Grid
		want Config
	}{
		{},
		{
			Grid: Grid{
				{"A", "B", "C"},
				{"D", "E", "F"},
			},
			want: Config{
				NumRows: 2,
				NumCols: 3,
			},
		},
	}
	for i, test := range configTests {
		got := test.Grid.Config()
		if test.want != got {
			t.Errorf("Test %v: wanted %v, got %v", i, test.want, got)
		}
	}
}

func TestLetterMap(t *testing.T) {
	letterMapTests := []struct {
		Grid
		want LetterMap
	}{
		{
			want: LetterMap{},
		},
		{
			Grid: Grid{
				{"A", "A"},
				{"A", "B"},
			},
			want: LetterMap{
				"A": {
					tile.New(0, 0),
					tile.New(1, 0),
					tile.New(0, 1),
				},
				"B": {
					tile.New(1, 1),
				},
			},
		},
		{
			Grid: Grid{
				{"a"},
			},
			want: LetterMap{
				"A": {
					tile.New(0, 0),
				},
			},
		},
		{
			Grid: Grid{
				{"Qu", "A"},
				{"qU", "U"},
			},
			want: LetterMap{
				"QU": {
					tile.New(0, 0),
					tile.New(0, 1),
				},
				"A": {
					tile.New(1, 0),
				},
				"U": {
					tile.New(1, 1),
				},
			},
		},
	}
	for i, test := range letterMapTests {
		got := test.Grid.LetterMap()
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("Test %v:\nwanted: %v\ngot:    %v", i, test.want, got)
		}
	}
}

func TestLetterMapEveryTileOnce(t *testing.T) {
	g := Grid{
		{"Qu", "A", "A", "M", "D"},
		{"A", "L", "G", "O", "O"},
		{"R", "G", "I", "D", "E"},
		{"O", "N", "F", "Y", "R"},
		{"R", "E", "L", "L", "S"},
	}
	lm := g.LetterMap()
	seen := make(map[tile.Tile]tile.Letter)
	for l, tiles := range lm {
		for _, tl := range tiles {
			if l2, ok := seen[tl]; ok {
				t.Errorf("tile %v in buckets %v and %v", tl, l, l2)
			}
			seen[tl] = l
		}
	}
	if want, got := 25, len(seen); want != got {
		t.Errorf("wanted %v tiles indexed, got %v", want, got)
	}
	if want, got := 3, lm.Count("A"); want != got {
		t.Errorf("wanted %v A tiles, got %v", want, got)
	}
	if want, got := 0, lm.Count("Z"); want != got {
		t.Errorf("wanted %v Z tiles, got %v", want, got)
	}
}
