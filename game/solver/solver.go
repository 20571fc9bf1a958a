// Package solver lists the words of a dictionary that can be traced over the tiles of boards.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/game/word"
	"github.com/adamtheturtle/boggle-solver/server/log"
	"golang.org/x/sync/errgroup"
)

type (
	// Solver checks words on boards.  It is safe for concurrent use because boards are only read.
	Solver struct {
		debug    bool
		log      log.Logger
		workers  int
		observer Observer
	}

	// Config contains the properties to create a Solver.
	Config struct {
		// Debug is a flag that causes the solver to log each word that is checked.
		Debug bool
		// Log is used to log debug information.
		Log log.Logger
		// Workers is the maximum number of words that are checked at the same time.
		Workers int
		// Observer is notified about each checked word, if present.
		Observer Observer
	}

	// Observer records the results of word checks.
	Observer interface {
		ObserveWord(valid bool, d time.Duration)
	}

	// Result is the outcome of checking a single word.
	Result struct {
		Word  string     `json:"word"`
		Valid bool       `json:"valid"`
		Route word.Route `json:"route,omitempty"`
	}
)

// ErrInvalidInput is returned when a word to check is empty.
var ErrInvalidInput = errors.New("invalid word")

// NewSolver creates a Solver from the Config.
func (cfg Config) NewSolver() (*Solver, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating solver: validation: %w", err)
	}
	s := Solver{
		debug:    cfg.Debug,
		log:      cfg.Log,
		workers:  cfg.Workers,
		observer: cfg.Observer,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Workers <= 0:
		return fmt.Errorf("positive number of workers required")
	}
	return nil
}

// ListWords returns the sorted, uppercase words that are valid on the board.
// Words are compared without regard to case, so each valid word is only listed once.
// The board is indexed once and the words are checked concurrently.
func (s Solver) ListWords(ctx context.Context, g board.Grid, words []string) ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("listing words: %w", err)
	}
	for i, w := range words {
		if len(w) == 0 {
			return nil, fmt.Errorf("listing words: %w: empty word at index %v", ErrInvalidInput, i)
		}
	}
	lm := g.LetterMap()
	valid := make([]bool, len(words))
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(s.workers)
	for i, w := range words {
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			_, valid[i] = s.validRoute(strings.ToUpper(w), lm)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, fmt.Errorf("listing words: %w", err)
	}
	found := make(map[string]struct{})
	for i, w := range words {
		if valid[i] {
			found[strings.ToUpper(w)] = struct{}{}
		}
	}
	foundWords := make([]string, 0, len(found))
	for w := range found {
		foundWords = append(foundWords, w)
	}
	sort.Strings(foundWords)
	return foundWords, nil
}

// Check determines if a single word is valid on the board, including the route of tiles that spell it.
func (s Solver) Check(ctx context.Context, g board.Grid, w string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("checking word: %w", err)
	}
	if len(w) == 0 {
		return nil, fmt.Errorf("checking word: %w: empty word", ErrInvalidInput)
	}
	lm := g.LetterMap()
	upper := strings.ToUpper(w)
	route, ok := s.validRoute(upper, lm)
	r := Result{
		Word:  upper,
		Valid: ok,
		Route: route,
	}
	return &r, nil
}

// validRoute checks the uppercase word, reporting how long it took.
func (s Solver) validRoute(w string, lm board.LetterMap) (word.Route, bool) {
	start := time.Now()
	route, valid := word.ValidRoute(w, lm)
	d := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveWord(valid, d)
	}
	if s.debug {
		s.log.Printf("checked %v in %v: valid=%v", w, d, valid)
	}
	return route, valid
}
