// Package cache stores the words found on boards so repeated requests skip the search.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/server/log"
	"golang.org/x/sync/singleflight"
)

const (
	keyPrefix             = "boggle:words:"
	defaultComputeTimeout = time.Minute
)

type (
	// Cache coalesces concurrent searches for the same board and words and stores their results.
	Cache struct {
		store Store
		group singleflight.Group
		Config
	}

	// Config contains fields which describe a Cache.
	Config struct {
		// Log is used to report store failures.  They are not returned to callers.
		Log log.Logger
		// TTL is how long results are kept.  Results are shared by concurrent callers but not stored when it is zero.
		TTL time.Duration
		// ComputeTimeout limits how long a shared computation can run.  A minute is used when it is not positive.
		ComputeTimeout time.Duration
		// Debug enables logging of cache hits.
		Debug bool
		// Observer is notified of hits and misses.  It is optional.
		Observer Observer
	}

	// Store holds encoded results by key.
	Store interface {
		// Get returns the value for the key and whether it was present.
		Get(ctx context.Context, key string) ([]byte, bool, error)
		// Set stores the value for the key for the ttl.
		Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	}

	// Observer records cache lookups.
	Observer interface {
		ObserveCache(hit bool)
	}
)

// NewCache creates a Cache backed by the store.
func (cfg Config) NewCache(s Store) (*Cache, error) {
	if err := cfg.validate(s); err != nil {
		return nil, fmt.Errorf("creating cache: validation: %w", err)
	}
	c := Cache{
		store:  s,
		Config: cfg,
	}
	return &c, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(s Store) error {
	switch {
	case s == nil:
		return fmt.Errorf("store required")
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.TTL < 0:
		return fmt.Errorf("nonnegative ttl required")
	}
	return nil
}

// Words returns the cached words for the board and candidates, calling compute on a miss.
// Concurrent misses for the same key share one call to compute.  The shared call runs on a context that is not
// cancelled when the caller that started it leaves, so other callers still get the result.
// Each caller stops waiting when its own context is done.
// A nil candidate list is a distinct key from an empty one; callers use it for the default dictionary.
// The bool reports whether the result came from the store.
func (c *Cache) Words(ctx context.Context, g board.Grid, candidates []string, compute func(ctx context.Context) ([]string, error)) ([]string, bool, error) {
	key := Key(g, candidates)
	if words, ok := c.get(ctx, key); ok {
		c.observe(true)
		return words, true, nil
	}
	c.observe(false)
	detachedCtx := context.WithoutCancel(ctx)
	resultC := c.group.DoChan(key, func() (interface{}, error) {
		computeCtx, cancelFunc := context.WithTimeout(detachedCtx, c.computeTimeout())
		defer cancelFunc()
		if words, ok := c.get(computeCtx, key); ok {
			return words, nil
		}
		words, err := compute(computeCtx)
		if err != nil {
			return nil, err
		}
		c.set(computeCtx, key, words)
		return words, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-resultC:
		if r.Err != nil {
			return nil, false, r.Err
		}
		return r.Val.([]string), false, nil
	}
}

func (c *Cache) get(ctx context.Context, key string) ([]string, bool) {
	data, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.Log.Printf("cache get failed for %v: %v", key, err)
	case ok:
		var words []string
		if err := json.Unmarshal(data, &words); err != nil {
			c.Log.Printf("cache decode failed for %v: %v", key, err)
			break
		}
		if c.Debug {
			c.Log.Printf("cache hit for %v", key)
		}
		return words, true
	}
	return nil, false
}

// set stores the words.  Nothing is stored when the TTL is zero.
func (c *Cache) set(ctx context.Context, key string, words []string) {
	if c.TTL == 0 {
		return
	}
	data, err := json.Marshal(words)
	if err != nil {
		c.Log.Printf("cache encode failed for %v: %v", key, err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.TTL); err != nil {
		c.Log.Printf("cache set failed for %v: %v", key, err)
	}
}

func (c *Cache) computeTimeout() time.Duration {
	if c.ComputeTimeout <= 0 {
		return defaultComputeTimeout
	}
	return c.ComputeTimeout
}

func (c *Cache) observe(hit bool) {
	if c.Observer != nil {
		c.Observer.ObserveCache(hit)
	}
}

// Key derives the store key for a board and candidate words.
// Letter case and candidate order do not change the key.
func Key(g board.Grid, candidates []string) string {
	h := sha256.New()
	for _, row := range g {
		for _, label := range row {
			fmt.Fprintf(h, "%s,", strings.ToUpper(label))
		}
		h.Write([]byte{'\n'})
	}
	switch {
	case candidates == nil:
		h.Write([]byte("*"))
	default:
		words := make([]string, len(candidates))
		for i, w := range candidates {
			words[i] = strings.ToUpper(w)
		}
		sort.Strings(words)
		for _, w := range words {
			fmt.Fprintf(h, "%s ", w)
		}
	}
	sum := h.Sum(nil)
	return fmt.Sprintf("%s%x", keyPrefix, sum[:16])
}
