package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adamtheturtle/boggle-solver/game/solver"
	"github.com/adamtheturtle/boggle-solver/game/word"
	"github.com/adamtheturtle/boggle-solver/server"
	"github.com/adamtheturtle/boggle-solver/server/auth"
	"github.com/adamtheturtle/boggle-solver/server/cache"
	"github.com/adamtheturtle/boggle-solver/server/log"
	"github.com/adamtheturtle/boggle-solver/server/metrics"
	"github.com/adamtheturtle/boggle-solver/server/socket"
)

// dependencies are the external resources the server is created from.
type dependencies struct {
	// keyReader supplies random bytes for the token signing key.
	keyReader io.Reader
	// openFunc opens the words file.
	openFunc func(name string) (io.ReadCloser, error)
	// timeFunc supplies the current time.
	timeFunc func() time.Time
}

// createServer creates the server from the flags.  The returned store should be closed after the server stops.
func (m mainFlags) createServer(ctx context.Context, log log.Logger, d dependencies) (*server.Server, cache.Store, error) {
	tokenizer, err := m.tokenizer(d)
	if err != nil {
		return nil, nil, fmt.Errorf("creating board tokenizer: %w", err)
	}
	dictionary, err := m.dictionary(d)
	if err != nil {
		return nil, nil, fmt.Errorf("creating dictionary: %w", err)
	}
	met := metrics.New()
	solverCfg := m.solverConfig(log, met)
	s, err := solverCfg.NewSolver()
	if err != nil {
		return nil, nil, err
	}
	store, err := m.cacheStore(ctx, d)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cache store: %w", err)
	}
	cacheCfg := m.cacheConfig(log, met)
	c, err := cacheCfg.NewCache(store)
	if err != nil {
		return nil, nil, err
	}
	p := server.Parameters{
		Logger:     log,
		Tokenizer:  tokenizer,
		Solver:     s,
		Cache:      c,
		Dictionary: dictionary,
		Upgrader:   socket.NewGorillaUpgrader(),
		SocketCfg:  m.socketConfig(log),
		Metrics:    met,
	}
	cfg := m.serverConfig()
	srv, err := cfg.NewServer(p)
	if err != nil {
		return nil, nil, err
	}
	return srv, store, nil
}

// serverConfig creates the server configuration.
func (m mainFlags) serverConfig() server.Config {
	cfg := server.Config{
		HTTPPort:     m.httpPort,
		HTTPSPort:    m.httpsPort,
		StopDur:      5 * time.Second,
		TLSCertFile:  m.tlsCertFile,
		TLSKeyFile:   m.tlsKeyFile,
		ACMEHosts:    m.hosts(),
		ACMECacheDir: m.acmeCacheDir,
		CacheSec:     m.cacheSec,
	}
	return cfg
}

// tokenizer creates the board token reader/writer with a new random key.
func (m mainFlags) tokenizer(d dependencies) (*auth.Tokenizer, error) {
	key, err := auth.GenerateKey(d.keyReader)
	if err != nil {
		return nil, err
	}
	cfg := auth.TokenizerConfig{
		TimeFunc: func() int64 {
			return d.timeFunc().UTC().Unix()
		},
		ValidSec: int64(m.tokenSec),
	}
	return cfg.NewTokenizer(key)
}

// dictionary reads the words file.  The dictionary is empty when there is no words file.
func (m mainFlags) dictionary(d dependencies) (*word.Dictionary, error) {
	if len(m.wordsFile) == 0 {
		return word.NewDictionary(strings.NewReader(""))
	}
	f, err := d.openFunc(m.wordsFile)
	if err != nil {
		return nil, fmt.Errorf("trying to open words file: %w", err)
	}
	defer f.Close()
	return word.NewDictionary(f)
}

// solverConfig creates the configuration for checking words on boards.
func (m mainFlags) solverConfig(log log.Logger, met *metrics.Metrics) solver.Config {
	cfg := solver.Config{
		Debug:    m.debug,
		Log:      log,
		Workers:  m.workers,
		Observer: met,
	}
	return cfg
}

// cacheStore connects to redis when a redis url is set.  Otherwise, words are cached in memory.
func (m mainFlags) cacheStore(ctx context.Context, d dependencies) (cache.Store, error) {
	if len(m.redisURL) != 0 {
		return cache.NewRedisStore(ctx, m.redisURL)
	}
	return cache.NewMemoryStore(d.timeFunc), nil
}

// cacheConfig creates the configuration for caching found words.
func (m mainFlags) cacheConfig(log log.Logger, met *metrics.Metrics) cache.Config {
	cfg := cache.Config{
		Log:            log,
		TTL:            time.Duration(m.cacheSec) * time.Second,
		ComputeTimeout: 30 * time.Second,
		Debug:          m.debug,
		Observer:       met,
	}
	return cfg
}

// socketConfig creates the configuration for websockets that check words.
func (m mainFlags) socketConfig(log log.Logger) socket.Config {
	cfg := socket.Config{
		Debug:      m.debug,
		Log:        log,
		ReadWait:   60 * time.Second,
		WriteWait:  10 * time.Second,
		PingPeriod: 54 * time.Second, // readWait * 0.9
	}
	return cfg
}
