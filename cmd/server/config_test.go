package main

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/server/cache"
	"github.com/adamtheturtle/boggle-solver/server/log/logtest"
	"github.com/adamtheturtle/boggle-solver/server/metrics"
)

func TestCreateServer(t *testing.T) {
	createServerTests := []struct {
		m      mainFlags
		keyErr bool
		wantOk bool
	}{
		{ // zero workers
			m: mainFlags{httpPort: 8000, cacheSec: 60, tokenSec: 60},
		},
		{ // negative cache time
			m: mainFlags{httpPort: 8000, workers: 1, cacheSec: -1, tokenSec: 60},
		},
		{ // found words are not stored
			m:      mainFlags{httpPort: 8000, workers: 1, tokenSec: 60},
			wantOk: true,
		},
		{ // no token time
			m: mainFlags{httpPort: 8000, workers: 1, cacheSec: 60},
		},
		{ // no port
			m: mainFlags{workers: 1, cacheSec: 60, tokenSec: 60},
		},
		{ // https without certificates
			m: mainFlags{httpPort: 8000, httpsPort: 8443, workers: 1, cacheSec: 60, tokenSec: 60},
		},
		{
			m:      mainFlags{httpPort: 8000, workers: 1, cacheSec: 60, tokenSec: 60},
			keyErr: true,
		},
		{
			m:      mainFlags{httpPort: 8000, workers: 1, cacheSec: 60, tokenSec: 60},
			wantOk: true,
		},
		{
			m: mainFlags{
				httpPort:     80,
				httpsPort:    443,
				workers:      4,
				cacheSec:     60,
				tokenSec:     60,
				acmeHosts:    "example.com",
				acmeCacheDir: t.TempDir(),
			},
			wantOk: true,
		},
	}
	for i, test := range createServerTests {
		d, _ := testDependencies("bar")
		if test.keyErr {
			d.keyReader = errReader{}
		}
		s, store, err := test.m.createServer(context.Background(), logtest.DiscardLogger, d)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case s == nil:
			t.Errorf("Test %v: wanted server", i)
		default:
			if _, ok := store.(*cache.MemoryStore); !ok {
				t.Errorf("Test %v: wanted memory store when redis url is missing, got %T", i, store)
			}
		}
	}
}

func TestCreateServerRedisUnavailable(t *testing.T) {
	m := mainFlags{
		httpPort: 8000,
		workers:  1,
		cacheSec: 60,
		tokenSec: 60,
		redisURL: "not a redis url",
	}
	d, _ := testDependencies("")
	if _, _, err := m.createServer(context.Background(), logtest.DiscardLogger, d); err == nil {
		t.Error("wanted error for invalid redis url")
	}
}

func TestDictionary(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		var m mainFlags
		d, f := testDependencies("bar")
		got, err := m.dictionary(d)
		switch {
		case err != nil:
			t.Errorf("unwanted error: %v", err)
		case got.Len() != 0:
			t.Errorf("wanted empty dictionary, got %v", got.Words())
		case f.closed:
			t.Errorf("words file should not be opened")
		}
	})
	t.Run("file", func(t *testing.T) {
		m := mainFlags{wordsFile: "words.txt"}
		d, f := testDependencies("bar car\nfoo")
		got, err := m.dictionary(d)
		want := []string{"BAR", "CAR", "FOO"}
		switch {
		case err != nil:
			t.Errorf("unwanted error: %v", err)
		case !reflect.DeepEqual(want, got.Words()):
			t.Errorf("wanted %v, got %v", want, got.Words())
		case !f.closed:
			t.Errorf("wanted words file to be closed")
		}
	})
	t.Run("open error", func(t *testing.T) {
		m := mainFlags{wordsFile: "missing.txt"}
		d, _ := testDependencies("")
		openErr := errors.New("mock open error")
		d.openFunc = func(name string) (io.ReadCloser, error) {
			return nil, openErr
		}
		if _, err := m.dictionary(d); !errors.Is(err, openErr) {
			t.Errorf("wanted open error, got %v", err)
		}
	})
}

func TestTokenizer(t *testing.T) {
	m := mainFlags{tokenSec: 60}
	d, _ := testDependencies("")
	tokenizer, err := m.tokenizer(d)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	g := board.Grid{{"A", "B"}, {"C", "D"}}
	token, err := tokenizer.Create(g)
	if err != nil {
		t.Fatalf("unwanted error creating token: %v", err)
	}
	got, err := tokenizer.ReadGrid(token)
	switch {
	case err != nil:
		t.Errorf("unwanted error reading token: %v", err)
	case !reflect.DeepEqual(g, got):
		t.Errorf("wanted %v, got %v", g, got)
	}
}

func TestComponentConfigs(t *testing.T) {
	m := mainFlags{
		workers:  3,
		cacheSec: 90,
		debug:    true,
	}
	met := metrics.New()
	solverCfg := m.solverConfig(logtest.DiscardLogger, met)
	if solverCfg.Workers != 3 || !solverCfg.Debug || solverCfg.Observer == nil {
		t.Errorf("unwanted solver config: %v", solverCfg)
	}
	cacheCfg := m.cacheConfig(logtest.DiscardLogger, met)
	if want, got := 90*time.Second, cacheCfg.TTL; want != got {
		t.Errorf("wanted cache ttl %v, got %v", want, got)
	}
	socketCfg := m.socketConfig(logtest.DiscardLogger)
	if socketCfg.PingPeriod >= socketCfg.ReadWait {
		t.Errorf("wanted ping period less than read wait: %v", socketCfg)
	}
	serverCfg := mainFlags{httpPort: 1, httpsPort: 2, acmeHosts: "a,b"}.serverConfig()
	if want, got := []string{"a", "b"}, serverCfg.ACMEHosts; !reflect.DeepEqual(want, got) {
		t.Errorf("wanted acme hosts %v, got %v", want, got)
	}
}
