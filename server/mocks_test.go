package server

import (
	"context"
	"net/http"

	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/game/solver"
	"github.com/adamtheturtle/boggle-solver/server/socket"
)

type mockTokenizer struct {
	CreateFunc   func(g board.Grid) (string, error)
	ReadGridFunc func(tokenString string) (board.Grid, error)
}

func (m mockTokenizer) Create(g board.Grid) (string, error) {
	return m.CreateFunc(g)
}

func (m mockTokenizer) ReadGrid(tokenString string) (board.Grid, error) {
	return m.ReadGridFunc(tokenString)
}

type mockSolver struct {
	ListWordsFunc func(ctx context.Context, g board.Grid, words []string) ([]string, error)
	CheckFunc     func(ctx context.Context, g board.Grid, w string) (*solver.Result, error)
}

func (m mockSolver) ListWords(ctx context.Context, g board.Grid, words []string) ([]string, error) {
	return m.ListWordsFunc(ctx, g, words)
}

func (m mockSolver) Check(ctx context.Context, g board.Grid, w string) (*solver.Result, error) {
	return m.CheckFunc(ctx, g, w)
}

type mockCache struct {
	WordsFunc func(ctx context.Context, g board.Grid, candidates []string, compute func(ctx context.Context) ([]string, error)) ([]string, bool, error)
}

func (m mockCache) Words(ctx context.Context, g board.Grid, candidates []string, compute func(ctx context.Context) ([]string, error)) ([]string, bool, error) {
	return m.WordsFunc(ctx, g, candidates, compute)
}

// passthroughCache never stores results.
var passthroughCache = mockCache{
	WordsFunc: func(ctx context.Context, g board.Grid, candidates []string, compute func(ctx context.Context) ([]string, error)) ([]string, bool, error) {
		words, err := compute(ctx)
		return words, false, err
	},
}

type mockDictionary []string

func (m mockDictionary) Words() []string {
	return m
}

type mockUpgrader struct {
	UpgradeFunc func(w http.ResponseWriter, r *http.Request) (socket.Conn, error)
}

func (m mockUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	return m.UpgradeFunc(w, r)
}

// mockConn records if it is closed.  Other methods are not implemented.
type mockConn struct {
	socket.Conn
	closed bool
}

func (m *mockConn) Close() error {
	m.closed = true
	return nil
}
