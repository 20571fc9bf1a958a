package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/adamtheturtle/boggle-solver/game"
	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/game/solver"
	"github.com/adamtheturtle/boggle-solver/server/log"
	"github.com/adamtheturtle/boggle-solver/server/metrics"
	"github.com/go-playground/validator/v10"
)

type (
	contextKey int

	// boardResponse is returned when a board is created.
	boardResponse struct {
		Token string `json:"token"`
		Rows  int    `json:"rows"`
		Cols  int    `json:"cols"`
	}

	// wordsRequest optionally lists the candidate words.  The dictionary is used when Words is missing.
	wordsRequest struct {
		Words []string `json:"words" validate:"omitempty,max=200000,dive,required,alpha,max=64"`
	}

	wordsResponse struct {
		Words  []string `json:"words"`
		Cached bool     `json:"cached"`
	}

	checkRequest struct {
		Word string `json:"word" validate:"required,alpha,max=64"`
	}
)

const (
	gridContextKey contextKey = iota + 1
)

// requestValidator checks decoded request bodies.
var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// apiHandler creates the handler for the board endpoints.
func (s *Server) apiHandler(p Parameters) http.Handler {
	m := p.Metrics
	mux := http.NewServeMux()
	handle := func(pattern, path string, h http.Handler) {
		mux.Handle(pattern, m.Middleware(path, h))
	}
	handle("POST /board", "/board", boardHandler(p.Tokenizer, m, p.Logger))
	handle("POST /words", "/words", authHandler(wordsHandler(p.Solver, p.Cache, p.Dictionary, s.CacheSec, p.Logger), p.Tokenizer, p.Logger))
	handle("POST /check", "/check", authHandler(checkHandler(p.Solver, p.Logger), p.Tokenizer, p.Logger))
	handle("GET /ws", "/ws", authHandler(s.socketHandler(p), p.Tokenizer, p.Logger))
	handle("GET /rules", "/rules", http.HandlerFunc(rulesHandler))
	handle("GET /monitor", "/monitor", runtimeMonitor{hasTLS: s.hasTLS()})
	handle("POST /ping", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// NOOP
	}))
	mux.Handle("GET /metrics", m.Handler())
	return s.securityHandler(http.MaxBytesHandler(mux, s.MaxBodyBytes))
}

// securityHandler adds the strict transport header to responses when the api is served over https.
func (s *Server) securityHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.hasTLS() {
			w.Header().Set(HeaderStrictTransportSecurity, "max-age=63072000")
		}
		h.ServeHTTP(w, r)
	}
}

// httpHandler creates a handler for HTTP endpoints when the api is served on https.
// ACME challenges are answered when certificates are managed automatically.  Other requests are redirected.
func (s *Server) httpHandler() http.Handler {
	redirect := httpsRedirectHandler(s.HTTPSPort)
	if s.certManager != nil {
		return s.certManager.HTTPHandler(redirect)
	}
	return redirect
}

// boardHandler reads a board and returns a token for it.
func boardHandler(tokenizer Tokenizer, m *metrics.Metrics, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := board.Parse(r.Body)
		if err != nil {
			writeError(err, log, w)
			return
		}
		token, err := tokenizer.Create(g)
		if err != nil {
			writeError(fmt.Errorf("creating board token: %w", err), log, w)
			return
		}
		m.BoardsCreatedTotal.Inc()
		cfg := g.Config()
		resp := boardResponse{
			Token: token,
			Rows:  cfg.NumRows,
			Cols:  cfg.NumCols,
		}
		writeJSON(w, resp, log)
	}
}

// wordsHandler lists the words of the request, or of the dictionary, that are on the board.
func wordsHandler(s Solver, c Cache, d Dictionary, cacheSec int, log log.Logger) http.HandlerFunc {
	cacheMaxAge := fmt.Sprintf("private, max-age=%d", cacheSec)
	return func(w http.ResponseWriter, r *http.Request) {
		g := contextGrid(r.Context())
		var req wordsRequest
		if err := decodeRequest(r, &req, true); err != nil {
			writeError(err, log, w)
			return
		}
		words, cached, err := c.Words(r.Context(), g, req.Words, func(ctx context.Context) ([]string, error) {
			candidates := req.Words
			if candidates == nil {
				candidates = d.Words()
			}
			return s.ListWords(ctx, g, candidates)
		})
		if err != nil {
			writeError(fmt.Errorf("listing words: %w", err), log, w)
			return
		}
		resp := wordsResponse{
			Words:  words,
			Cached: cached,
		}
		w.Header().Set(HeaderCacheControl, cacheMaxAge)
		writeJSON(w, resp, log)
	}
}

// checkHandler checks a single word and returns the route of its tiles when it is on the board.
func checkHandler(s Solver, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := contextGrid(r.Context())
		var req checkRequest
		if err := decodeRequest(r, &req, false); err != nil {
			writeError(err, log, w)
			return
		}
		result, err := s.Check(r.Context(), g, req.Word)
		if err != nil {
			writeError(fmt.Errorf("checking word: %w", err), log, w)
			return
		}
		writeJSON(w, result, log)
	}
}

// socketHandler upgrades the request to a websocket that checks words against the board until it is closed.
func (s *Server) socketHandler(p Parameters) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := contextGrid(r.Context())
		conn, err := p.Upgrader.Upgrade(w, r)
		if err != nil {
			p.Logger.Printf("upgrading websocket: %v", err)
			return // the upgrader writes the error response
		}
		sock, err := p.SocketCfg.NewSocket(conn)
		if err != nil {
			conn.Close()

			p.Logger.Printf("creating websocket: %v", err)
			return
		}
		s.wg.Add(1)
		defer s.wg.Done()
		p.Metrics.SocketsOpen.Inc()
		defer p.Metrics.SocketsOpen.Dec()
		sock.Run(s.socketCtx, func(ctx context.Context, text string) (*solver.Result, error) {
			return p.Solver.Check(ctx, g, text)
		})
	}
}

// rulesHandler writes the rules of the game.
func rulesHandler(w http.ResponseWriter, r *http.Request) {
	var buf strings.Builder
	for _, rule := range game.Rules() {
		fmt.Fprintln(&buf, rule)
	}
	addMimeType(".txt", w)
	w.Write([]byte(buf.String()))
}

// authHandler reads the board from the token of the request before running the child handler.
// The token is read from the authorization header, or from the access_token query parameter for websockets.
func authHandler(h http.Handler, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := readToken(r, tokenizer)
		if err != nil {
			log.Printf("reading board token: %v", err)
			httpError(w, http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), gridContextKey, g)
		h.ServeHTTP(w, r.WithContext(ctx))
	}
}

// readToken retrieves the board of the request token.
func readToken(r *http.Request, tokenizer Tokenizer) (board.Grid, error) {
	tokenString := r.URL.Query().Get("access_token")
	if len(tokenString) == 0 {
		authorization := r.Header.Get(HeaderAuthorization)
		if len(authorization) < 7 || authorization[:7] != "Bearer " {
			return nil, fmt.Errorf("invalid authorization header: %q", authorization)
		}
		tokenString = authorization[7:]
	}
	return tokenizer.ReadGrid(tokenString)
}

// contextGrid returns the board added by the authHandler.
func contextGrid(ctx context.Context) board.Grid {
	g, _ := ctx.Value(gridContextKey).(board.Grid)
	return g
}

// decodeRequest reads the json body of the request into v and validates it.
func decodeRequest(r *http.Request, v interface{}, allowEmpty bool) error {
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	switch err := d.Decode(v); {
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	case err != nil:
		return badRequestError{fmt.Errorf("decoding request: %w", err)}
	}
	if err := requestValidator.Struct(v); err != nil {
		return badRequestError{fmt.Errorf("validating request: %w", err)}
	}
	return nil
}

// badRequestError marks errors caused by the request.
type badRequestError struct {
	error
}

func (e badRequestError) Unwrap() error {
	return e.error
}

// statusCode determines the http status for the error.
func statusCode(err error) int {
	var maxBytesErr *http.MaxBytesError
	var badRequestErr badRequestError
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &badRequestErr),
		errors.Is(err, board.ErrInvalidInput),
		errors.Is(err, solver.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError writes the error message for errors caused by the request.  Other errors are logged and hidden.
func writeError(err error, log log.Logger, w http.ResponseWriter) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		writeInternalError(err, log, w)
		return
	}
	http.Error(w, err.Error(), code)
}

// writeJSON writes the value as json.
func writeJSON(w http.ResponseWriter, v interface{}, log log.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		writeInternalError(fmt.Errorf("encoding response: %w", err), log, w)
		return
	}
	addMimeType(".json", w)
	w.Write(data)
}

// httpsRedirectHandler redirects the request to https.
func httpsRedirectHandler(httpsPort int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		// derived from net.SplitHostPort, but does not throw error :
		lastColonIndex := strings.LastIndex(host, ":")
		if lastColonIndex >= 0 {
			host = host[:lastColonIndex]
		}
		if httpsPort != 443 {
			host += fmt.Sprintf(":%d", httpsPort)
		}
		httpsURI := "https://" + host + r.URL.Path
		http.Redirect(w, r, httpsURI, http.StatusMovedPermanently)
	}
}

// writeInternalError logs and writes the error as an internal server error (500).
func writeInternalError(err error, log log.Logger, w http.ResponseWriter) {
	log.Printf("server error: %v", err)
	httpError(w, http.StatusInternalServerError)
}

// httpError writes the error status code.
func httpError(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}

// addMimeType adds the applicable mime type to the response.  Files without extensions are assumed to be text
func addMimeType(fileName string, w http.ResponseWriter) {
	if !strings.Contains(fileName, ".") {
		fileName = ".txt"
	}
	extension := filepath.Ext(fileName)
	mimeType := mime.TypeByExtension(extension)
	w.Header().Add(HeaderContentType, mimeType)
}
