// Package server runs the http server that checks words against boards for clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/adamtheturtle/boggle-solver/game/board"
	"github.com/adamtheturtle/boggle-solver/game/solver"
	"github.com/adamtheturtle/boggle-solver/server/log"
	"github.com/adamtheturtle/boggle-solver/server/metrics"
	"github.com/adamtheturtle/boggle-solver/server/socket"
	"golang.org/x/crypto/acme/autocert"
)

type (
	// Server runs the site
	Server struct {
		wg          sync.WaitGroup
		log         log.Logger
		certManager *autocert.Manager
		socketCtx   context.Context
		stopSockets context.CancelFunc
		HTTPServer  *http.Server
		HTTPSServer *http.Server
		Config
	}

	// Config contains fields which describe the server
	Config struct {
		// HTTPPort is the TCP port for server http requests.
		// When HTTPSPort is positive, http traffic is redirected to it.  Otherwise the api is served on this port.
		HTTPPort int
		// HTTPSPort is the TCP port for server https requests.  The api is served on plain http when it is not positive.
		HTTPSPort int
		// StopDur is the maximum duration the server should take to shutdown gracefully
		StopDur time.Duration
		// TLSCertFile is the public HTTPS TLS certificate file.
		TLSCertFile string
		// TLSKeyFile is the private HTTPS TLS key file.
		TLSKeyFile string
		// ACMEHosts are the host names to get certificates for automatically.  Used instead of the TLS files.
		ACMEHosts []string
		// ACMECacheDir is the directory where automatically created certificates are stored.
		ACMECacheDir string
		// CacheSec is the number of seconds word lists may be cached by clients.
		CacheSec int
		// MaxBodyBytes limits the size of request bodies.
		MaxBodyBytes int64
	}

	// Parameters contains the interfaces needed to create a new server
	Parameters struct {
		log.Logger
		Tokenizer
		Solver
		Cache
		Dictionary
		Upgrader  socket.Upgrader
		SocketCfg socket.Config
		Metrics   *metrics.Metrics
	}

	// Tokenizer creates and reads board tokens.
	Tokenizer interface {
		Create(g board.Grid) (string, error)
		ReadGrid(tokenString string) (board.Grid, error)
	}

	// Solver checks words against boards.
	Solver interface {
		ListWords(ctx context.Context, g board.Grid, words []string) ([]string, error)
		Check(ctx context.Context, g board.Grid, w string) (*solver.Result, error)
	}

	// Cache stores word lists of boards.
	Cache interface {
		Words(ctx context.Context, g board.Grid, candidates []string, compute func(ctx context.Context) ([]string, error)) ([]string, bool, error)
	}

	// Dictionary supplies the candidate words when a request has none.
	Dictionary interface {
		Words() []string
	}
)

const (
	// HeaderContentType is used to set the document type header on http responses.
	HeaderContentType = "Content-Type"
	// HeaderCacheControl is used to tell clients how long to cache http responses.
	HeaderCacheControl = "Cache-Control"
	// HeaderStrictTransportSecurity is used to tell browsers the site should only be accessed using HTTPS.
	HeaderStrictTransportSecurity = "Strict-Transport-Security"
	// HeaderAuthorization carries the board token.
	HeaderAuthorization = "Authorization"
	// defaultMaxBodyBytes is used when the MaxBodyBytes is not set.
	defaultMaxBodyBytes = 1 << 20
)

// NewServer creates a Server from the Config
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	socketCtx, stopSockets := context.WithCancel(context.Background())
	s := Server{
		log:         p.Logger,
		socketCtx:   socketCtx,
		stopSockets: stopSockets,
		Config:      cfg,
	}
	if len(cfg.ACMEHosts) != 0 {
		s.certManager = &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.ACMEHosts...),
			Cache:      autocert.DirCache(cfg.ACMECacheDir),
		}
	}
	apiHandler := s.apiHandler(p)
	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpsAddr := fmt.Sprintf(":%d", cfg.HTTPSPort)
	switch {
	case cfg.hasTLS():
		s.HTTPSServer = &http.Server{
			Addr:         httpsAddr,
			Handler:      apiHandler,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		}
		if s.certManager != nil {
			s.HTTPSServer.TLSConfig = s.certManager.TLSConfig()
		}
		s.HTTPSServer.RegisterOnShutdown(stopSockets)
		if cfg.HTTPPort > 0 {
			s.HTTPServer = &http.Server{
				Addr:         httpAddr,
				Handler:      s.httpHandler(),
				ReadTimeout:  60 * time.Second,
				WriteTimeout: 60 * time.Second,
			}
		}
	default:
		s.HTTPServer = &http.Server{
			Addr:         httpAddr,
			Handler:      apiHandler,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		}
		s.HTTPServer.RegisterOnShutdown(stopSockets)
	}
	return &s, nil
}

// validate ensures the configuration and parameters have no errors.
func (cfg Config) validate(p Parameters) error {
	if err := p.validate(); err != nil {
		return err
	}
	switch {
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	case cfg.CacheSec < 0:
		return fmt.Errorf("nonnegative cache seconds required")
	case cfg.HTTPPort <= 0 && cfg.HTTPSPort <= 0:
		return fmt.Errorf("positive http or https port required")
	case cfg.HTTPSPort > 0 && len(cfg.ACMEHosts) == 0 && (len(cfg.TLSCertFile) == 0 || len(cfg.TLSKeyFile) == 0):
		return fmt.Errorf("tls certificate and key files or acme hosts required for https port")
	case len(cfg.ACMEHosts) != 0 && cfg.HTTPSPort <= 0:
		return fmt.Errorf("https port required for acme hosts")
	case len(cfg.ACMEHosts) != 0 && len(cfg.ACMECacheDir) == 0:
		return fmt.Errorf("acme cache directory required for acme hosts")
	}
	return nil
}

// validate ensures that all of the parameters are present.
func (p Parameters) validate() error {
	switch {
	case p.Logger == nil:
		return fmt.Errorf("log required")
	case p.Tokenizer == nil:
		return fmt.Errorf("tokenizer required")
	case p.Solver == nil:
		return fmt.Errorf("solver required")
	case p.Cache == nil:
		return fmt.Errorf("cache required")
	case p.Dictionary == nil:
		return fmt.Errorf("dictionary required")
	case p.Upgrader == nil:
		return fmt.Errorf("websocket upgrader required")
	case p.Metrics == nil:
		return fmt.Errorf("metrics required")
	}
	return nil
}

// hasTLS determines if the api is served over https.
func (cfg Config) hasTLS() bool {
	return cfg.HTTPSPort > 0
}

// Run the server asynchronously until it receives a shutdown signal.
// When the HTTP/HTTPS servers stop, errors are logged to the error channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 2)
	go func() {
		<-ctx.Done()
		s.stopSockets()
	}()
	if s.HTTPServer != nil {
		s.log.Printf("starting http server at http://127.0.0.1%v", s.HTTPServer.Addr)
		go func() {
			errC <- s.HTTPServer.ListenAndServe()
		}()
	}
	if s.HTTPSServer != nil {
		s.log.Printf("starting https server at https://127.0.0.1%v", s.HTTPSServer.Addr)
		go func() {
			switch {
			case s.certManager != nil:
				if len(s.TLSCertFile) != 0 || len(s.TLSKeyFile) != 0 {
					s.log.Printf("ignoring TLS_CERT_FILE/TLS_KEY_FILE since ACME_HOSTS was specified, using automated certificate management")
				}
				errC <- s.HTTPSServer.ListenAndServeTLS("", "")
			default:
				errC <- s.HTTPSServer.ListenAndServeTLS(s.TLSCertFile, s.TLSKeyFile)
			}
		}()
	}
	return errC
}

// Stop asks the server to shutdown and waits for the shutdown to complete.
// An error is returned if the server if the context times out.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	s.stopSockets()
	var errs []error
	if s.HTTPSServer != nil {
		if err := s.HTTPSServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping https server: %w", err))
		}
	}
	if s.HTTPServer != nil {
		if err := s.HTTPServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping http server: %w", err))
		}
	}
	if len(errs) != 0 {
		return errors.Join(errs...)
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for sockets to close: %w", ctx.Err())
	case <-done:
	}
	return nil
}
