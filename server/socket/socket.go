// Package socket checks words sent by a client over a websocket connection.
package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/adamtheturtle/boggle-solver/game/solver"
	"github.com/adamtheturtle/boggle-solver/game/word"
	"github.com/adamtheturtle/boggle-solver/server/log"
)

type (
	// Socket reads words from a client and writes back whether they are on the board.
	Socket struct {
		Conn
		Config
	}

	// Config contains commonly shared Socket properties
	Config struct {
		// Debug is a flag that causes the socket to log the words that are read and written.
		Debug bool
		// Log is used to log errors and other information
		Log log.Logger
		// ReadWait is the amount of time that can pass between receiving client messages before timing out.
		ReadWait time.Duration
		// WriteWait is the amount of time that the socket can take to write a message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages should be sent.  Should be less than ReadWait.
		PingPeriod time.Duration
	}

	// Conn is the connection than backs the socket
	Conn interface {
		// ReadJSON reads the next json message from the connection.
		ReadJSON(v interface{}) error
		// WriteJSON writes the message as json to the connection.
		WriteJSON(v interface{}) error
		// WritePing writes a ping message on the connection.
		WritePing() error
		// WriteClose writes a close message on the connection.  The connection is NOT closed.
		WriteClose(reason string) error
		// IsNormalClose determines if the error message is not an unexpected close error.
		IsNormalClose(err error) bool
		// SetReadDeadline sets the time after which reads fail.
		SetReadDeadline(t time.Time) error
		// SetWriteDeadline sets the time after which writes fail.
		SetWriteDeadline(t time.Time) error
		// SetPongHandler sets the handler called when the client answers a ping.
		SetPongHandler(h func(appData string) error)
		// Close closes the connection.
		Close() error
		// RemoteAddr gets the remote network address of the connection.
		RemoteAddr() net.Addr
	}

	// Upgrader turns a http request into a websocket.
	Upgrader interface {
		// Upgrade creates a Conn from the HTTP request.
		Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
	}

	// Message is sent in both directions.  Clients fill Word, the socket answers with the rest.
	Message struct {
		Word  string     `json:"word"`
		Valid bool       `json:"valid"`
		Route word.Route `json:"route,omitempty"`
		Error string     `json:"error,omitempty"`
	}

	// CheckFunc decides if a word is on the socket's board.
	CheckFunc func(ctx context.Context, w string) (*solver.Result, error)
)

// NewSocket creates a socket
func (cfg Config) NewSocket(conn Conn) (*Socket, error) {
	if err := cfg.validate(conn); err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	s := Socket{
		Conn:   conn,
		Config: cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(conn Conn) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case conn == nil:
		return fmt.Errorf("websocket connection required")
	case cfg.ReadWait <= 0:
		return fmt.Errorf("positive read wait period required")
	case cfg.WriteWait <= 0:
		return fmt.Errorf("positive write wait period required")
	case cfg.PingPeriod <= 0:
		return fmt.Errorf("positive ping period required")
	case cfg.PingPeriod >= cfg.ReadWait:
		return fmt.Errorf("ping period should be less than read wait")
	}
	return nil
}

// Run checks each word read from the connection and writes the result back.
// Run blocks until the client closes the connection, the connection fails, or the context is cancelled.
// The connection is closed when Run returns.
func (s *Socket) Run(ctx context.Context, check CheckFunc) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	out := make(chan Message)
	var wg sync.WaitGroup
	wg.Add(2)
	go s.readMessages(ctx, cancelFunc, check, out, &wg)
	go s.writeMessages(ctx, cancelFunc, out, &wg)
	wg.Wait()
}

// readMessages checks words from the connection and sends the results to the out channel.
func (s *Socket) readMessages(ctx context.Context, cancelFunc context.CancelFunc, check CheckFunc, out chan<- Message, wg *sync.WaitGroup) {
	defer wg.Done()
	defer cancelFunc()
	s.Conn.SetReadDeadline(time.Now().Add(s.ReadWait))
	s.Conn.SetPongHandler(func(string) error {
		return s.Conn.SetReadDeadline(time.Now().Add(s.ReadWait))
	})
	for { // BLOCKING
		var m Message
		if err := s.Conn.ReadJSON(&m); err != nil {
			if !s.Conn.IsNormalClose(err) && ctx.Err() == nil {
				s.Log.Printf("reading socket messages stopped for %v: %v", s.Conn.RemoteAddr(), err)
			}
			return
		}
		if s.Debug {
			s.Log.Printf("socket reading word %q", m.Word)
		}
		s.Conn.SetReadDeadline(time.Now().Add(s.ReadWait))
		r, err := s.check(ctx, check, m.Word)
		if err != nil {
			s.Log.Printf("checking socket word stopped for %v: %v", s.Conn.RemoteAddr(), err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case out <- *r:
		}
	}
}

// check runs the word through the check func.  Invalid words are reported to the client instead of stopping the socket.
func (s *Socket) check(ctx context.Context, check CheckFunc, w string) (*Message, error) {
	r, err := check(ctx, w)
	switch {
	case errors.Is(err, solver.ErrInvalidInput):
		m := Message{
			Word:  w,
			Error: err.Error(),
		}
		return &m, nil
	case err != nil:
		return nil, err
	}
	m := Message{
		Word:  r.Word,
		Valid: r.Valid,
		Route: r.Route,
	}
	return &m, nil
}

// writeMessages writes results and pings to the connection until the context is done or a write fails.
// It closes the connection when it stops so a blocked read returns.
func (s *Socket) writeMessages(ctx context.Context, cancelFunc context.CancelFunc, out <-chan Message, wg *sync.WaitGroup) {
	pingTicker := time.NewTicker(s.PingPeriod)
	closeReason := "socket closed"
	defer func() {
		cancelFunc()
		pingTicker.Stop()
		s.Conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
		s.Conn.WriteClose(closeReason)
		s.Conn.Close()
		wg.Done()
	}()
	for { // BLOCKING
		var err error
		select {
		case <-ctx.Done():
			return
		case m := <-out:
			err = s.writeMessage(m)
		case <-pingTicker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
			err = s.Conn.WritePing()
		}
		if err != nil {
			closeReason = "write failed"
			s.Log.Printf("writing socket messages stopped for %v: %v", s.Conn.RemoteAddr(), err)
			return
		}
	}
}

// writeMessage writes a message to the connection.
func (s *Socket) writeMessage(m Message) error {
	if s.Debug {
		s.Log.Printf("socket writing word %q: valid=%v", m.Word, m.Valid)
	}
	s.Conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
	if err := s.Conn.WriteJSON(m); err != nil {
		return fmt.Errorf("writing socket message: %w", err)
	}
	return nil
}
