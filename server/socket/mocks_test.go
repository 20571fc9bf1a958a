package socket

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// mockConn reads the queued words, then blocks until closed.
type mockConn struct {
	words    chan string
	closed   chan struct{}
	once     sync.Once
	mu       sync.Mutex
	written  []Message
	reasons  []string
	writeErr error
	readErr  error
	normal   bool
}

var errMockClosed = errors.New("mock connection closed")

func newMockConn(words ...string) *mockConn {
	c := mockConn{
		words:  make(chan string, len(words)),
		closed: make(chan struct{}),
	}
	for _, w := range words {
		c.words <- w
	}
	return &c
}

func (c *mockConn) ReadJSON(v interface{}) error {
	if c.readErr != nil {
		return c.readErr
	}
	select {
	case w := <-c.words:
		v.(*Message).Word = w
		return nil
	case <-c.closed:
		return errMockClosed
	}
}

func (c *mockConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, v.(Message))
	return nil
}

func (c *mockConn) WritePing() error {
	return nil
}

func (c *mockConn) WriteClose(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reasons = append(c.reasons, reason)
	return nil
}

func (c *mockConn) IsNormalClose(err error) bool {
	return c.normal || err == errMockClosed
}

func (c *mockConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c *mockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (c *mockConn) SetPongHandler(h func(appData string) error) {
	// NOOP
}

func (c *mockConn) Close() error {
	c.once.Do(func() {
		close(c.closed)
	})
	return nil
}

func (c *mockConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8001}
}

func (c *mockConn) Written() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message{}, c.written...)
}

type mockHijacker struct {
	http.ResponseWriter
	net.Conn
	*bufio.ReadWriter
}

func (m mockHijacker) Header() http.Header {
	return m.ResponseWriter.Header()
}

func (m mockHijacker) Write(p []byte) (int, error) {
	return m.ReadWriter.Write(p)
}

func (m mockHijacker) WriteHeader(statusCode int) {
	m.ResponseWriter.WriteHeader(statusCode)
}

func (m mockHijacker) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return m.Conn, m.ReadWriter, nil
}

type redirectConn struct {
	net.Conn
	io.Writer
}

func (c redirectConn) Write(p []byte) (int, error) {
	return c.Writer.Write(p)
}

func newWebsocketResponseWriter() http.ResponseWriter {
	w := httptest.NewRecorder()
	client, _ := net.Pipe()
	sr := strings.NewReader("reader")
	br := bufio.NewReader(sr)
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	rw := bufio.NewReadWriter(br, bw)
	rc := redirectConn{
		Conn:   client,
		Writer: bw,
	}
	h := mockHijacker{
		Conn:           rc,
		ReadWriter:     rw,
		ResponseWriter: w,
	}
	return &h
}

func newWebsocketRequest() *http.Request {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Add("Connection", "upgrade")
	r.Header.Add("Upgrade", "websocket")
	r.Header.Add("Sec-Websocket-Version", "13")
	r.Header.Add("Sec-WebSocket-Key", "3D8mi1hwk11RYYWU8rsdIg==")
	return r
}
