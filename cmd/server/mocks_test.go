package main

import (
	"errors"
	"io"
	"strings"
	"time"
)

// mockReadCloser implements the io.ReadCloser interface.
type mockReadCloser struct {
	io.Reader
	closed bool
}

func (m *mockReadCloser) Close() error {
	m.closed = true
	return nil
}

// errReader fails every read.
type errReader struct{}

func (errReader) Read(p []byte) (int, error) {
	return 0, errors.New("mock read error")
}

// testDependencies creates dependencies that read the words from the text.
func testDependencies(words string) (dependencies, *mockReadCloser) {
	f := mockReadCloser{
		Reader: strings.NewReader(words),
	}
	d := dependencies{
		keyReader: strings.NewReader(strings.Repeat("k", 100)),
		openFunc: func(name string) (io.ReadCloser, error) {
			return &f, nil
		},
		timeFunc: func() time.Time {
			return time.Unix(1_700_000_000, 0)
		},
	}
	return d, &f
}
