// Package main starts the server after configuring it from supplied or standard arguments
package main

import (
	"context"
	crypto_rand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adamtheturtle/boggle-solver/server"
)

// main configures and runs the server.
func main() {
	ctx := context.Background()
	logFlags := log.Ldate | log.Ltime | log.LUTC | log.Lshortfile | log.Lmsgprefix
	log := log.New(os.Stdout, "", logFlags)
	m := newMainFlags(os.Args, os.LookupEnv)
	d := dependencies{
		keyReader: crypto_rand.Reader,
		openFunc: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
		timeFunc: time.Now,
	}
	server, store, err := m.createServer(ctx, log, d)
	if err != nil {
		log.Fatalf("creating server: %v", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	done := make(chan os.Signal, 2)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	if err := runServer(ctx, server, done, log); err != nil {
		log.Printf("running server: %v", err)
		return
	}
	log.Println("server run stopped successfully")
}

// runServer runs the server until it is interrupted or terminated.
func runServer(ctx context.Context, server *server.Server, done <-chan os.Signal, log *log.Logger) error {
	errC := server.Run(ctx)
	select { // BLOCKING
	case err := <-errC:
		switch {
		case errors.Is(err, http.ErrServerClosed):
			log.Printf("server shutdown triggered")
		default:
			log.Printf("server stopped unexpectedly: %v", err)
		}
	case signal := <-done:
		log.Printf("handled signal: %v", signal)
	}
	if err := server.Stop(ctx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
