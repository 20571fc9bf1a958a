// Package log provides an abstraction over log.Logger.
package log

// Logger is the narrow logging interface shared by the solver and the server.
// The standard *log.Logger satisfies it.
type Logger interface {
	// Printf writes the formatted values to the logger in the manner of fmt.Printf.
	Printf(format string, v ...interface{})
}
