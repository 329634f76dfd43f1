package logging

import (
	"io"
	"log"
)

// Logger is the minimal debug logging surface used across the harness.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Println(args ...interface{})                {}
func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger discards everything.
func NullLogger() Logger { return nullLogger{} }

// New returns a timestamped logger writing to out.
func New(out io.Writer) Logger {
	return log.New(out, "", log.LstdFlags)
}

type prefixedLogger struct {
	base   Logger
	prefix string
}

// WithPrefix prepends prefix to every message written through base.
func WithPrefix(base Logger, prefix string) Logger {
	if base == nil {
		return NullLogger()
	}
	return prefixedLogger{base: base, prefix: prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}
