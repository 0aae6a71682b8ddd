package handler

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/relogd/relog/core"
)

// SinkID names a registered sink. IDs are opaque to the dispatcher;
// the enabled set is a set of these.
type SinkID string

// Sink is an output destination for formatted log lines. Write
// receives the complete line including the trailing newline; the
// level rides along so decorating sinks can color without re-parsing
// the line.
type Sink interface {
	ID() SinkID
	Write(level core.LogLevel, line []byte) error
	Close() error
}

// WriterSink adapts an io.Writer into a Sink. Writes are serialized
// with a mutex. Sinks belong to a single dispatcher incarnation and
// are closed with it; build a fresh WriterSink per incarnation.
type WriterSink struct {
	id SinkID
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w under the given id.
func NewWriterSink(id SinkID, w io.Writer) *WriterSink {
	return &WriterSink{id: id, w: w}
}

// ID implements Sink.
func (s *WriterSink) ID() SinkID { return s.id }

// Write implements Sink.
func (s *WriterSink) Write(_ core.LogLevel, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(line)
	return err
}

// Close closes the underlying writer when it supports closing.
func (s *WriterSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ANSI colored text is a string like \033[<code>mSome_text\033[0m
const (
	ansiPrefix = "\033["
	ansiSuffix = "m"
	ansiReset  = ansiPrefix + "0" + ansiSuffix
)

var levelColors = map[core.LogLevel]string{
	core.DebugLevel: "0;90",
	core.InfoLevel:  "0;97",
	core.WarnLevel:  "0;33",
	core.ErrorLevel: "0;91",
}

// ConsoleSink writes lines to a terminal writer, stdout by default.
// When the writer is an actual terminal the whole line is colored by
// level; otherwise lines pass through undecorated, so piped output
// stays clean.
type ConsoleSink struct {
	id    SinkID
	mu    sync.Mutex
	w     io.Writer
	color bool
	buf   []byte
}

// NewConsoleSink builds a console sink over w; a nil writer means
// os.Stdout.
func NewConsoleSink(id SinkID, w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	s := &ConsoleSink{id: id, w: w}
	if f, ok := w.(*os.File); ok {
		s.color = term.IsTerminal(int(f.Fd()))
	}
	return s
}

// ID implements Sink.
func (s *ConsoleSink) ID() SinkID { return s.id }

// Write implements Sink.
func (s *ConsoleSink) Write(level core.LogLevel, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.color {
		_, err := s.w.Write(line)
		return err
	}
	body := line
	if n := len(body); n > 0 && body[n-1] == '\n' {
		body = body[:n-1]
	}
	s.buf = s.buf[:0]
	s.buf = append(s.buf, ansiPrefix...)
	s.buf = append(s.buf, levelColors[level]...)
	s.buf = append(s.buf, ansiSuffix...)
	s.buf = append(s.buf, body...)
	s.buf = append(s.buf, ansiReset...)
	s.buf = append(s.buf, '\n')
	_, err := s.w.Write(s.buf)
	return err
}

// Close never closes stdout or stderr.
func (s *ConsoleSink) Close() error {
	if s.w == os.Stdout || s.w == os.Stderr {
		return nil
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
