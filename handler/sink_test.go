package handler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/relogd/relog/core"
)

func TestWriterSink_WritesLineVerbatim(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink("buf", &buf)

	if err := s.Write(core.InfoLevel, []byte("hello\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := buf.String(); got != "hello\n" {
		t.Errorf("buffer = %q, want %q", got, "hello\n")
	}
	if s.ID() != "buf" {
		t.Errorf("ID() = %q", s.ID())
	}
}

type closableBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closableBuffer) Close() error {
	b.closed = true
	return nil
}

func TestWriterSink_ClosePropagates(t *testing.T) {
	b := &closableBuffer{}
	s := NewWriterSink("c", b)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !b.closed {
		t.Error("underlying writer was not closed")
	}
}

func TestWriterSink_CloseOnPlainWriter(t *testing.T) {
	s := NewWriterSink("p", &bytes.Buffer{})
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestConsoleSink_NonTerminalWriterStaysPlain(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink("console", &buf)

	line := []byte("2026-03-07 09:05:02 [error] boom\n")
	if err := s.Write(core.ErrorLevel, line); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got := buf.String()
	if got != string(line) {
		t.Errorf("output = %q, want verbatim line", got)
	}
	if strings.Contains(got, ansiPrefix) {
		t.Error("piped output carries ANSI escapes")
	}
}

func TestConsoleSink_ColoredWriteShape(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink("console", &buf)
	s.color = true

	if err := s.Write(core.WarnLevel, []byte("careful\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := ansiPrefix + levelColors[core.WarnLevel] + ansiSuffix +
		"careful" + ansiReset + "\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleSink_EveryLevelHasColor(t *testing.T) {
	for _, level := range []core.LogLevel{
		core.DebugLevel, core.InfoLevel, core.WarnLevel, core.ErrorLevel,
	} {
		if _, ok := levelColors[level]; !ok {
			t.Errorf("no color code for level %v", level)
		}
	}
}
