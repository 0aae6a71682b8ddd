package logger

import (
	"sync"

	"github.com/relogd/relog/config"
	"github.com/relogd/relog/core"
)

var (
	defaultPipeline *Pipeline
	defaultMu       sync.RWMutex
)

func init() {
	// Initialize and start the default pipeline with console output
	p := New(config.Default())
	_ = p.Start()
	defaultPipeline = p
}

// Default returns the default pipeline
func Default() *Pipeline {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultPipeline
}

// SetDefault replaces the default pipeline. The previous pipeline is
// not stopped; the caller owns both lifecycles.
func SetDefault(p *Pipeline) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultPipeline = p
}

// Package-level convenience functions using the default pipeline

// Debug logs a debug message using the default pipeline
func Debug(msg string) error {
	return Default().Log(DebugLevel, core.Text(msg), nil)
}

// Info logs an info message using the default pipeline
func Info(msg string) error {
	return Default().Log(InfoLevel, core.Text(msg), nil)
}

// Warn logs a warning message using the default pipeline
func Warn(msg string) error {
	return Default().Log(WarnLevel, core.Text(msg), nil)
}

// Error logs an error message using the default pipeline
func Error(msg string) error {
	return Default().Log(ErrorLevel, core.Text(msg), nil)
}

// Debugf logs a directive-formatted debug message using the default pipeline
func Debugf(format string, args ...any) error {
	return Default().Logf(DebugLevel, format, args...)
}

// Infof logs a directive-formatted info message using the default pipeline
func Infof(format string, args ...any) error {
	return Default().Logf(InfoLevel, format, args...)
}

// Warnf logs a directive-formatted warning message using the default pipeline
func Warnf(format string, args ...any) error {
	return Default().Logf(WarnLevel, format, args...)
}

// Errorf logs a directive-formatted error message using the default pipeline
func Errorf(format string, args ...any) error {
	return Default().Logf(ErrorLevel, format, args...)
}
