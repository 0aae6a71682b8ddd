package logger

import "github.com/relogd/relog/core"

// Level is re-exported so callers of this package rarely need to
// import core directly.
type Level = core.LogLevel

const (
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
)

// ParseLevel converts a level name to a Level. Unknown names map to
// InfoLevel.
func ParseLevel(s string) Level {
	return core.ParseLevel(s)
}
