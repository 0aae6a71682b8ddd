package core

import "strings"

// LogLevel is the severity of a log event. The pipeline attaches no
// filtering policy to levels; they order events for display and drive
// the bracketed tag in the output line.
type LogLevel int8

const (
	// DebugLevel for detailed debugging output
	DebugLevel LogLevel = iota
	// InfoLevel for general informational messages
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
)

// String returns the lowercase level name.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// pre-formatted tags so the dispatcher emits them with a single append
var levelTags = [...]string{
	DebugLevel: "[debug]",
	InfoLevel:  "[info]",
	WarnLevel:  "[warn]",
	ErrorLevel: "[error]",
}

// Tag returns the bracketed form used in output lines.
func (l LogLevel) Tag() string {
	if l >= 0 && int(l) < len(levelTags) {
		return levelTags[l]
	}
	return "[unknown]"
}

// TagLong is Tag with the long warning spelling. Legacy reporters
// historically emitted "[warning]" rather than "[warn]"; sinks that
// need to stay byte-compatible with them use this form.
func (l LogLevel) TagLong() string {
	if l == WarnLevel {
		return "[warning]"
	}
	return l.Tag()
}

// ParseLevel converts a level name to a LogLevel. Unknown names map
// to InfoLevel.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
