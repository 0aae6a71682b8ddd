package core

// Source markers carried by legacy structured reports. A report whose
// marker is not one of these is dropped by the classifier.
const (
	MarkerStdError   = "std_error"
	MarkerStdWarning = "std_warning"
	MarkerStdInfo    = "std_info"
)

// EventType tags the raw intake union.
type EventType uint8

const (
	// DirectMessage is a caller-supplied level + metadata + message.
	DirectMessage EventType = iota
	// LegacyFormat is a legacy (pid, format, args) report.
	LegacyFormat
	// LegacyReport is a legacy (pid, marker, term) structured report.
	LegacyReport
	// LegacyTagged is a legacy (pid, (owner, metadata), term) report.
	LegacyTagged
)

// Origin identifies the emitting process.
type Origin struct {
	Pid  int
	Node string
}

// Event is a raw intake event before classification. Exactly one
// payload group is meaningful, selected by Type: Message for
// DirectMessage, Format/Args for LegacyFormat, Marker/Term for
// LegacyReport, and Marker/Meta/Term for LegacyTagged.
type Event struct {
	Type   EventType
	Level  LogLevel
	Origin Origin
	Meta   map[string]any

	Message CharData
	Format  string
	Args    []any
	Marker  string
	Term    any
}

// Kind selects the rendering strategy for a classified event.
type Kind uint8

const (
	// KindMessage payloads are emitted verbatim (after truncation).
	KindMessage Kind = iota
	// KindFormat payloads are rewritten and rendered at dispatch time,
	// so events headed for an empty sink set never pay formatting cost.
	KindFormat
	// KindReport payloads are pretty-printed terms.
	KindReport
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindFormat:
		return "format"
	case KindReport:
		return "report"
	default:
		return "unknown"
	}
}

// ClassifiedEvent is the uniform record every accepted event becomes.
// The payload field matching Kind is set; the others are zero.
type ClassifiedEvent struct {
	Level  LogLevel
	Kind   Kind
	Origin Origin
	Meta   map[string]any

	Message CharData
	Format  string
	Args    []any
	Term    any
}
