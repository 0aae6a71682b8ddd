package logger

import "github.com/relogd/relog/core"

// Forwarder relays an event to the classifier running on its origin
// node. Debug events from a remote origin are forwarded rather than
// rendered locally, so a record shows up once per deployment instead
// of once per host. Without a Forwarder such events are dropped.
type Forwarder interface {
	Forward(node string, ev core.Event) error
}

// levelForMarker maps a legacy report source marker to the level it
// implies. The second result is false for unrecognized markers, which
// the classifier drops.
func levelForMarker(marker string) (core.LogLevel, bool) {
	switch marker {
	case core.MarkerStdError:
		return core.ErrorLevel, true
	case core.MarkerStdWarning:
		return core.WarnLevel, true
	case core.MarkerStdInfo:
		return core.InfoLevel, true
	}
	return 0, false
}

// asCharData coerces the textual payload shapes a tagged report may
// carry. Anything else means the report is malformed.
func asCharData(term any) (core.CharData, bool) {
	switch v := term.(type) {
	case core.CharData:
		return v, true
	case string:
		return core.Text(v), true
	case []byte:
		return core.Text(string(v)), true
	}
	return nil, false
}

// classify normalizes one raw event. The second result is false when
// the event is dropped or forwarded; a drop is deliberate
// permissiveness, never an error.
func (p *Pipeline) classify(ev core.Event) (core.ClassifiedEvent, bool) {
	if ev.Level == core.DebugLevel && ev.Origin.Node != "" && ev.Origin.Node != p.node {
		if p.forward != nil {
			_ = p.forward.Forward(ev.Origin.Node, ev)
		}
		return core.ClassifiedEvent{}, false
	}

	switch ev.Type {
	case core.DirectMessage:
		if ev.Message == nil {
			return core.ClassifiedEvent{}, false
		}
		return core.ClassifiedEvent{
			Level:   ev.Level,
			Kind:    core.KindMessage,
			Origin:  ev.Origin,
			Meta:    ev.Meta,
			Message: ev.Message,
		}, true

	case core.LegacyFormat:
		// rendering is deferred to dispatch so an empty sink set never
		// pays inspection cost
		return core.ClassifiedEvent{
			Level:  ev.Level,
			Kind:   core.KindFormat,
			Origin: ev.Origin,
			Format: ev.Format,
			Args:   ev.Args,
		}, true

	case core.LegacyReport:
		level, ok := levelForMarker(ev.Marker)
		if !ok {
			return core.ClassifiedEvent{}, false
		}
		return core.ClassifiedEvent{
			Level:  level,
			Kind:   core.KindReport,
			Origin: ev.Origin,
			Term:   ev.Term,
		}, true

	case core.LegacyTagged:
		if ev.Marker == "" {
			return core.ClassifiedEvent{}, false
		}
		msg, ok := asCharData(ev.Term)
		if !ok {
			return core.ClassifiedEvent{}, false
		}
		// copy before tagging the owner; the caller keeps its map
		meta := make(map[string]any, len(ev.Meta)+1)
		for k, v := range ev.Meta {
			meta[k] = v
		}
		if _, exists := meta["owner"]; !exists {
			meta["owner"] = ev.Marker
		}
		return core.ClassifiedEvent{
			Level:   ev.Level,
			Kind:    core.KindMessage,
			Origin:  ev.Origin,
			Meta:    meta,
			Message: msg,
		}, true
	}
	return core.ClassifiedEvent{}, false
}
