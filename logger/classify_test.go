package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relogd/relog/config"
	"github.com/relogd/relog/core"
)

func classifier(opts ...Option) *Pipeline {
	opts = append([]Option{WithNode("local")}, opts...)
	return New(config.Default(), opts...)
}

func TestClassify_DirectMessage(t *testing.T) {
	p := classifier()
	ev, ok := p.classify(core.Event{
		Type:    core.DirectMessage,
		Level:   core.WarnLevel,
		Origin:  core.Origin{Pid: 7, Node: "local"},
		Meta:    map[string]any{"component": "db"},
		Message: core.Text("slow query"),
	})
	require.True(t, ok)
	assert.Equal(t, core.WarnLevel, ev.Level)
	assert.Equal(t, core.KindMessage, ev.Kind)
	assert.Equal(t, "slow query", core.Flatten(ev.Message))
	assert.Equal(t, "db", ev.Meta["component"])
}

func TestClassify_DirectMessageWithoutPayloadDropped(t *testing.T) {
	p := classifier()
	_, ok := p.classify(core.Event{Type: core.DirectMessage, Level: core.InfoLevel})
	assert.False(t, ok)
}

func TestClassify_LegacyFormatKeptUnrendered(t *testing.T) {
	p := classifier()
	ev, ok := p.classify(core.Event{
		Type:   core.LegacyFormat,
		Level:  core.ErrorLevel,
		Format: "exit ~d",
		Args:   []any{1},
	})
	require.True(t, ok)
	assert.Equal(t, core.KindFormat, ev.Kind)
	assert.Equal(t, "exit ~d", ev.Format)
	assert.Equal(t, []any{1}, ev.Args)
	assert.Nil(t, ev.Message, "format payloads render at dispatch, not here")
}

func TestClassify_LegacyReportMarkers(t *testing.T) {
	cases := []struct {
		marker string
		level  core.LogLevel
	}{
		{core.MarkerStdError, core.ErrorLevel},
		{core.MarkerStdWarning, core.WarnLevel},
		{core.MarkerStdInfo, core.InfoLevel},
	}
	p := classifier()
	for _, tc := range cases {
		t.Run(tc.marker, func(t *testing.T) {
			ev, ok := p.classify(core.Event{
				Type:   core.LegacyReport,
				Marker: tc.marker,
				Term:   []int{1, 2},
			})
			require.True(t, ok)
			assert.Equal(t, tc.level, ev.Level)
			assert.Equal(t, core.KindReport, ev.Kind)
			assert.Equal(t, []int{1, 2}, ev.Term)
		})
	}
}

func TestClassify_UnrecognizedMarkerDropped(t *testing.T) {
	p := classifier()
	_, ok := p.classify(core.Event{
		Type:   core.LegacyReport,
		Marker: "custom_marker",
		Term:   "ignored",
	})
	assert.False(t, ok)
}

func TestClassify_TaggedReport(t *testing.T) {
	p := classifier()
	ev, ok := p.classify(core.Event{
		Type:   core.LegacyTagged,
		Level:  core.InfoLevel,
		Marker: "sasl",
		Meta:   map[string]any{"restarts": 2},
		Term:   "child restarted",
	})
	require.True(t, ok)
	assert.Equal(t, core.KindMessage, ev.Kind)
	assert.Equal(t, "child restarted", core.Flatten(ev.Message))
	assert.Equal(t, "sasl", ev.Meta["owner"])
	assert.Equal(t, 2, ev.Meta["restarts"])
}

func TestClassify_TaggedReportLeavesCallerMetaUntouched(t *testing.T) {
	p := classifier()
	callerMeta := map[string]any{"restarts": 2}

	ev, ok := p.classify(core.Event{
		Type:   core.LegacyTagged,
		Level:  core.InfoLevel,
		Marker: "sasl",
		Meta:   callerMeta,
		Term:   "child restarted",
	})
	require.True(t, ok)
	assert.Equal(t, "sasl", ev.Meta["owner"])
	assert.Equal(t, map[string]any{"restarts": 2}, callerMeta,
		"classification must not write into the caller's map")
}

func TestClassify_TaggedReportPayloadShapes(t *testing.T) {
	p := classifier()
	for name, term := range map[string]any{
		"string":   "text",
		"bytes":    []byte("text"),
		"chardata": core.List([]core.CharData{core.Text("te"), core.Rune('x'), core.Rune('t')}),
	} {
		t.Run(name, func(t *testing.T) {
			ev, ok := p.classify(core.Event{
				Type:   core.LegacyTagged,
				Level:  core.InfoLevel,
				Marker: "owner",
				Term:   term,
			})
			require.True(t, ok)
			assert.Equal(t, "text", core.Flatten(ev.Message))
		})
	}
}

func TestClassify_MalformedTaggedReportDropped(t *testing.T) {
	p := classifier()

	_, ok := p.classify(core.Event{
		Type:  core.LegacyTagged,
		Level: core.InfoLevel,
		Term:  "no owner marker",
	})
	assert.False(t, ok, "missing owner marker")

	_, ok = p.classify(core.Event{
		Type:   core.LegacyTagged,
		Level:  core.InfoLevel,
		Marker: "owner",
		Term:   struct{ X int }{1},
	})
	assert.False(t, ok, "non-textual term")
}

type recordingForwarder struct {
	nodes  []string
	events []core.Event
}

func (f *recordingForwarder) Forward(node string, ev core.Event) error {
	f.nodes = append(f.nodes, node)
	f.events = append(f.events, ev)
	return nil
}

func TestClassify_RemoteDebugForwarded(t *testing.T) {
	fwd := &recordingForwarder{}
	p := classifier(WithForwarder(fwd))

	_, ok := p.classify(core.Event{
		Type:    core.DirectMessage,
		Level:   core.DebugLevel,
		Origin:  core.Origin{Pid: 3, Node: "other"},
		Message: core.Text("remote detail"),
	})
	assert.False(t, ok, "remote debug events are never rendered locally")
	require.Len(t, fwd.nodes, 1)
	assert.Equal(t, "other", fwd.nodes[0])
	assert.Equal(t, "remote detail", core.Flatten(fwd.events[0].Message))
}

func TestClassify_RemoteDebugWithoutForwarderDropped(t *testing.T) {
	p := classifier()
	_, ok := p.classify(core.Event{
		Type:    core.DirectMessage,
		Level:   core.DebugLevel,
		Origin:  core.Origin{Node: "other"},
		Message: core.Text("lost"),
	})
	assert.False(t, ok)
}

func TestClassify_LocalDebugAndRemoteNonDebugPass(t *testing.T) {
	fwd := &recordingForwarder{}
	p := classifier(WithForwarder(fwd))

	_, ok := p.classify(core.Event{
		Type:    core.DirectMessage,
		Level:   core.DebugLevel,
		Origin:  core.Origin{Node: "local"},
		Message: core.Text("local detail"),
	})
	assert.True(t, ok)

	_, ok = p.classify(core.Event{
		Type:    core.DirectMessage,
		Level:   core.ErrorLevel,
		Origin:  core.Origin{Node: "other"},
		Message: core.Text("remote failure"),
	})
	assert.True(t, ok, "only debug events are subject to forwarding")
	assert.Empty(t, fwd.nodes)
}
