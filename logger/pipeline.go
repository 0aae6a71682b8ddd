package logger

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/relogd/relog/config"
	"github.com/relogd/relog/core"
	"github.com/relogd/relog/formatter"
	"github.com/relogd/relog/handler"
)

// ErrNotRunning is the usage error returned by intake operations on a
// pipeline that has not been started or was stopped.
var ErrNotRunning = errors.New("logging pipeline is not running")

// SinkFactory builds the sink for a backend ID from the Backends
// config list. It runs once per dispatcher incarnation, so a restart
// gets fresh sinks; the crashed incarnation's sinks are closed when
// it is discarded. Returning an error fails Start (and a restart
// falls back to a console sink rather than wedging the supervisor).
type SinkFactory func(id handler.SinkID) (handler.Sink, error)

// Pipeline is an explicitly constructed logging pipeline with a
// start/stop lifecycle. Zero value is not usable; construct with New.
type Pipeline struct {
	cfg     config.Config
	printer formatter.Printer
	factory SinkFactory
	forward Forwarder
	node    string
	now     func() time.Time

	mu      sync.RWMutex
	watcher *handler.Watcher
	running bool
}

// Option customizes a Pipeline at construction.
type Option func(*Pipeline)

// WithPrinter overrides the pretty printer used for report terms and
// inspect directives.
func WithPrinter(pr formatter.Printer) Option {
	return func(p *Pipeline) { p.printer = pr }
}

// WithSinkFactory overrides how backend IDs become sinks.
func WithSinkFactory(f SinkFactory) Option {
	return func(p *Pipeline) { p.factory = f }
}

// WithForwarder installs cross-node debug forwarding.
func WithForwarder(f Forwarder) Option {
	return func(p *Pipeline) { p.forward = f }
}

// WithNode overrides the local node name used by the classifier.
func WithNode(node string) Option {
	return func(p *Pipeline) { p.node = node }
}

// WithClock overrides the timestamp source. Tests inject a fixed
// clock here.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func localNode() string {
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "localhost"
}

func defaultSink(id handler.SinkID) (handler.Sink, error) {
	if id == "console" {
		return handler.NewConsoleSink(id, os.Stdout), nil
	}
	return nil, errors.Errorf("unknown backend %q", id)
}

// New builds a stopped pipeline over cfg. Call Start before logging.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		printer: formatter.DefaultPrinter,
		factory: defaultSink,
		node:    localNode(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// newDispatcher is the watcher's init function: every incarnation
// rebuilds sinks and the enabled set from configuration, which is why
// runtime Enable/Disable calls do not survive a crash.
func (p *Pipeline) newDispatcher() *handler.Dispatcher {
	sinks := make([]handler.Sink, 0, len(p.cfg.Backends))
	enable := make([]handler.SinkID, 0, len(p.cfg.Backends))
	for _, b := range p.cfg.Backends {
		id := handler.SinkID(b)
		s, err := p.factory(id)
		if err != nil {
			// keep the pipeline alive on a rebuild; the configured
			// backend may be gone
			s = handler.NewConsoleSink(id, os.Stderr)
		}
		sinks = append(sinks, s)
		enable = append(enable, id)
	}
	return handler.NewDispatcher(handler.Config{
		TruncateBytes: p.cfg.TruncateBytes,
		UTC:           p.cfg.UTC,
		QueueSize:     p.cfg.QueueSize,
		Printer:       p.printer,
		Now:           p.now,
	}, sinks, enable)
}

// Start validates the configuration, builds the sinks and launches
// the supervised dispatcher. Starting a running pipeline is an error.
func (p *Pipeline) Start() error {
	if err := p.cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	// surface factory errors to the caller now, instead of silently
	// substituting fallback sinks later
	for _, b := range p.cfg.Backends {
		s, err := p.factory(handler.SinkID(b))
		if err != nil {
			return errors.Wrapf(err, "building sink %q", b)
		}
		_ = s.Close()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.New("pipeline already started")
	}
	p.watcher = handler.NewWatcher(p.newDispatcher, nil)
	p.watcher.Start()
	p.running = true
	return nil
}

// Stop shuts the pipeline down. Events queued but not yet dispatched
// may be lost; subsequent intake calls return ErrNotRunning.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	w := p.watcher
	p.running = false
	p.mu.Unlock()
	if w == nil {
		return
	}
	w.Stop()
	_ = w.Dispatcher().CloseSinks()
}

// Running reports whether the pipeline accepts events.
func (p *Pipeline) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running && p.watcher.Alive()
}

// Stats returns the current dispatcher's counters. Counters reset on
// crash-restart along with the rest of the dispatcher state.
func (p *Pipeline) Stats() (handler.Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return handler.Snapshot{}, ErrNotRunning
	}
	return p.watcher.Dispatcher().Stats(), nil
}

// Enable adds a sink to the front of the enabled set until the next
// restart.
func (p *Pipeline) Enable(id handler.SinkID) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return ErrNotRunning
	}
	return p.watcher.Dispatcher().Enable(id)
}

// Disable removes a sink from the enabled set until the next restart.
func (p *Pipeline) Disable(id handler.SinkID) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return ErrNotRunning
	}
	return p.watcher.Dispatcher().Disable(id)
}

// Log submits a direct message. data may be any CharData shape; it is
// evaluated and truncated before any sink write.
func (p *Pipeline) Log(level Level, data core.CharData, meta map[string]any) error {
	return p.intake(core.Event{
		Type:    core.DirectMessage,
		Level:   level,
		Origin:  p.origin(),
		Meta:    meta,
		Message: data,
	})
}

// LogFunc submits a lazily produced message. In queued mode the thunk
// runs on the dispatcher goroutine.
func (p *Pipeline) LogFunc(level Level, fn func() core.CharData, meta map[string]any) error {
	return p.Log(level, core.Thunk(fn), meta)
}

// Logf submits a directive-format message, the ~-dialect: ~s, ~d, ~p
// and friends.
func (p *Pipeline) Logf(level Level, format string, args ...any) error {
	return p.intake(core.Event{
		Type:   core.LegacyFormat,
		Level:  level,
		Origin: p.origin(),
		Format: format,
		Args:   args,
	})
}

// ErrorMsg ingests a legacy error format report from pid.
func (p *Pipeline) ErrorMsg(pid int, format string, args ...any) error {
	return p.legacyFormat(ErrorLevel, pid, format, args)
}

// WarningMsg ingests a legacy warning format report from pid.
func (p *Pipeline) WarningMsg(pid int, format string, args ...any) error {
	return p.legacyFormat(WarnLevel, pid, format, args)
}

// InfoMsg ingests a legacy info format report from pid.
func (p *Pipeline) InfoMsg(pid int, format string, args ...any) error {
	return p.legacyFormat(InfoLevel, pid, format, args)
}

func (p *Pipeline) legacyFormat(level Level, pid int, format string, args []any) error {
	return p.intake(core.Event{
		Type:   core.LegacyFormat,
		Level:  level,
		Origin: core.Origin{Pid: pid, Node: p.node},
		Format: format,
		Args:   args,
	})
}

// ErrorReport ingests a legacy structured error report.
func (p *Pipeline) ErrorReport(pid int, term any) error {
	return p.legacyReport(core.MarkerStdError, pid, term)
}

// WarningReport ingests a legacy structured warning report.
func (p *Pipeline) WarningReport(pid int, term any) error {
	return p.legacyReport(core.MarkerStdWarning, pid, term)
}

// InfoReport ingests a legacy structured info report.
func (p *Pipeline) InfoReport(pid int, term any) error {
	return p.legacyReport(core.MarkerStdInfo, pid, term)
}

func (p *Pipeline) legacyReport(marker string, pid int, term any) error {
	return p.intake(core.Event{
		Type:   core.LegacyReport,
		Origin: core.Origin{Pid: pid, Node: p.node},
		Marker: marker,
		Term:   term,
	})
}

// Report ingests a legacy metadata-tagged report: (pid, (owner,
// metadata), term). The term must be textual or the report is dropped.
func (p *Pipeline) Report(level Level, pid int, owner string, meta map[string]any, term any) error {
	return p.intake(core.Event{
		Type:   core.LegacyTagged,
		Level:  level,
		Origin: core.Origin{Pid: pid, Node: p.node},
		Marker: owner,
		Meta:   meta,
		Term:   term,
	})
}

func (p *Pipeline) origin() core.Origin {
	return core.Origin{Pid: os.Getpid(), Node: p.node}
}

func (p *Pipeline) intake(ev core.Event) error {
	p.mu.RLock()
	running := p.running
	w := p.watcher
	p.mu.RUnlock()
	if !running || !w.Alive() {
		return ErrNotRunning
	}

	classified, ok := p.classify(ev)
	if !ok {
		// dropped or forwarded; either way the call succeeded
		return nil
	}
	if p.cfg.Mode == config.ModeEager {
		rendered, err := p.renderEager(classified)
		if err != nil {
			return err
		}
		classified = rendered
	}
	return p.dispatch(w, classified)
}

// renderEager formats the payload on the caller's goroutine, so
// formatting errors surface here instead of crashing the dispatcher.
// The dispatcher then sees a plain message and only stamps and writes.
func (p *Pipeline) renderEager(ev core.ClassifiedEvent) (core.ClassifiedEvent, error) {
	limit := p.cfg.TruncateBytes
	switch ev.Kind {
	case core.KindMessage:
		ev.Message = formatter.Truncate(ev.Message, limit)
	case core.KindReport:
		text := p.printer.Print(ev.Term, formatter.PrintOptions{})
		ev.Kind = core.KindMessage
		ev.Term = nil
		ev.Message = formatter.Truncate(core.Text(text), limit)
	case core.KindFormat:
		rewritten, args, err := formatter.RewriteWith(p.printer, ev.Format, ev.Args)
		if err != nil {
			return ev, err
		}
		text, err := formatter.Render(rewritten, args)
		if err != nil {
			return ev, err
		}
		ev.Kind = core.KindMessage
		ev.Format, ev.Args = "", nil
		ev.Message = formatter.Truncate(core.Text(text), limit)
	}
	return ev, nil
}

// dispatch hands the event to the current dispatcher, retrying briefly
// across a crash-restart window. A restart takes a handful of
// microseconds; the retry budget covers scheduler noise on a loaded
// host.
func (p *Pipeline) dispatch(w *handler.Watcher, ev core.ClassifiedEvent) error {
	for i := 0; i < 200; i++ {
		err := w.Dispatcher().Intake(ev)
		if err != handler.ErrStopped {
			return err
		}
		if !w.Alive() {
			return ErrNotRunning
		}
		time.Sleep(time.Millisecond)
	}
	return ErrNotRunning
}
