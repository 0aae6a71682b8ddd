package handler

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/relogd/relog/core"
	"github.com/relogd/relog/formatter"
)

// ErrStopped is returned by dispatcher operations once the actor
// goroutine is no longer draining commands.
var ErrStopped = errors.New("dispatcher is stopped")

// Config controls a single Dispatcher instance.
type Config struct {
	// TruncateBytes bounds every rendered payload. Zero truncates
	// every payload down to the bare marker; the config package
	// supplies the usual default. Negative is treated as zero.
	TruncateBytes int
	// UTC selects UTC timestamps instead of local time.
	UTC bool
	// QueueSize is the command channel capacity (default 256).
	QueueSize int
	// Printer renders report terms and inspect directives; defaults
	// to formatter.DefaultPrinter.
	Printer formatter.Printer
	// Now supplies timestamps, time.Now when nil. Tests inject a
	// fixed clock here.
	Now func() time.Time
}

type cmdType uint8

const (
	cmdIntake cmdType = iota
	cmdEnable
	cmdDisable
	cmdStop
)

type command struct {
	typ  cmdType
	sink SinkID
	ev   core.ClassifiedEvent
}

// Dispatcher fans classified events out to the enabled sinks.
//
// It is a single serialized actor: one goroutine owns the sink
// registry and the ordered enabled set and processes commands in
// arrival order. A Dispatcher is disposable: on crash the Watcher
// discards it and builds a fresh one, so no state survives a restart
// besides whatever the sinks themselves hold.
type Dispatcher struct {
	cfg  Config
	cmds chan command
	dead chan struct{}
	exit chan error

	// actor-owned; never touched outside run()
	sinks   map[SinkID]Sink
	enabled []SinkID
	lineBuf []byte

	stats *Stats
}

// NewDispatcher builds a dispatcher over the given sinks. The IDs in
// enable form the initial enabled set, in order. Nothing runs until
// Start.
func NewDispatcher(cfg Config, sinks []Sink, enable []SinkID) *Dispatcher {
	if cfg.TruncateBytes < 0 {
		cfg.TruncateBytes = 0
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Printer == nil {
		cfg.Printer = formatter.DefaultPrinter
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	d := &Dispatcher{
		cfg:   cfg,
		cmds:  make(chan command, cfg.QueueSize),
		dead:  make(chan struct{}),
		exit:  make(chan error, 1),
		sinks: make(map[SinkID]Sink, len(sinks)),
		stats: NewStats(),
	}
	for _, s := range sinks {
		d.sinks[s.ID()] = s
	}
	// front insertion, so walk the initial list back to front
	for i := len(enable) - 1; i >= 0; i-- {
		d.enable(enable[i])
	}
	return d
}

// Start launches the actor goroutine. The Watcher calls this; most
// callers go through logger.Pipeline instead.
func (d *Dispatcher) Start() {
	go d.run()
}

// Intake queues one classified event. With no enabled sinks the event
// is dropped inside the actor without any formatting work.
func (d *Dispatcher) Intake(ev core.ClassifiedEvent) error {
	return d.send(command{typ: cmdIntake, ev: ev})
}

// Enable inserts sink at the front of the enabled set, removing any
// prior occurrence. Idempotent; enabling an unregistered sink is a
// no-op.
func (d *Dispatcher) Enable(sink SinkID) error {
	return d.send(command{typ: cmdEnable, sink: sink})
}

// Disable removes sink from the enabled set. Idempotent; absent sinks
// are a no-op.
func (d *Dispatcher) Disable(sink SinkID) error {
	return d.send(command{typ: cmdDisable, sink: sink})
}

// Stop shuts the actor down intentionally. The Watcher treats this
// exit as terminal and does not restart.
func (d *Dispatcher) Stop() {
	_ = d.send(command{typ: cmdStop})
}

// Stats returns a snapshot of the dispatch counters.
func (d *Dispatcher) Stats() Snapshot {
	return d.stats.Snapshot()
}

// Exited reports the actor's exit reason: nil for an intentional
// Stop, the recovered panic otherwise. It fires exactly once.
func (d *Dispatcher) Exited() <-chan error {
	return d.exit
}

// CloseSinks closes every registered sink, aggregating errors. Each
// dispatcher incarnation owns its sinks; the Watcher calls this when
// discarding a crashed incarnation, the pipeline at terminal stop.
func (d *Dispatcher) CloseSinks() error {
	var err error
	for _, s := range d.sinks {
		err = multierr.Append(err, s.Close())
	}
	return err
}

func (d *Dispatcher) send(cmd command) error {
	select {
	case <-d.dead:
		return ErrStopped
	default:
	}
	select {
	case d.cmds <- cmd:
		return nil
	case <-d.dead:
		return ErrStopped
	}
}

func (d *Dispatcher) run() {
	defer close(d.dead)
	defer func() {
		if r := recover(); r != nil {
			d.exit <- errors.Errorf("dispatcher crashed: %v", r)
			return
		}
		d.exit <- nil
	}()
	for cmd := range d.cmds {
		switch cmd.typ {
		case cmdEnable:
			d.enable(cmd.sink)
		case cmdDisable:
			d.disable(cmd.sink)
		case cmdIntake:
			d.handle(cmd.ev)
		case cmdStop:
			return
		}
	}
}

func (d *Dispatcher) enable(id SinkID) {
	if _, ok := d.sinks[id]; !ok {
		return
	}
	d.disable(id)
	d.enabled = append(d.enabled, "")
	copy(d.enabled[1:], d.enabled)
	d.enabled[0] = id
}

func (d *Dispatcher) disable(id SinkID) {
	for i, s := range d.enabled {
		if s == id {
			d.enabled = append(d.enabled[:i], d.enabled[i+1:]...)
			return
		}
	}
}

// handle renders and writes one event. Rendering failures are
// programming errors in the caller-supplied format string; they panic
// out of the actor and the Watcher rebuilds it. The event in flight
// is lost.
func (d *Dispatcher) handle(ev core.ClassifiedEvent) {
	if len(d.enabled) == 0 {
		d.stats.IncrementDropped(ev.Level)
		return
	}
	text, err := d.renderPayload(ev)
	if err != nil {
		panic(err)
	}
	d.lineBuf = formatter.AppendLine(d.lineBuf[:0], d.cfg.Now(), ev.Level, text, d.cfg.UTC)
	for _, id := range d.enabled {
		if err := d.sinks[id].Write(ev.Level, d.lineBuf); err != nil {
			d.stats.IncrementErrored()
		}
	}
	d.stats.IncrementProcessed()
}

func (d *Dispatcher) renderPayload(ev core.ClassifiedEvent) (string, error) {
	limit := d.cfg.TruncateBytes
	switch ev.Kind {
	case core.KindMessage:
		return core.Flatten(formatter.Truncate(ev.Message, limit)), nil
	case core.KindReport:
		text := d.cfg.Printer.Print(ev.Term, formatter.PrintOptions{})
		return core.Flatten(formatter.Truncate(core.Text(text), limit)), nil
	case core.KindFormat:
		rewritten, args, err := formatter.RewriteWith(d.cfg.Printer, ev.Format, ev.Args)
		if err != nil {
			return "", err
		}
		text, err := formatter.Render(rewritten, args)
		if err != nil {
			return "", err
		}
		return core.Flatten(formatter.Truncate(core.Text(text), limit)), nil
	}
	return "", errors.Errorf("unknown event kind %d", ev.Kind)
}
