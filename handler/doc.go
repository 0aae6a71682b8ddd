// Package handler provides the sink abstraction and the serialized
// dispatcher that fans classified events out to the enabled sinks.
//
// The Dispatcher is a single actor: one goroutine owns the sink
// registry and the ordered enabled set and processes commands in
// arrival order, which gives a total order over output lines relative
// to intake order. Sink writes are synchronous best-effort I/O; a
// stalled sink stalls the actor and everything behind it. That is the
// accepted backpressure point, not a bug; callers size the enabled
// set and its write latency accordingly.
//
// A Dispatcher is disposable. The Watcher supervises its actor
// goroutine and, on any exit other than an intentional Stop, discards
// it and rebuilds a fresh one with the init argument stored at
// construction. Enabled-sink state therefore always resets to
// configuration defaults after a crash; events in flight at crash
// time are lost (at-most-once delivery).
//
// Built-in sinks:
//
//   - WriterSink writes lines to any io.Writer under a mutex.
//   - ConsoleSink writes to a terminal (default: stdout) and colors
//     the line by level when the writer actually is a terminal.
//
// The dispatcher tracks processed, dropped, and errored counts via
// the Stats type, queryable at runtime.
package handler
