// Package logger is the public face of relog. A Pipeline classifies
// raw events, hands them to a supervised dispatcher, and exposes the
// convenience API most callers want: Logf, ErrorMsg, InfoReport and
// friends, plus a process-wide default pipeline.
//
// The pipeline accepts four intake shapes. Direct messages carry an
// explicit level and a lazy CharData payload. The three legacy shapes
// mirror older reporting interfaces: format reports (pid, format,
// args), structured reports (pid, marker, term) and tagged reports
// (pid, (owner, metadata), term). Classification normalizes all of
// them into one record or drops them; a drop is a successful outcome,
// not an error.
//
// Formatting happens either eagerly on the caller's goroutine or
// inside the dispatcher, selected by config.Mode. In queued mode a
// malformed format string crashes the dispatcher; the built-in
// watcher rebuilds it from configuration, so the pipeline keeps
// accepting events with runtime sink changes reset to their
// configured defaults.
package logger
