// Package formatter contains the pure formatting leaves of the
// pipeline: byte-bounded truncation of CharData, the directive
// rewriter for ~-style format strings, and the renderer that applies
// a rewritten format to its arguments.
//
// All functions here are stateless and reentrant. They run either on
// the caller's goroutine (eager mode) or on the dispatcher's actor
// goroutine (queued mode); the choice belongs to the pipeline, not to
// this package.
//
// Truncate never splits a UTF-8 codepoint. When a byte string has to
// be cut mid-sequence, it is cut at the byte limit first and then
// repaired by scanning backward at most 13 bytes for the last valid
// codepoint start, which bounds the repair cost independent of string
// length. Truncation is deliberately not byte-exact (it may stop a
// few bytes short) but never exceeds the limit after repair.
//
// Rewrite recognizes the inspect-family directives (~p, ~w and their
// depth-limited forms ~P, ~W), renders their arguments through the
// Printer collaborator, and splices the rendered text back as a plain
// ~s directive. Every other directive passes through verbatim with
// its argument-consumption order untouched, so the rewritten format
// and argument list always stay aligned.
package formatter
