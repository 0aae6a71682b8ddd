// Package core defines the shared types used across the relog pipeline.
//
// It provides the LogLevel type with its bracketed display tags, the
// CharData tree that represents nested (and possibly lazily produced)
// message text, and the Event/ClassifiedEvent pair that raw intake
// events are normalized into before dispatch.
//
// CharData is read-only once constructed: the truncator in the
// formatter package returns a new, possibly shorter value instead of
// mutating in place. A Truncated node marks data that was cut; its
// byte length counts only the kept prefix, while flattening appends
// the literal truncation marker. That is what makes truncation a
// fixed point: re-truncating already-truncated data returns it
// unchanged.
package core
