package handler

import (
	"sync/atomic"

	"github.com/relogd/relog/core"
)

// Stats tracks dispatcher counters. All methods are safe for
// concurrent use.
type Stats struct {
	// Separate atomic counters per level
	droppedDebug uint64
	droppedInfo  uint64
	droppedWarn  uint64
	droppedError uint64
	// processedTotal counts events written to at least one sink
	processedTotal uint64
	// erroredTotal counts individual sink writes that failed
	erroredTotal uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level
func (s *Stats) IncrementDropped(level core.LogLevel) {
	switch level {
	case core.DebugLevel:
		atomic.AddUint64(&s.droppedDebug, 1)
	case core.InfoLevel:
		atomic.AddUint64(&s.droppedInfo, 1)
	case core.WarnLevel:
		atomic.AddUint64(&s.droppedWarn, 1)
	case core.ErrorLevel:
		atomic.AddUint64(&s.droppedError, 1)
	}
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed() {
	atomic.AddUint64(&s.processedTotal, 1)
}

// IncrementErrored atomically increments the failed-write counter
func (s *Stats) IncrementErrored() {
	atomic.AddUint64(&s.erroredTotal, 1)
}

// Dropped returns the dropped count for a level
func (s *Stats) Dropped(level core.LogLevel) uint64 {
	switch level {
	case core.DebugLevel:
		return atomic.LoadUint64(&s.droppedDebug)
	case core.InfoLevel:
		return atomic.LoadUint64(&s.droppedInfo)
	case core.WarnLevel:
		return atomic.LoadUint64(&s.droppedWarn)
	case core.ErrorLevel:
		return atomic.LoadUint64(&s.droppedError)
	default:
		return 0
	}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Dropped   map[core.LogLevel]uint64
	Processed uint64
	Errored   uint64
}

// Snapshot returns a snapshot of current statistics
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Dropped: map[core.LogLevel]uint64{
			core.DebugLevel: s.Dropped(core.DebugLevel),
			core.InfoLevel:  s.Dropped(core.InfoLevel),
			core.WarnLevel:  s.Dropped(core.WarnLevel),
			core.ErrorLevel: s.Dropped(core.ErrorLevel),
		},
		Processed: atomic.LoadUint64(&s.processedTotal),
		Errored:   atomic.LoadUint64(&s.erroredTotal),
	}
}

// TotalDropped returns the total dropped across all levels
func (s *Stats) TotalDropped() uint64 {
	return atomic.LoadUint64(&s.droppedDebug) +
		atomic.LoadUint64(&s.droppedInfo) +
		atomic.LoadUint64(&s.droppedWarn) +
		atomic.LoadUint64(&s.droppedError)
}
