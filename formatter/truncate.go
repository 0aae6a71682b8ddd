package formatter

import (
	"unicode/utf8"

	"github.com/relogd/relog/core"
)

// maxRepairScan bounds the backward scan after a mid-sequence cut.
// 13 bytes always contain at least two maximal-length codepoints, so
// the scan finds a codepoint start without ever walking the whole
// string.
const maxRepairScan = 13

// Truncate byte-bounds data without splitting a codepoint.
//
// It walks data left to right, forcing thunks as they are met and
// consuming byte budget: a string of length L consumes L, a codepoint
// its UTF-8 width, a list is walked recursively and short-circuits
// once the budget is gone. If the walk was cut, the result is the
// kept prefix wrapped in a Truncated node, which flattens to the
// prefix plus the literal truncation marker. Data that fits is
// returned unchanged (a flattened but semantically equal copy when
// thunks had to be forced).
//
// Truncate is a fixed point: applying it twice with the same limit
// yields the same value, because a Truncated node's byte length
// counts only its prefix.
func Truncate(data core.CharData, limit int) core.CharData {
	if data == nil {
		return nil
	}
	if limit < 0 {
		limit = 0
	}
	s := truncWalk{budget: limit}
	s.walk(data)
	if s.cut {
		return core.Truncated{Prefix: core.Text(s.out)}
	}
	if s.forced {
		// thunks were evaluated; hand back the materialized text so
		// they are not forced again downstream
		return core.Text(s.out)
	}
	return data
}

type truncWalk struct {
	out    []byte
	budget int
	cut    bool
	forced bool
}

func (s *truncWalk) walk(d core.CharData) {
	if s.cut {
		return
	}
	switch v := d.(type) {
	case nil:
	case core.Text:
		s.text(string(v))
	case core.Rune:
		w := core.RuneWidth(rune(v))
		if w > s.budget {
			s.cut = true
			return
		}
		s.out = utf8.AppendRune(s.out, rune(v))
		s.budget -= w
	case core.List:
		for _, e := range v {
			s.walk(e)
			if s.cut {
				return
			}
		}
	case core.Thunk:
		s.forced = true
		if v != nil {
			s.walk(v())
		}
	case core.Truncated:
		s.walk(v.Prefix)
		if !s.cut {
			// the marker rides along for free; it never counts
			// toward the budget
			s.out = append(s.out, core.TruncatedMarker...)
		}
	}
}

func (s *truncWalk) text(b string) {
	if len(b) <= s.budget {
		s.out = append(s.out, b...)
		s.budget -= len(b)
		return
	}
	if s.budget > 0 {
		s.out = repair(append(s.out, b[:s.budget]...))
	}
	s.budget = 0
	s.cut = true
}

// repair drops a trailing partial codepoint left by a byte-limit cut.
// It scans backward at most maxRepairScan bytes for the last position
// that starts a codepoint; if the codepoint there is incomplete or
// invalid, everything from that position on is dropped.
func repair(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && len(b)-i <= maxRepairScan; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		// size 1 with RuneError means an incomplete or invalid
		// sequence; a genuinely encoded U+FFFD decodes with size 3
		if i+size == len(b) && !(r == utf8.RuneError && size == 1) {
			return b
		}
		return b[:i]
	}
	return b
}
