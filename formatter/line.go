package formatter

import (
	"time"

	"github.com/relogd/relog/core"
)

// timestampLayout is the fixed-width stamp at the head of every output
// line: zero-padded two-digit date and time fields.
const timestampLayout = "2006-01-02 15:04:05"

// AppendLine appends the exact output line layout to dst:
//
//	YYYY-MM-DD HH:MM:SS [level] msg\n
//
// utc selects UTC timestamps over local time.
func AppendLine(dst []byte, t time.Time, level core.LogLevel, msg string, utc bool) []byte {
	if utc {
		t = t.UTC()
	}
	dst = t.AppendFormat(dst, timestampLayout)
	dst = append(dst, ' ')
	dst = append(dst, level.Tag()...)
	dst = append(dst, ' ')
	dst = append(dst, msg...)
	dst = append(dst, '\n')
	return dst
}
