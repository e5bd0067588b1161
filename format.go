package dualog

import (
	"strconv"
	"strings"
	"time"
)

// FormatLine builds the formatted line for one accepted message:
//
//	[LEVEL][PID][YYYY-MM-DD HH:mm:ss ±HH:mm]: message
//
// The timestamp keeps the location of t, so callers control the zone
// through the clock they inject.
func FormatLine(level Severity, pid int, t time.Time, message string) string {
	var b strings.Builder
	b.Grow(48 + len(message))

	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteString("][")
	b.WriteString(strconv.Itoa(pid))
	b.WriteString("][")
	b.WriteString(t.Format(TimeFormat))
	b.WriteString("]: ")
	b.WriteString(message)
	return b.String()
}
