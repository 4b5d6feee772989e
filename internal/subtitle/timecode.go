package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const arrowToken = " --> "

// ParseTimecode converts an HH:MM:SS,mmm timecode to seconds.
//
// Timecodes with fewer than three colon separated parts are treated as
// zero, a missing ",mmm" suffix means zero milliseconds, and components
// that are not numbers count as zero. It never fails.
func ParseTimecode(tc string) float64 {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) < 3 {
		return 0
	}

	hours := atof(parts[0])
	minutes := atof(parts[1])

	secs, millis, _ := strings.Cut(parts[2], ",")
	seconds := atof(secs)
	ms := atof(millis)

	return hours*3600 + minutes*60 + seconds + ms/1000
}

// ParseRangeStart returns the start, in seconds, of a compact range label
// such as "01:20:05-01:20:10" or "02:15-02:20".
//
// Only the part before the first hyphen is read. Three colon parts are
// hours/minutes/seconds, two are minutes/seconds; anything else yields 0.
func ParseRangeStart(r string) float64 {
	start, _, _ := strings.Cut(r, "-")
	parts := strings.Split(strings.TrimSpace(start), ":")

	switch len(parts) {
	case 3:
		return atof(parts[0])*3600 + atof(parts[1])*60 + atof(parts[2])
	case 2:
		return atof(parts[0])*60 + atof(parts[1])
	default:
		return 0
	}
}

// FormatTimecode renders seconds as HH:MM:SS,mmm. Negative values clamp to zero.
func FormatTimecode(seconds float64) string {
	h, m, s, ms := splitSeconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// same as FormatTimecode with the WebVTT dot separator
func formatVTTTimecode(seconds float64) string {
	h, m, s, ms := splitSeconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// FormatRange renders a compact range label that ParseRangeStart accepts.
// Hours are only included when either end reaches one hour.
func FormatRange(start, end float64) string {
	if start >= 3600 || end >= 3600 {
		return fmt.Sprintf("%s-%s", clockHMS(start), clockHMS(end))
	}
	return fmt.Sprintf("%s-%s", clockMS(start), clockMS(end))
}

func clockHMS(seconds float64) string {
	h, m, s, _ := splitSeconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func clockMS(seconds float64) string {
	h, m, s, _ := splitSeconds(seconds)
	return fmt.Sprintf("%02d:%02d", h*60+m, s)
}

func splitSeconds(seconds float64) (h, m, s, ms int) {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	ms = int(total % 1000)
	totalSec := total / 1000
	s = int(totalSec % 60)
	m = int((totalSec / 60) % 60)
	h = int(totalSec / 3600)
	return h, m, s, ms
}

// lenient numeric conversion; unparsable input is 0
func atof(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
