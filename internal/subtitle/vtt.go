package subtitle

import (
	"strconv"
	"strings"
)

// ParseWebVTT parses WebVTT content with the same lenient rules as
// ParseTimedText.
//
// The WEBVTT header and NOTE/STYLE/REGION blocks are skipped, dot
// millisecond separators are accepted, MM:SS.mmm timestamps are widened
// to hours, and cues without an identifier get their ordinal as label.
func ParseWebVTT(raw string) []Cue {
	var sb strings.Builder
	ordinal := 0

	for _, blk := range splitBlocks(strings.TrimPrefix(raw, "\ufeff")) {
		lines := strings.Split(strings.TrimSpace(blk), "\n")
		if len(lines) == 0 || lines[0] == "" {
			continue
		}
		if isVTTMetaBlock(lines[0]) {
			continue
		}

		timingAt := 0
		if !strings.Contains(lines[0], "-->") {
			timingAt = 1
		}
		if timingAt >= len(lines) || !strings.Contains(lines[timingAt], "-->") {
			continue
		}

		ordinal++
		label := strconv.Itoa(ordinal)
		if timingAt == 1 {
			label = lines[0]
		}

		sb.WriteString(label)
		sb.WriteByte('\n')
		sb.WriteString(normalizeVTTTiming(lines[timingAt]))
		for _, l := range lines[timingAt+1:] {
			sb.WriteByte('\n')
			sb.WriteString(l)
		}
		sb.WriteString("\n\n")
	}

	return ParseTimedText(sb.String())
}

func isVTTMetaBlock(first string) bool {
	first = strings.TrimSpace(first)
	for _, prefix := range []string{"WEBVTT", "NOTE", "STYLE", "REGION"} {
		if strings.HasPrefix(first, prefix) {
			return true
		}
	}
	return false
}

// "00:01.500 --> 00:02.000 align:start" -> "00:00:01,500 --> 00:00:02,000"
func normalizeVTTTiming(line string) string {
	left, right, _ := strings.Cut(line, "-->")
	return normalizeVTTTimestamp(left) + arrowToken + normalizeVTTTimestamp(right)
}

func normalizeVTTTimestamp(ts string) string {
	fields := strings.Fields(ts)
	if len(fields) == 0 {
		return ""
	}
	ts = strings.Replace(fields[0], ".", ",", 1)
	if strings.Count(ts, ":") == 1 {
		ts = "00:" + ts
	}
	return ts
}
