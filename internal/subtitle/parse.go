package subtitle

import (
	"strings"
)

// ParseTimedText parses SRT-style cue blocks into cues in source order.
//
// Blocks are separated by a blank line and must hold a label line, a
// timing line and at least one text line. Blocks that cannot be decoded
// are skipped, so the function is total: it never fails and an input
// without any usable block yields an empty slice.
func ParseTimedText(raw string) []Cue {
	blocks := splitBlocks(raw)
	cues := make([]Cue, 0, len(blocks))
	for _, blk := range blocks {
		if cue, ok := parseBlock(blk); ok {
			cues = append(cues, cue)
		}
	}
	return cues
}

func splitBlocks(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(normalized, "\n\n")
}

// label, timing, text...; false when the block is too short or has no arrow
func parseBlock(blk string) (Cue, bool) {
	lines := strings.Split(strings.TrimSpace(blk), "\n")
	if len(lines) < 3 {
		return Cue{}, false
	}

	left, right, found := strings.Cut(lines[1], arrowToken)
	if !found {
		return Cue{}, false
	}

	return Cue{
		Label: strings.TrimSpace(lines[0]),
		Start: ParseTimecode(left),
		End:   ParseTimecode(right),
		Text:  strings.Join(lines[2:], " "),
	}, true
}
