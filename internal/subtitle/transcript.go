package subtitle

import "strings"

// DefaultParagraphGap is the silence, in seconds, that starts a new
// paragraph in Transcript.
const DefaultParagraphGap = 2.0

// Transcript joins cue texts into a narrative transcript. A new paragraph
// starts whenever the gap between consecutive cues exceeds gap seconds;
// gap <= 0 uses DefaultParagraphGap.
func Transcript(cues []Cue, gap float64) string {
	if gap <= 0 {
		gap = DefaultParagraphGap
	}

	var paragraphs []string
	var current []string
	for i, cue := range cues {
		text := strings.TrimSpace(cue.Text)
		if text == "" {
			continue
		}
		if i > 0 && len(current) > 0 && cue.Start-cues[i-1].End > gap {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
		current = append(current, text)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	return strings.Join(paragraphs, "\n\n")
}
