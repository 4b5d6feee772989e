package proofread

import (
	"regexp"
	"strings"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

// Correction replaces every whole-word occurrence of From with To.
type Correction struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// CorrectionsFromTerms turns reviewed terms into corrections, skipping
// terms without a suggestion.
func CorrectionsFromTerms(terms []Term) []Correction {
	out := make([]Correction, 0, len(terms))
	for _, t := range terms {
		if t.Suggested == "" || t.Suggested == t.Original {
			continue
		}
		out = append(out, Correction{From: t.Original, To: t.Suggested})
	}
	return out
}

// ApplyCorrections returns a copy of cues with every correction applied to
// the text. Matching is case-sensitive and bounded by word boundaries where
// the term itself starts or ends with a word character. Timing and labels
// are never touched, and a correction that would leave a cue without text
// is not applied to that cue.
func ApplyCorrections(cues []subtitle.Cue, corrections []Correction) []subtitle.Cue {
	out := make([]subtitle.Cue, len(cues))
	copy(out, cues)

	for _, c := range corrections {
		from := strings.TrimSpace(c.From)
		if from == "" || from == c.To {
			continue
		}
		re := correctionPattern(from)
		for i := range out {
			text := re.ReplaceAllLiteralString(out[i].Text, c.To)
			if text == out[i].Text {
				continue
			}
			if c.To == "" {
				text = strings.Join(strings.Fields(text), " ")
			}
			// an empty cue cannot be written back as a subtitle block
			if strings.TrimSpace(text) == "" {
				continue
			}
			out[i].Text = text
		}
	}
	return out
}

func correctionPattern(term string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(term)
	if isWordByte(term[0]) {
		pattern = `\b` + pattern
	}
	if isWordByte(term[len(term)-1]) {
		pattern += `\b`
	}
	return regexp.MustCompile(pattern)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
