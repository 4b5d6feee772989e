package subtitle

import "errors"

// Cue is a single timed caption entry.
//
// Start and End are seconds. Start <= End is expected but not enforced,
// and the Label is kept exactly as it appeared in the source.
type Cue struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration of the cue in seconds, zero for inverted intervals.
func (c Cue) Duration() float64 {
	if c.End < c.Start {
		return 0
	}
	return c.End - c.Start
}

// Contains reports whether t falls inside [Start, End], both ends inclusive.
func (c Cue) Contains(t float64) bool {
	return c.Start <= t && t <= c.End
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// interface for writing cues to files
type Writer interface {
	Write(cues []Cue, path string) error
}
