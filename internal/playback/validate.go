package playback

import (
	"fmt"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

type IssueKind string

const (
	IssueInverted    IssueKind = "inverted"
	IssueOverlap     IssueKind = "overlap"
	IssueOutOfOrder  IssueKind = "out_of_order"
	IssueZeroTime    IssueKind = "zero_time"
	IssueBeyondMedia IssueKind = "beyond_media"
)

// Issue is a problem found by Validate or CheckCoverage. Index refers to
// the offending cue in the sequence.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Index   int       `json:"index"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("cue %d: %s: %s", i.Index, i.Kind, i.Message)
}

// Validate reports inverted intervals, cues whose timecodes both decoded
// to zero, starts that go backwards and overlaps with the preceding cue.
// It is an opt-in check; FindActive and Jump never call it and the
// sequence is left untouched.
func Validate(cues []subtitle.Cue) []Issue {
	var issues []Issue
	for i, cue := range cues {
		if cue.Start == 0 && cue.End == 0 {
			issues = append(issues, Issue{
				Kind:    IssueZeroTime,
				Index:   i,
				Message: fmt.Sprintf("label %q has no usable timecode", cue.Label),
			})
		}
		if cue.End < cue.Start {
			issues = append(issues, Issue{
				Kind:  IssueInverted,
				Index: i,
				Message: fmt.Sprintf(
					"ends at %s before it starts at %s",
					subtitle.FormatTimecode(cue.End),
					subtitle.FormatTimecode(cue.Start),
				),
			})
		}
		if i == 0 {
			continue
		}

		prev := cues[i-1]
		switch {
		case cue.Start < prev.Start:
			issues = append(issues, Issue{
				Kind:  IssueOutOfOrder,
				Index: i,
				Message: fmt.Sprintf(
					"starts at %s, before cue %d at %s",
					subtitle.FormatTimecode(cue.Start),
					i-1,
					subtitle.FormatTimecode(prev.Start),
				),
			})
		case cue.Start < prev.End:
			issues = append(issues, Issue{
				Kind:  IssueOverlap,
				Index: i,
				Message: fmt.Sprintf(
					"starts at %s while cue %d runs until %s",
					subtitle.FormatTimecode(cue.Start),
					i-1,
					subtitle.FormatTimecode(prev.End),
				),
			})
		}
	}
	return issues
}

// CheckCoverage reports cues that end after the media does. A
// non-positive duration disables the check.
func CheckCoverage(cues []subtitle.Cue, duration float64) []Issue {
	if duration <= 0 {
		return nil
	}

	var issues []Issue
	for i, cue := range cues {
		if cue.End > duration {
			issues = append(issues, Issue{
				Kind:  IssueBeyondMedia,
				Index: i,
				Message: fmt.Sprintf(
					"ends at %s, media is %s long",
					subtitle.FormatTimecode(cue.End),
					subtitle.FormatTimecode(duration),
				),
			})
		}
	}
	return issues
}
