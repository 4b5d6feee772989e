// Package playback maps a playback cursor onto a cue sequence.
//
// All functions take the sequence and the cursor explicitly and keep no
// state between calls; the caller owns the current active index.
package playback

import (
	"fmt"
	"strings"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

// None is the active index reported when no cue contains the cursor.
const None = -1

// direction of an explicit jump
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "next", "f":
		return Forward, nil
	case "backward", "back", "prev", "previous", "b":
		return Backward, nil
	default:
		return Forward, fmt.Errorf("invalid direction %q: use forward or backward", s)
	}
}

// FindActive returns the index of the first cue, in source order, whose
// [Start, End] interval contains t. Overlapping cues resolve to the
// earliest one in the sequence. It returns None when no cue matches.
func FindActive(cues []subtitle.Cue, t float64) int {
	for i, cue := range cues {
		if cue.Contains(t) {
			return i
		}
	}
	return None
}

// Jump resolves an explicit navigation request and returns the start time
// of the target cue. ok is false when there is nowhere to go.
func Jump(
	cues []subtitle.Cue,
	active int,
	t float64,
	dir Direction,
) (target float64, ok bool) {
	idx, ok := JumpIndex(cues, active, t, dir)
	if !ok {
		return 0, false
	}
	return cues[idx].Start, true
}

// JumpIndex is Jump returning the target cue index instead of its start.
//
// With an active cue the neighbour in dir is chosen, and the first and
// last cues do not wrap. Without one (the cursor sits in a gap) forward
// picks the first cue starting after t and backward the last cue ending
// before t. An active index outside the sequence counts as None.
func JumpIndex(
	cues []subtitle.Cue,
	active int,
	t float64,
	dir Direction,
) (int, bool) {
	if len(cues) == 0 {
		return None, false
	}
	if active < 0 || active >= len(cues) {
		active = None
	}

	switch dir {
	case Forward:
		if active != None {
			if active == len(cues)-1 {
				return None, false
			}
			return active + 1, true
		}
		for i, cue := range cues {
			if cue.Start > t {
				return i, true
			}
		}
	case Backward:
		if active != None {
			if active == 0 {
				return None, false
			}
			return active - 1, true
		}
		for i := len(cues) - 1; i >= 0; i-- {
			if cues[i].End < t {
				return i, true
			}
		}
	}

	return None, false
}
