package playback

import "github.com/mgpai22/cuecheck/internal/subtitle"

// Player holds the caller side of playback: the current cue snapshot,
// cursor and active index. Every query goes through FindActive and Jump,
// so the result always matches a fresh scan of the snapshot.
//
// A Player is meant to be driven from a single loop and is not safe for
// concurrent use.
type Player struct {
	cues   []subtitle.Cue
	cursor float64
	active int
}

func NewPlayer(cues []subtitle.Cue) *Player {
	p := &Player{}
	p.Load(cues)
	return p
}

// Load replaces the snapshot wholesale and rewinds to zero.
func (p *Player) Load(cues []subtitle.Cue) {
	p.cues = cues
	p.Seek(0)
}

// Seek moves the cursor to t and returns the active index there.
func (p *Player) Seek(t float64) int {
	p.cursor = t
	p.active = FindActive(p.cues, t)
	return p.active
}

// Step jumps one cue in dir and moves the cursor to its start.
func (p *Player) Step(dir Direction) (float64, bool) {
	target, ok := Jump(p.cues, p.active, p.cursor, dir)
	if !ok {
		return p.cursor, false
	}
	p.Seek(target)
	return target, true
}

func (p *Player) Cursor() float64 {
	return p.cursor
}

func (p *Player) Active() int {
	return p.active
}

// Cue returns the active cue, if any.
func (p *Player) Cue() (subtitle.Cue, bool) {
	if p.active == None {
		return subtitle.Cue{}, false
	}
	return p.cues[p.active], true
}

func (p *Player) Len() int {
	return len(p.cues)
}
