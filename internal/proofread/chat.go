package proofread

import (
	"context"
	"strings"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

const defaultChatTurns = 20

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role Role
	Text string
}

// Chat is a free-form conversation about a transcript. The providers are
// used single-turn, so every request replays the transcript and the most
// recent history.
type Chat struct {
	model    Model
	document string
	history  []Message
	maxTurns int
}

func NewChat(model Model, cues []subtitle.Cue) *Chat {
	var sb strings.Builder
	for _, cue := range cues {
		sb.WriteByte('[')
		sb.WriteString(subtitle.FormatRange(cue.Start, cue.End))
		sb.WriteString("] ")
		sb.WriteString(cue.Text)
		sb.WriteByte('\n')
	}

	return &Chat{
		model:    model,
		document: sb.String(),
		maxTurns: defaultChatTurns,
	}
}

// Send asks the model and records the exchange. Failed requests leave the
// history unchanged.
func (c *Chat) Send(ctx context.Context, text string) (string, error) {
	reply, err := c.model.Complete(ctx, c.prompt(text))
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)

	c.history = append(c.history,
		Message{Role: RoleUser, Text: text},
		Message{Role: RoleModel, Text: reply},
	)
	return reply, nil
}

func (c *Chat) History() []Message {
	return append([]Message(nil), c.history...)
}

func (c *Chat) Reset() {
	c.history = nil
}

func (c *Chat) prompt(text string) string {
	var sb strings.Builder

	sb.WriteString("You help a user proofread the transcript below. Time ranges are\n")
	sb.WriteString("MM:SS or HH:MM:SS. Answer concisely.\n\n")
	sb.WriteString("Transcript:\n")
	sb.WriteString(c.document)
	sb.WriteByte('\n')

	history := c.history
	if limit := c.maxTurns * 2; len(history) > limit {
		history = history[len(history)-limit:]
	}
	for _, m := range history {
		sb.WriteString(string(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Text)
		sb.WriteByte('\n')
	}

	sb.WriteString("user: ")
	sb.WriteString(text)
	sb.WriteString("\nmodel:")
	return sb.String()
}
