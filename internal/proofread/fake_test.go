package proofread

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// fakeModel answers with a caller supplied function and records prompts.
type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	answer  func(prompt string) (string, error)
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.answer(prompt)
}

func (f *fakeModel) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// promptItems decodes the cue JSON embedded in a terms prompt.
func promptItems(prompt string) []promptCue {
	_, body, _ := strings.Cut(prompt, "Input JSON:\n")
	body, _, _ = strings.Cut(body, "\n\nOutput")
	var items []promptCue
	_ = json.Unmarshal([]byte(body), &items)
	return items
}

// promptSRT returns the SRT embedded in a polish prompt.
func promptSRT(prompt string) string {
	_, body, _ := strings.Cut(prompt, "Input SRT:\n")
	return body
}
