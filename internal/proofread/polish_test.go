package proofread

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

func polishModel(transcriptErr error) *fakeModel {
	return &fakeModel{answer: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Rewrite the following") {
			if transcriptErr != nil {
				return "", transcriptErr
			}
			return "The cat sat.\n\nKubernetes rocks.", nil
		}
		cues := subtitle.ParseTimedText(promptSRT(prompt))
		for i := range cues {
			cues[i].Text = strings.ReplaceAll(cues[i].Text, "teh", "the")
		}
		return "```srt\n" + subtitle.EncodeSRT(cues) + "```", nil
	}}
}

func polishInput() []subtitle.Cue {
	return []subtitle.Cue{
		{Label: "1", Start: 0, End: 2, Text: "teh cat sat."},
		{Label: "2", Start: 2.5, End: 4, Text: "Kubernets rocks."},
		{Label: "3", Start: 9, End: 10, Text: "bye"},
	}
}

func TestPolish(t *testing.T) {
	model := polishModel(nil)

	result, err := Polish(context.Background(), model, polishInput(), PolishOptions{
		BatchSize:   2,
		Corrections: []Correction{{From: "Kubernets", To: "Kubernetes"}},
	})
	if err != nil {
		t.Fatalf("Polish error: %v", err)
	}

	if len(result.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(result.Cues))
	}
	want := []string{"the cat sat.", "Kubernetes rocks.", "bye"}
	for i, w := range want {
		if result.Cues[i].Text != w {
			t.Errorf("cue %d: got %q, want %q", i, result.Cues[i].Text, w)
		}
		if result.Cues[i].Label != polishInput()[i].Label {
			t.Errorf("cue %d: label changed to %q", i, result.Cues[i].Label)
		}
	}
	if result.Cues[1].Start != 2.5 {
		t.Errorf("cue 1: start changed to %v", result.Cues[1].Start)
	}

	if result.TranscriptFallback {
		t.Error("did not expect transcript fallback")
	}
	if result.Transcript != "The cat sat.\n\nKubernetes rocks." {
		t.Errorf("unexpected transcript %q", result.Transcript)
	}

	for _, p := range model.calls() {
		if strings.Contains(promptSRT(p), "Kubernets") {
			t.Error("corrections were not applied before the request")
		}
	}
}

func TestPolishTranscriptFallback(t *testing.T) {
	model := polishModel(errors.New("rate limited"))

	result, err := Polish(context.Background(), model, polishInput(), PolishOptions{})
	if err != nil {
		t.Fatalf("Polish error: %v", err)
	}
	if !result.TranscriptFallback {
		t.Fatal("expected transcript fallback")
	}
	if want := subtitle.Transcript(result.Cues, 0); result.Transcript != want {
		t.Errorf("got transcript %q, want %q", result.Transcript, want)
	}
}

func TestPolishRejectsUnparsableAnswer(t *testing.T) {
	model := &fakeModel{answer: func(string) (string, error) {
		return "Sorry, I cannot help with that.", nil
	}}

	_, err := Polish(context.Background(), model, polishInput(), PolishOptions{})
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestPolishEmptyInput(t *testing.T) {
	_, err := Polish(context.Background(), polishModel(nil), nil, PolishOptions{})
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestPolishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Polish(ctx, polishModel(nil), polishInput(), PolishOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
