package proofread

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

// ErrEmptyResult is returned when a model answer contains no usable cues.
var ErrEmptyResult = errors.New("model returned no usable cues")

type PolishOptions struct {
	BatchSize    int
	Concurrency  int
	Corrections  []Correction
	Instructions string
	ParagraphGap float64
}

type PolishResult struct {
	Cues       []subtitle.Cue
	Transcript string
	// set when the transcript was built locally because the model failed
	TranscriptFallback bool
}

// Polish applies the corrections locally, asks the model to regenerate the
// subtitle batch by batch and then to write a narrative transcript of the
// result. Every regenerated batch is parsed with subtitle.ParseTimedText.
func Polish(
	ctx context.Context,
	model Model,
	cues []subtitle.Cue,
	opts PolishOptions,
) (*PolishResult, error) {
	if len(cues) == 0 {
		return nil, ErrEmptyResult
	}

	corrected := ApplyCorrections(cues, opts.Corrections)

	polished, err := runBatches(
		ctx,
		splitBatches(corrected, opts.BatchSize),
		opts.Concurrency,
		func(ctx context.Context, batch []subtitle.Cue) ([]subtitle.Cue, error) {
			return polishBatch(ctx, model, batch, opts)
		},
	)
	if err != nil {
		return nil, err
	}

	result := &PolishResult{Cues: polished}

	transcript, err := model.Complete(ctx, BuildTranscriptPrompt(polished))
	transcript = cleanResponse(transcript)
	if err != nil || transcript == "" {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result.Transcript = subtitle.Transcript(polished, opts.ParagraphGap)
		result.TranscriptFallback = true
		return result, nil
	}

	result.Transcript = transcript
	return result, nil
}

func polishBatch(
	ctx context.Context,
	model Model,
	batch []subtitle.Cue,
	opts PolishOptions,
) ([]subtitle.Cue, error) {
	response, err := model.Complete(ctx, BuildPolishPrompt(opts, batch))
	if err != nil {
		return nil, err
	}

	cues := subtitle.ParseTimedText(cleanResponse(response))
	if len(cues) == 0 {
		return nil, fmt.Errorf(
			"%w (response: %s)",
			ErrEmptyResult,
			truncateString(response, 200),
		)
	}
	return cues, nil
}

// BuildPolishPrompt creates the subtitle regeneration prompt
func BuildPolishPrompt(opts PolishOptions, batch []subtitle.Cue) string {
	var sb strings.Builder

	sb.WriteString("Proofread the following SRT subtitle cues.\n\n")
	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Fix misheard words, spelling, punctuation and casing.\n")
	sb.WriteString("2. Keep every cue number and timestamp exactly as given.\n")
	sb.WriteString("3. Do not merge, split, add or drop cues.\n")
	sb.WriteString("4. Return ONLY the corrected SRT, no explanation or markdown.\n\n")

	if len(opts.Corrections) > 0 {
		sb.WriteString("Reviewed corrections that must be respected:\n")
		for _, c := range opts.Corrections {
			sb.WriteString(fmt.Sprintf("- %q -> %q\n", c.From, c.To))
		}
		sb.WriteByte('\n')
	}

	if opts.Instructions != "" {
		sb.WriteString(fmt.Sprintf("Additional instructions: %s\n\n", opts.Instructions))
	}

	sb.WriteString("Input SRT:\n")
	sb.WriteString(subtitle.EncodeSRT(batch))
	return sb.String()
}

// BuildTranscriptPrompt creates the narrative transcript prompt
func BuildTranscriptPrompt(cues []subtitle.Cue) string {
	var sb strings.Builder

	sb.WriteString("Rewrite the following subtitle text as a clean narrative transcript.\n")
	sb.WriteString("Join sentences that were split across cues, group them into paragraphs,\n")
	sb.WriteString("remove filler words and do not summarize or add content.\n")
	sb.WriteString("Return plain text only.\n\n")

	for _, cue := range cues {
		sb.WriteString(cue.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
