package proofread

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

// Term is a vocabulary candidate the model thinks was misheard or
// inconsistently spelled. CueIndex is the first cue it was seen in.
type Term struct {
	Original    string `json:"original"`
	Suggested   string `json:"suggested"`
	Reason      string `json:"reason,omitempty"`
	CueIndex    int    `json:"index"`
	Occurrences int    `json:"occurrences,omitempty"`
}

// cue as it is sent to the model
type promptCue struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type TermOptions struct {
	BatchSize   int
	Concurrency int
	Known       []string // glossary terms hinted to the model
	Context     string   // free-form topic description
}

// ExtractTerms asks the model for terminology candidates batch by batch
// and merges the answers. Candidates are de-duplicated on their original
// spelling (case-insensitive) and ordered by first appearance.
func ExtractTerms(
	ctx context.Context,
	model Model,
	cues []subtitle.Cue,
	opts TermOptions,
) ([]Term, error) {
	if len(cues) == 0 {
		return []Term{}, nil
	}

	items := make([]promptCue, len(cues))
	for i, cue := range cues {
		items[i] = promptCue{Index: i, Text: cue.Text}
	}

	raw, err := runBatches(
		ctx,
		splitBatches(items, opts.BatchSize),
		opts.Concurrency,
		func(ctx context.Context, batch []promptCue) ([]Term, error) {
			return extractBatch(ctx, model, batch, opts)
		},
	)
	if err != nil {
		return nil, err
	}

	return mergeTerms(raw, len(cues)), nil
}

func extractBatch(
	ctx context.Context,
	model Model,
	batch []promptCue,
	opts TermOptions,
) ([]Term, error) {
	response, err := model.Complete(ctx, BuildTermsPrompt(opts, batch))
	if err != nil {
		return nil, err
	}

	if isEmptyList(response) {
		return []Term{}, nil
	}

	terms, err := extractJSONList(response, validTerms)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse terms: %w (response: %s)",
			err,
			truncateString(response, 200),
		)
	}
	return terms, nil
}

func validTerms(terms []Term) bool {
	if len(terms) == 0 {
		return false
	}
	for _, t := range terms {
		if strings.TrimSpace(t.Original) == "" {
			return false
		}
	}
	return true
}

// a batch without findings is a valid answer
func isEmptyList(response string) bool {
	s := cleanResponse(response)
	if s == "[]" {
		return true
	}
	var wrapper map[string][]json.RawMessage
	if err := json.Unmarshal([]byte(s), &wrapper); err != nil || len(wrapper) == 0 {
		return false
	}
	for _, v := range wrapper {
		if len(v) != 0 {
			return false
		}
	}
	return true
}

func mergeTerms(raw []Term, cueCount int) []Term {
	byKey := make(map[string]int)
	merged := make([]Term, 0, len(raw))

	for _, t := range raw {
		t.Original = strings.TrimSpace(t.Original)
		t.Suggested = strings.TrimSpace(t.Suggested)
		if t.Original == "" || t.Original == t.Suggested {
			continue
		}
		if t.CueIndex < 0 || t.CueIndex >= cueCount {
			t.CueIndex = 0
		}

		key := strings.ToLower(t.Original)
		if at, ok := byKey[key]; ok {
			merged[at].Occurrences++
			if t.CueIndex < merged[at].CueIndex {
				merged[at].CueIndex = t.CueIndex
			}
			if merged[at].Suggested == "" {
				merged[at].Suggested = t.Suggested
			}
			continue
		}

		t.Occurrences = 1
		byKey[key] = len(merged)
		merged = append(merged, t)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CueIndex < merged[j].CueIndex
	})
	return merged
}

// BuildTermsPrompt creates the terminology extraction prompt
func BuildTermsPrompt(opts TermOptions, items []promptCue) string {
	var sb strings.Builder

	sb.WriteString("You are proofreading an automatic transcript split into subtitle cues.\n")
	sb.WriteString("Find words or phrases that look misheard, misspelled, or inconsistently written,\n")
	sb.WriteString("especially names, jargon, and technical terms.\n\n")

	if opts.Context != "" {
		sb.WriteString(fmt.Sprintf("Topic of the recording: %s\n\n", opts.Context))
	}
	if len(opts.Known) > 0 {
		sb.WriteString("Known correct spellings (glossary):\n")
		for _, k := range opts.Known {
			sb.WriteString("- ")
			sb.WriteString(k)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Return ONLY a JSON array, or [] if nothing needs attention.\n")
	sb.WriteString("2. Each object must have 'original', 'suggested', 'reason' and 'index' fields.\n")
	sb.WriteString("3. 'original' must appear verbatim in the cue text.\n")
	sb.WriteString("4. 'index' is the index of the cue where the term appears first.\n")
	sb.WriteString("5. Do not add any explanation or markdown formatting.\n\n")

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the JSON array only:")

	return sb.String()
}
