package proofread

import (
	"testing"
)

func TestExtractTermList(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"original": "teh", "suggested": "the", "index": 0},
				{"original": "Kubernets", "suggested": "Kubernetes", "index": 3}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here are the terms:
			[
				{"original": "teh", "suggested": "the", "index": 0}
			]`,
			wantCount: 1,
		},
		{
			name: "valid array with trailing text",
			input: `[
				{"original": "teh", "suggested": "the", "index": 0}
			]
			I hope this helps!`,
			wantCount: 1,
		},
		{
			name:      "code fenced JSON",
			input:     "```json\n[{\"original\": \"gRPC\", \"suggested\": \"gRPC\", \"index\": 1}]\n```",
			wantCount: 1,
		},
		{
			name: "wrapper object with terms key",
			input: `{"terms": [
				{"original": "postgress", "suggested": "Postgres", "index": 2}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with unknown key",
			input: `{"findings": [
				{"original": "postgress", "suggested": "Postgres", "index": 2}
			]}`,
			wantCount: 1,
		},
		{
			name:      "subtitle newline escape",
			input:     `[{"original": "line\Nbreak", "suggested": "line break", "index": 0}]`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "objects without original",
			input:   `[{"suggested": "the"}]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"original": "incomplete"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONList(tt.input, validTerms)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractJSONList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.wantCount {
				t.Errorf("extractJSONList() returned %d terms, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"  padded \n", "padded"},
		{"```srt\n1\n00:00:01,000 --> 00:00:02,000\nhi\n```", "1\n00:00:01,000 --> 00:00:02,000\nhi"},
		{"```\nbody\n```", "body"},
	}

	for _, tt := range tests {
		if got := cleanResponse(tt.input); got != tt.want {
			t.Errorf("cleanResponse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsEmptyList(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"[]", true},
		{"```json\n[]\n```", true},
		{`{"terms": []}`, true},
		{`{"terms": [{"original": "x"}]}`, false},
		{`{}`, false},
		{"nothing to report", false},
	}

	for _, tt := range tests {
		if got := isEmptyList(tt.input); got != tt.want {
			t.Errorf("isEmptyList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	got := fixInvalidEscapes(`"a\Nb \n \"q\""`)
	want := `"a\\Nb \n \"q\""`
	if got != want {
		t.Errorf("fixInvalidEscapes() = %q, want %q", got, want)
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("abcdef", 3); got != "abc..." {
		t.Errorf("truncateString() = %q", got)
	}
	if got := truncateString("abc", 3); got != "abc" {
		t.Errorf("truncateString() = %q", got)
	}
}
