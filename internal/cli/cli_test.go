package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mgpai22/cuecheck/internal/config"
	"github.com/mgpai22/cuecheck/internal/logging"
	"github.com/mgpai22/cuecheck/internal/proofread"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:04,000
Welcome to the show.

2
00:00:05,500 --> 00:00:08,250
Today we talk about
cube control.

3
00:00:10,000 --> 00:00:12,500
Thanks for listening.
`

func TestMain(m *testing.M) {
	logger = logging.NewNop()
	cfg = &config.Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// execute runs the root command with a throwaway config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	return executeWithConfig(t, writeConfig(t, dir, ""), args...)
}

// writeConfig writes a config whose glossary lives in dir, plus extra YAML.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	configFile := filepath.Join(dir, "config.yaml")
	content := "glossary:\n  path: " + filepath.Join(dir, "glossary.db") + "\n" + extra
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return configFile
}

func executeWithConfig(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", configFile}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions of the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.srt")
	if err := os.WriteFile(path, []byte(sampleSRT), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseTimeArg(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"80.5", 80.5, false},
		{" 12 ", 12, false},
		{"00:01:20,500", 80.5, false},
		{"01:20:05", 4805, false},
		{"02:15", 135, false},
		{"02:15-02:20", 135, false},
		{"01:20:05-01:20:10", 4805, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimeArg(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimeArg(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTimeArg(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRangeArg(t *testing.T) {
	tests := []struct {
		in         string
		start, end float64
		wantErr    bool
	}{
		{"01:20-01:25", 80, 85, false},
		{"1:02:03-1:02:09", 3723, 3729, false},
		{"01:25-01:20", 0, 0, true},
		{"01:20", 0, 0, true},
		{"-01:20", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, err := parseRangeArg(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if start != tt.start || end != tt.end {
				t.Errorf("parseRangeArg(%q) = %v, %v, want %v, %v", tt.in, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestParseCueRef(t *testing.T) {
	tests := []struct {
		in       string
		wantPath string
		wantIdx  int
		wantErr  bool
	}{
		{"talk.srt:3", "talk.srt", 2, false},
		{"C:/subs/talk.srt:1", "C:/subs/talk.srt", 0, false},
		{"talk.srt", "", 0, true},
		{"talk.srt:", "", 0, true},
		{"talk.srt:0", "", 0, true},
		{":4", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			path, idx, err := parseCueRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if path != tt.wantPath || idx != tt.wantIdx {
				t.Errorf("parseCueRef(%q) = %q, %d", tt.in, path, idx)
			}
		})
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		path, suffix, ext, want string
	}{
		{"talk.srt", "polished", "", "talk.polished.srt"},
		{"dir/talk.vtt", "polished", "", "dir/talk.polished.vtt"},
		{"talk.polished.srt", "transcript", ".txt", "talk.polished.transcript.txt"},
	}

	for _, tt := range tests {
		if got := derivedPath(tt.path, tt.suffix, tt.ext); got != tt.want {
			t.Errorf("derivedPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolveAPIKey(t *testing.T) {
	env := map[string]string{"OPENAI_API_KEY": "from-env"}
	getenv := func(k string) string { return env[k] }

	if got := resolveAPIKey("flag", proofread.ProviderOpenAI, getenv); got != "flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := resolveAPIKey("", proofread.ProviderOpenAI, getenv); got != "from-env" {
		t.Errorf("expected env key, got %q", got)
	}
	if got := resolveAPIKey("", proofread.ProviderGemini, getenv); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}

func TestLoadDocumentEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	if err := os.WriteFile(path, []byte("not a subtitle\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadDocument(path); !errors.Is(err, errNoCues) {
		t.Errorf("expected errNoCues, got %v", err)
	}
	if _, err := loadDocument(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAtCommand(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		time string
		want string
	}{
		{"2", "#1 [1]"},
		{"00:00:08,250", "#2 [2]"},
		{"9", "No active cue at 00:00:09,000"},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			out, err := execute(t, "at", path, tt.time)
			if err != nil {
				t.Fatalf("at: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestCuesCommand(t *testing.T) {
	path := writeSample(t)

	out, err := execute(t, "cues", path)
	if err != nil {
		t.Fatalf("cues: %v", err)
	}
	for _, want := range []string{"00:01-00:04", "Today we talk about cube control.", "00:10-00:12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	path := writeSample(t)

	out, err := execute(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "OK: 3 cues") {
		t.Errorf("unexpected output %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.srt")
	content := "1\n00:00:05,000 --> 00:00:02,000\nInverted\n"
	if err := os.WriteFile(bad, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err = execute(t, "check", bad)
	if err == nil {
		t.Fatal("expected error for inverted cue")
	}
	if !strings.Contains(out, "inverted") {
		t.Errorf("output %q does not report inversion", out)
	}
}

func TestGlossaryCommands(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "")

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"glossary", "create", "tech"}, `Created list "tech"`},
		{[]string{"glossary", "add", "tech", "cube control", "kubectl"}, `Added "cube control" -> "kubectl"`},
		{[]string{"glossary", "list"}, "tech"},
		{[]string{"glossary", "show", "tech"}, "kubectl"},
		{[]string{"glossary", "remove", "tech", "cube control"}, "Removed"},
		{[]string{"glossary", "delete", "tech"}, `Deleted list "tech"`},
	}

	for _, step := range steps {
		out, err := executeWithConfig(t, configFile, step.args...)
		if err != nil {
			t.Fatalf("%v: %v", step.args, err)
		}
		if !strings.Contains(out, step.want) {
			t.Errorf("%v: output %q missing %q", step.args, out, step.want)
		}
	}
}

func TestJumpCommand(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"backward from gap", []string{"9", "--dir", "backward"}, "#2 [2]"},
		{"forward from gap", []string{"9", "--dir", "forward"}, "#3 [3]"},
		{"forward from active", []string{"6"}, "#3 [3]"},
		{"backward from first", []string{"2", "--dir", "back"}, "No cue before 00:00:02,000"},
		{"explicit last cue", []string{"2", "--active", "3", "--dir", "forward"}, "No cue after 00:00:02,000"},
		{"explicit first cue", []string{"11", "--active", "1"}, "#2 [2]"},
		{"out of range active is none", []string{"11", "--active", "7", "--dir", "backward"}, "#2 [2]"},
		{"range label time", []string{"00:09-00:10", "--dir", "backward"}, "#2 [2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"jump", path}, tt.args...)...)
			if err != nil {
				t.Fatalf("jump: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}

	if _, err := execute(t, "jump", path, "9", "--dir", "sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestTranscriptCommand(t *testing.T) {
	path := writeSample(t)
	split := "Welcome to the show.\n\nToday we talk about cube control.\n\nThanks for listening."

	out, err := execute(t, "transcript", path)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if strings.Contains(out, "\n\n") {
		t.Errorf("default gap should keep one paragraph, got %q", out)
	}

	out, err = execute(t, "transcript", path, "--gap", "1")
	if err != nil {
		t.Fatalf("transcript --gap: %v", err)
	}
	if !strings.Contains(out, split) {
		t.Errorf("--gap 1 output %q", out)
	}

	dir := t.TempDir()
	configFile := writeConfig(t, dir, "transcript:\n  paragraph_gap: 1\n")
	out, err = executeWithConfig(t, configFile, "transcript", path)
	if err != nil {
		t.Fatalf("transcript with config gap: %v", err)
	}
	if !strings.Contains(out, split) {
		t.Errorf("config gap output %q", out)
	}

	if _, err := execute(t, "transcript", path, "--gap=-1"); err == nil {
		t.Error("expected error for negative gap")
	}
}

func TestPolishLocalCommand(t *testing.T) {
	path := writeSample(t)
	dir := t.TempDir()

	corrections := filepath.Join(dir, "fixes.yaml")
	content := "- from: cube control\n  to: kubectl\n- from: Thanks for listening.\n  to: \"\"\n"
	if err := os.WriteFile(corrections, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "out", "final.srt")
	out, err := execute(t, "polish", path, "--local", "-c", corrections, "-o", outPath)
	if err != nil {
		t.Fatalf("polish --local: %v", err)
	}
	if !strings.Contains(out, "Subtitle polished successfully") {
		t.Errorf("unexpected output %q", out)
	}

	doc, err := subtitle.Open(outPath)
	if err != nil {
		t.Fatalf("open polished file: %v", err)
	}
	if len(doc.Cues) != 3 {
		t.Fatalf("polished file has %d cues, want 3", len(doc.Cues))
	}
	if doc.Cues[1].Text != "Today we talk about kubectl." {
		t.Errorf("cue 2 = %q", doc.Cues[1].Text)
	}
	if doc.Cues[2].Text != "Thanks for listening." {
		t.Errorf("cue 3 was blanked: %q", doc.Cues[2].Text)
	}
	if doc.Cues[1].Start != 5.5 || doc.Cues[1].End != 8.25 {
		t.Errorf("cue 2 timing changed: %v-%v", doc.Cues[1].Start, doc.Cues[1].End)
	}

	transcript, err := os.ReadFile(filepath.Join(dir, "out", "final.transcript.txt"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if !strings.Contains(string(transcript), "Today we talk about kubectl.") {
		t.Errorf("transcript = %q", transcript)
	}
}

func TestPolishRejectsBadCorrections(t *testing.T) {
	path := writeSample(t)
	corrections := filepath.Join(t.TempDir(), "fixes.yaml")
	if err := os.WriteFile(corrections, []byte("- to: nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "polish", path, "--local", "-c", corrections); err == nil {
		t.Error("expected error for correction without 'from'")
	}
}

type fakeConversation struct {
	sent   []string
	resets int
	err    error
}

func (f *fakeConversation) Send(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, text)
	return "reply to " + text, nil
}

func (f *fakeConversation) Reset() { f.resets++ }

func lastEntry(m *chatModel) string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[len(m.entries)-1]
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestChatModelNavigation(t *testing.T) {
	m := newChatModel(context.Background(), &fakeConversation{}, subtitle.ParseTimedText(sampleSRT))

	steps := []struct {
		line string
		want string
	}{
		{"/at 6", "#2 [2]"},
		{"/next", "#3 [3]"},
		{"/next", "No cue after 00:00:10,000"},
		{"/prev", "#2 [2]"},
		{"/at 9", "No active cue at 00:00:09,000"},
		{"/prev", "#2 [2]"},
		{"/at soon", "invalid time"},
	}

	for _, step := range steps {
		m.submit(step.line)
		if got := lastEntry(m); !strings.Contains(got, step.want) {
			t.Errorf("%s: entry %q does not contain %q", step.line, got, step.want)
		}
	}
	if !strings.Contains(m.View(), "#2 [2]") {
		t.Errorf("header does not show the active cue:\n%s", m.View())
	}
}

func TestChatModelEnterKey(t *testing.T) {
	m := newChatModel(context.Background(), &fakeConversation{}, subtitle.ParseTimedText(sampleSRT))

	m.input.SetValue("/at 00:00:11,000")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if got := lastEntry(m); !strings.Contains(got, "#3 [3]") {
		t.Errorf("entry = %q", got)
	}
}

func TestChatModelSend(t *testing.T) {
	conv := &fakeConversation{}
	m := newChatModel(context.Background(), conv, subtitle.ParseTimedText(sampleSRT))

	_, cmd := m.submit("who speaks?")
	if cmd == nil || !m.waiting {
		t.Fatal("expected a pending model request")
	}

	m.submit("again")
	if got := lastEntry(m); !strings.Contains(got, "still waiting") {
		t.Errorf("second question while waiting: %q", got)
	}

	m.Update(cmd())
	if m.waiting {
		t.Error("waiting not cleared after reply")
	}
	if got := lastEntry(m); got != "reply to who speaks?" {
		t.Errorf("reply entry = %q", got)
	}
	if len(conv.sent) != 1 || conv.sent[0] != "who speaks?" {
		t.Errorf("sent = %q", conv.sent)
	}

	m.submit("/reset")
	if conv.resets != 1 {
		t.Errorf("resets = %d, want 1", conv.resets)
	}

	_, cmd = m.submit("/exit")
	if !isQuit(cmd) {
		t.Error("/exit should quit")
	}
}

func TestChatModelReplyErrors(t *testing.T) {
	m := newChatModel(context.Background(), &fakeConversation{}, nil)

	_, cmd := m.Update(replyMsg{err: errors.New("rate limited")})
	if isQuit(cmd) {
		t.Error("a failed request should not end the session")
	}
	if got := lastEntry(m); !strings.Contains(got, "rate limited") {
		t.Errorf("entry = %q", got)
	}

	_, cmd = m.Update(replyMsg{err: context.Canceled})
	if !isQuit(cmd) {
		t.Error("cancellation should end the session")
	}
	if !errors.Is(m.err, context.Canceled) {
		t.Errorf("err = %v", m.err)
	}
}
