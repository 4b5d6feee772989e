package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/subtitle"
)

var cuesCmd = &cobra.Command{
	Use:   "cues [subtitle_file]",
	Short: "List the cues of a subtitle file",
	Long: `Parse an SRT or WebVTT file and list every cue with its label,
time range and text. Malformed blocks are skipped silently.

Examples:
  cuecheck cues talk.srt
  cuecheck cues talk.vtt --json -o cues.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCues,
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript [subtitle_file]",
	Short: "Print the narrative transcript of a subtitle file",
	Long: `Join cue texts into paragraphs. A pause between cues longer than
--gap seconds starts a new paragraph.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscript,
}

func init() {
	rootCmd.AddCommand(cuesCmd)
	rootCmd.AddCommand(transcriptCmd)

	cuesCmd.Flags().Bool("json", false, "Print cues as JSON")
	transcriptCmd.Flags().
		Float64("gap", 0, "Paragraph break threshold in seconds; default from config")
}

func runCues(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	var sb strings.Builder
	if asJSON {
		if err := writeCuesJSON(&sb, doc.Cues); err != nil {
			return err
		}
	} else {
		writeCueTable(&sb, doc.Cues)
	}
	return writeOrPrint(cmd, sb.String())
}

func runTranscript(cmd *cobra.Command, args []string) error {
	gap, _ := cmd.Flags().GetFloat64("gap")
	if gap < 0 {
		return fmt.Errorf("gap must not be negative, got %v", gap)
	}
	if gap == 0 {
		gap = cfg.Transcript.ParagraphGap
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	return writeOrPrint(cmd, subtitle.Transcript(doc.Cues, gap)+"\n")
}

func writeCuesJSON(w io.Writer, cues []subtitle.Cue) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cues); err != nil {
		return fmt.Errorf("failed to encode cues: %w", err)
	}
	return nil
}

func writeCueTable(w io.Writer, cues []subtitle.Cue) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, cue := range cues {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, cue.Label, subtitle.FormatRange(cue.Start, cue.End), cue.Text)
	}
	tw.Flush()
}

func describeCue(i int, cue subtitle.Cue) string {
	return fmt.Sprintf("#%d [%s] %s --> %s  %s",
		i+1,
		cue.Label,
		subtitle.FormatTimecode(cue.Start),
		subtitle.FormatTimecode(cue.End),
		cue.Text,
	)
}
