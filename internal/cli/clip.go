package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/media"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

var clipCmd = &cobra.Command{
	Use:   "clip [media_file]",
	Short: "Extract the media segment of a cue or range",
	Long: `Cut a segment out of an audio or video file so a cue can be checked
by ear. The segment is given either as a range label or as a cue of a
subtitle file (1-based position).

Examples:
  cuecheck clip talk.mp4 --range 01:20-01:25
  cuecheck clip talk.mp4 --cue talk.srt:12 --pad 0.5 --audio-only -o cue12.mp3`,
	Args: cobra.ExactArgs(1),
	RunE: runClip,
}

func init() {
	rootCmd.AddCommand(clipCmd)

	clipCmd.Flags().StringP("range", "r", "", "Range label, e.g. 01:20-01:25 or 1:02:03-1:02:09")
	clipCmd.Flags().String("cue", "", "Cue reference FILE:N")
	clipCmd.Flags().Float64("pad", 0, "Seconds added before and after the segment")
	clipCmd.Flags().Bool("audio-only", false, "Drop the video stream")
	clipCmd.Flags().Bool("copy", false, "Stream-copy instead of re-encoding (keyframe accurate only)")

	clipCmd.MarkFlagsMutuallyExclusive("range", "cue")
	clipCmd.MarkFlagsOneRequired("range", "cue")
}

func runClip(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	rangeLabel, _ := cmd.Flags().GetString("range")
	cueRef, _ := cmd.Flags().GetString("cue")
	pad, _ := cmd.Flags().GetFloat64("pad")
	audioOnly, _ := cmd.Flags().GetBool("audio-only")
	copyStreams, _ := cmd.Flags().GetBool("copy")
	outputPath, _ := cmd.Flags().GetString("output")

	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported media file %q", mediaPath)
	}
	if pad < 0 {
		return fmt.Errorf("pad must not be negative, got %v", pad)
	}

	var start, end float64
	if rangeLabel != "" {
		var err error
		if start, end, err = parseRangeArg(rangeLabel); err != nil {
			return err
		}
	} else {
		path, idx, err := parseCueRef(cueRef)
		if err != nil {
			return err
		}
		doc, err := loadDocument(path)
		if err != nil {
			return err
		}
		if idx >= len(doc.Cues) {
			return fmt.Errorf("cue %d out of range: %s has %d cues", idx+1, path, len(doc.Cues))
		}
		start, end = doc.Cues[idx].Start, doc.Cues[idx].End
	}

	start = max(start-pad, 0)
	end += pad

	if outputPath == "" {
		ext := ""
		if audioOnly && media.IsVideoFile(mediaPath) {
			ext = ".mp3"
		}
		outputPath = media.ClipName(mediaPath, start, ext)
	}

	logger.Infow("Extracting clip",
		"media", mediaPath,
		"output", outputPath,
		"start", start,
		"end", end,
	)

	err := media.Clip(cmd.Context(), mediaPath, outputPath, start, end, media.ClipOptions{
		AudioOnly: audioOnly,
		Copy:      copyStreams,
	})
	if err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Clip written: %s (%s)\n", absOutput, subtitle.FormatRange(start, end))
	return nil
}

// parseRangeArg decodes both ends of a range label.
func parseRangeArg(r string) (float64, float64, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(r), "-")
	if !ok || left == "" || right == "" {
		return 0, 0, fmt.Errorf("invalid range %q: use MM:SS-MM:SS or HH:MM:SS-HH:MM:SS", r)
	}

	start := subtitle.ParseRangeStart(left)
	end := subtitle.ParseRangeStart(right)
	if end <= start {
		return 0, 0, fmt.Errorf("invalid range %q: end must be after start", r)
	}
	return start, end, nil
}
