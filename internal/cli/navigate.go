package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/playback"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

var atCmd = &cobra.Command{
	Use:   "at [subtitle_file] [time]",
	Short: "Show the cue active at a playback position",
	Long: `Resolve a playback position to the cue whose interval contains it.
Boundaries are inclusive; when cues overlap the earliest in the file wins.

TIME is seconds (80.5), an SRT timecode (00:01:20,500) or a range label
(01:20-01:25, of which only the start is used).

Examples:
  cuecheck at talk.srt 80.5
  cuecheck at talk.srt 00:01:20,500`,
	Args: cobra.ExactArgs(2),
	RunE: runAt,
}

var jumpCmd = &cobra.Command{
	Use:   "jump [subtitle_file] [time]",
	Short: "Find the cue to jump to from a playback position",
	Long: `Resolve an explicit previous/next request. With an active cue the
neighbouring cue is chosen; from a gap between cues forward goes to the
next cue starting after TIME and backward to the last cue ending before it.

Examples:
  cuecheck jump talk.srt 12.0 --dir forward
  cuecheck jump talk.srt 12.0 --dir backward --active 3`,
	Args: cobra.ExactArgs(2),
	RunE: runJump,
}

func init() {
	rootCmd.AddCommand(atCmd)
	rootCmd.AddCommand(jumpCmd)

	jumpCmd.Flags().StringP("dir", "d", "forward", "Jump direction (forward, backward)")
	jumpCmd.Flags().
		Int("active", 0, "1-based active cue; default resolves it from TIME")
}

func runAt(cmd *cobra.Command, args []string) error {
	t, err := parseTimeArg(args[1])
	if err != nil {
		return err
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	idx := playback.FindActive(doc.Cues, t)
	logger.Debugw("Resolved active cue", "time", t, "index", idx)

	out := cmd.OutOrStdout()
	if idx == playback.None {
		fmt.Fprintf(out, "No active cue at %s\n", subtitle.FormatTimecode(t))
		return nil
	}
	fmt.Fprintln(out, describeCue(idx, doc.Cues[idx]))
	return nil
}

func runJump(cmd *cobra.Command, args []string) error {
	dirStr, _ := cmd.Flags().GetString("dir")
	activeFlag, _ := cmd.Flags().GetInt("active")

	dir, err := playback.ParseDirection(dirStr)
	if err != nil {
		return err
	}

	t, err := parseTimeArg(args[1])
	if err != nil {
		return err
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	active := playback.FindActive(doc.Cues, t)
	if cmd.Flags().Changed("active") {
		// out-of-range positions are resolved as "no active cue"
		active = activeFlag - 1
	}

	idx, ok := playback.JumpIndex(doc.Cues, active, t, dir)
	logger.Debugw("Resolved jump",
		"time", t,
		"active", active,
		"direction", dir,
		"target", idx,
	)

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintf(out, "No cue %s of %s\n", directionWord(dir), subtitle.FormatTimecode(t))
		return nil
	}
	fmt.Fprintln(out, describeCue(idx, doc.Cues[idx]))
	return nil
}

func directionWord(dir playback.Direction) string {
	if dir == playback.Backward {
		return "before"
	}
	return "after"
}
