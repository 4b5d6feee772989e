package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/media"
	"github.com/mgpai22/cuecheck/internal/playback"
)

var checkCmd = &cobra.Command{
	Use:   "check [subtitle_file]",
	Short: "Validate cue timing",
	Long: `Report inverted intervals, overlapping or out-of-order cues and cues
whose timecodes could not be decoded. With --media, cues that end after
the media does are reported as well. The file itself is never modified.

Exits non-zero when issues are found.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("media", "m", "", "Media file the subtitle belongs to")
	checkCmd.Flags().Bool("json", false, "Print issues as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	mediaPath, _ := cmd.Flags().GetString("media")
	asJSON, _ := cmd.Flags().GetBool("json")

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	issues := playback.Validate(doc.Cues)

	if mediaPath != "" {
		if !media.IsMediaFile(mediaPath) {
			logger.Warnw("Unrecognized media extension", "media", mediaPath)
		}
		duration, err := media.Duration(cmd.Context(), mediaPath)
		if err != nil {
			return fmt.Errorf("failed to probe media: %w", err)
		}
		logger.Infow("Probed media", "media", mediaPath, "duration", duration)
		issues = append(issues, playback.CheckCoverage(doc.Cues, duration)...)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if issues == nil {
			issues = []playback.Issue{}
		}
		if err := enc.Encode(issues); err != nil {
			return err
		}
	} else {
		for _, issue := range issues {
			fmt.Fprintln(out, issue.String())
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("%d timing issue(s) in %d cues", len(issues), len(doc.Cues))
	}
	if !asJSON {
		fmt.Fprintf(out, "OK: %d cues\n", len(doc.Cues))
	}
	return nil
}
