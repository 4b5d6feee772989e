package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/glossary"
	"github.com/mgpai22/cuecheck/internal/proofread"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

var polishCmd = &cobra.Command{
	Use:   "polish [subtitle_file]",
	Short: "Regenerate a proofread subtitle and transcript using AI",
	Long: `Apply reviewed corrections and glossary replacements, ask the model to
proofread the subtitle while keeping its timing, and write the result next
to the input together with a narrative transcript.

Corrections files are YAML lists of {from, to} pairs, as written by
'cuecheck terms --save'.

Examples:
  cuecheck polish talk.srt --corrections talk.corrections.yaml
  cuecheck polish talk.vtt --glossary tech -o final.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runPolish,
}

func init() {
	rootCmd.AddCommand(polishCmd)

	addLLMFlags(polishCmd)
	addBatchFlags(polishCmd)
	polishCmd.Flags().StringP("corrections", "c", "", "Corrections YAML file")
	polishCmd.Flags().StringSliceP("glossary", "g", nil, "Glossary lists whose replacements are applied")
	polishCmd.Flags().String("instructions", "", "Extra instructions for the model")
	polishCmd.Flags().String("transcript", "", "Transcript output path (default <output>.transcript.txt)")
	polishCmd.Flags().Bool("local", false, "Only apply corrections, do not call the model")
}

func runPolish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	subtitlePath := args[0]

	correctionsPath, _ := cmd.Flags().GetString("corrections")
	lists, _ := cmd.Flags().GetStringSlice("glossary")
	instructions, _ := cmd.Flags().GetString("instructions")
	transcriptPath, _ := cmd.Flags().GetString("transcript")
	localOnly, _ := cmd.Flags().GetBool("local")
	outputPath, _ := cmd.Flags().GetString("output")

	batchSize, concurrency, err := batchSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := loadDocument(subtitlePath)
	if err != nil {
		return err
	}

	var corrections []proofread.Correction
	if correctionsPath != "" {
		if corrections, err = loadCorrections(correctionsPath); err != nil {
			return err
		}
	}
	terms, err := glossaryTerms(ctx, lists)
	if err != nil {
		return err
	}
	corrections = append(corrections, glossary.Corrections(terms)...)

	outFormat := doc.Format
	if outputPath == "" {
		outputPath = derivedPath(subtitlePath, "polished", "")
	} else if f, err := subtitle.FormatFromPath(outputPath); err == nil {
		outFormat = f
	} else {
		return err
	}
	if transcriptPath == "" {
		transcriptPath = derivedPath(outputPath, "transcript", ".txt")
	}

	logger.Infow("Starting polish",
		"input", subtitlePath,
		"output", outputPath,
		"transcript", transcriptPath,
		"cues", len(doc.Cues),
		"corrections", len(corrections),
		"local", localOnly,
	)

	var result *proofread.PolishResult
	if localOnly {
		cues := proofread.ApplyCorrections(doc.Cues, corrections)
		result = &proofread.PolishResult{
			Cues:       cues,
			Transcript: subtitle.Transcript(cues, cfg.Transcript.ParagraphGap),
		}
	} else {
		model, err := newModel(ctx, cmd)
		if err != nil {
			return err
		}

		result, err = proofread.Polish(ctx, model, doc.Cues, proofread.PolishOptions{
			BatchSize:    batchSize,
			Concurrency:  concurrency,
			Corrections:  corrections,
			Instructions: instructions,
			ParagraphGap: cfg.Transcript.ParagraphGap,
		})
		if err != nil {
			return fmt.Errorf("polish failed: %w", err)
		}
		if result.TranscriptFallback {
			logger.Warnw("Model transcript failed, built it from cues instead")
		}
	}

	if len(result.Cues) != len(doc.Cues) {
		logger.Warnw("Cue count changed",
			"before", len(doc.Cues),
			"after", len(result.Cues),
		)
	}

	polished := &subtitle.Document{Format: outFormat, Cues: result.Cues}
	if err := polished.Write(outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.WriteFile(transcriptPath, []byte(result.Transcript+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	absTranscript, _ := filepath.Abs(transcriptPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitle polished successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", len(result.Cues))
	fmt.Fprintf(out, "  Transcript: %s\n", absTranscript)

	return nil
}
