package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/cuecheck/internal/glossary"
	"github.com/mgpai22/cuecheck/internal/proofread"
)

var termsCmd = &cobra.Command{
	Use:   "terms [subtitle_file]",
	Short: "Extract terminology candidates using AI",
	Long: `Ask the model for names, jargon and spellings that were probably
misheard or written inconsistently. Terms from --glossary lists are sent
as known spellings.

--save writes the candidates as a corrections file that can be reviewed
and passed to 'cuecheck polish --corrections'.

Examples:
  cuecheck terms talk.srt
  cuecheck terms talk.srt --glossary tech --context "Kubernetes meetup"
  cuecheck terms talk.srt --save talk.corrections.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTerms,
}

func init() {
	rootCmd.AddCommand(termsCmd)

	addLLMFlags(termsCmd)
	addBatchFlags(termsCmd)
	termsCmd.Flags().StringSliceP("glossary", "g", nil, "Glossary lists with known terms")
	termsCmd.Flags().String("context", "", "Short description of the recording's topic")
	termsCmd.Flags().Bool("json", false, "Print terms as JSON")
	termsCmd.Flags().String("save", "", "Write candidates as a corrections YAML file")
}

func runTerms(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	lists, _ := cmd.Flags().GetStringSlice("glossary")
	topic, _ := cmd.Flags().GetString("context")
	asJSON, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")

	batchSize, concurrency, err := batchSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	known, err := glossaryTerms(ctx, lists)
	if err != nil {
		return err
	}

	model, err := newModel(ctx, cmd)
	if err != nil {
		return err
	}

	logger.Infow("Extracting terms",
		"cues", len(doc.Cues),
		"batch_size", batchSize,
		"concurrency", concurrency,
		"known", len(known),
	)

	terms, err := proofread.ExtractTerms(ctx, model, doc.Cues, proofread.TermOptions{
		BatchSize:   batchSize,
		Concurrency: concurrency,
		Known:       glossary.Known(known),
		Context:     topic,
	})
	if err != nil {
		return fmt.Errorf("term extraction failed: %w", err)
	}

	logger.Infow("Term extraction complete", "terms", len(terms))

	if savePath != "" {
		if err := saveCorrections(savePath, proofread.CorrectionsFromTerms(terms)); err != nil {
			return err
		}
		logger.Infow("Saved corrections", "path", savePath)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(terms)
	}

	if len(terms) == 0 {
		fmt.Fprintln(out, "No terminology candidates found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CUE\tORIGINAL\tSUGGESTED\tREASON")
	for _, t := range terms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.CueIndex+1, t.Original, t.Suggested, t.Reason)
	}
	return tw.Flush()
}

func loadCorrections(path string) ([]proofread.Correction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections: %w", err)
	}

	var corrections []proofread.Correction
	if err := yaml.Unmarshal(data, &corrections); err != nil {
		return nil, fmt.Errorf("failed to parse corrections %s: %w", path, err)
	}
	for i, c := range corrections {
		if c.From == "" {
			return nil, fmt.Errorf("corrections %s: entry %d has no 'from'", path, i+1)
		}
	}
	return corrections, nil
}

func saveCorrections(path string, corrections []proofread.Correction) error {
	data, err := yaml.Marshal(corrections)
	if err != nil {
		return fmt.Errorf("failed to encode corrections: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write corrections: %w", err)
	}
	return nil
}
