package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/glossary"
	"github.com/mgpai22/cuecheck/internal/proofread"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

var errNoCues = errors.New("subtitle file contains no cues")

// loadDocument opens a subtitle file and rejects files without usable cues.
func loadDocument(path string) (*subtitle.Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file not found: %s", path)
	}

	doc, err := subtitle.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(doc.Cues) == 0 {
		return nil, errNoCues
	}

	logger.Debugw("Parsed subtitle file",
		"path", path,
		"format", doc.Format,
		"cues", len(doc.Cues),
	)
	return doc, nil
}

// parseTimeArg accepts plain seconds ("80.5"), an SRT timecode
// ("00:01:20,500") or a range label ("01:20-01:25", "1:02:03-1:02:09").
// Only the start of a range is used.
func parseTimeArg(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}

	if strings.Contains(s, ":") {
		if strings.Count(s, ":") == 2 && !strings.Contains(s, "-") {
			return subtitle.ParseTimecode(s), nil
		}
		return subtitle.ParseRangeStart(s), nil
	}

	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: use seconds, HH:MM:SS,mmm or MM:SS-MM:SS", s)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("time must not be negative, got %q", s)
	}
	return seconds, nil
}

// parseCueRef splits "FILE:N" where N is the 1-based cue position.
func parseCueRef(ref string) (string, int, error) {
	i := strings.LastIndex(ref, ":")
	if i <= 0 || i == len(ref)-1 {
		return "", 0, fmt.Errorf("invalid cue reference %q: use FILE:N", ref)
	}

	n, err := strconv.Atoi(ref[i+1:])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("invalid cue number in %q: must be a positive integer", ref)
	}
	return ref[:i], n - 1, nil
}

// derivedPath names a sibling of path, e.g. talk.srt -> talk.polished.srt.
func derivedPath(path, suffix, ext string) string {
	if ext == "" {
		ext = filepath.Ext(path)
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "." + suffix + ext
}

// writeOrPrint writes content to the --output path when set, stdout otherwise.
func writeOrPrint(cmd *cobra.Command, content string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", absOutput)
	return nil
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().
		String("provider", "", "LLM provider (gemini, openai, anthropic); default from config")
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	cmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().
		Int("concurrency", 0, "Number of parallel model requests; default from config")
	cmd.Flags().
		Int("batch-size", 0, "Number of cues per model request; default from config")
}

// newModel builds the model from flags, falling back to config and env.
func newModel(ctx context.Context, cmd *cobra.Command) (proofread.Model, error) {
	providerStr, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")

	if providerStr == "" {
		providerStr = cfg.LLM.Provider
	}
	if model == "" {
		model = cfg.LLM.Model
	}

	provider, err := proofread.ParseProvider(providerStr)
	if err != nil {
		return nil, err
	}

	apiKey = resolveAPIKey(apiKey, provider, os.Getenv)
	if apiKey == "" {
		return nil, fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.EnvVar(),
		)
	}

	m, err := proofread.Factory(ctx, provider, apiKey, proofread.Options{Model: model})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	logger.Infow("Using model", "model", m.Name())
	return m, nil
}

func resolveAPIKey(flagValue string, provider proofread.Provider, getenv func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	return getenv(provider.EnvVar())
}

// batchSettings returns batch size and concurrency, flags over config.
func batchSettings(cmd *cobra.Command) (int, int, error) {
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if cmd.Flags().Changed("batch-size") && batchSize <= 0 {
		return 0, 0, fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}
	if cmd.Flags().Changed("concurrency") && concurrency <= 0 {
		return 0, 0, fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}

	if batchSize == 0 {
		batchSize = cfg.LLM.BatchSize
	}
	if concurrency == 0 {
		concurrency = cfg.LLM.Concurrency
	}
	return batchSize, concurrency, nil
}

func openGlossary(ctx context.Context) (*glossary.Store, error) {
	store, err := glossary.Open(ctx, cfg.Glossary.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glossary: %w", err)
	}
	return store, nil
}

// glossaryTerms loads the terms of every named list. No names, no terms.
func glossaryTerms(ctx context.Context, names []string) ([]glossary.Term, error) {
	if len(names) == 0 {
		return nil, nil
	}

	store, err := openGlossary(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var all []glossary.Term
	for _, name := range names {
		terms, err := store.Terms(ctx, name)
		if err != nil {
			return nil, err
		}
		logger.Debugw("Loaded glossary list", "list", name, "terms", len(terms))
		all = append(all, terms...)
	}
	return all, nil
}
