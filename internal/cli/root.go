package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/config"
	"github.com/mgpai22/cuecheck/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cuecheck",
	Short: "Proofread transcripts against their subtitle timing",
	Long: `cuecheck is a CLI workspace for proofreading audio and video
transcripts.

It parses SRT and WebVTT files, resolves playback positions to cues,
validates timing, extracts terminology with an LLM, applies reviewed
corrections and glossaries, and regenerates a polished subtitle plus a
narrative transcript.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadOrDefault(config.DefaultPath())
		}
		if err != nil {
			return err
		}

		logger.Debugw("Loaded config",
			"provider", cfg.LLM.Provider,
			"glossary", cfg.Glossary.Path,
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

// Execute runs the root command; Ctrl-C cancels in-flight model requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/cuecheck/config.yaml)")
}
