package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	inputPath     string
	jsonPath      string
	useSnapshot   bool
	remote        bool
	verbose       bool
	parseOutput   string
	archiveOutput string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subtriage",
	Short: "Triage your YouTube subscriptions into keep, toss and archive",
	Long: `subtriage loads a subscription list and lets you sort every channel
into keep, toss or archive from the keyboard.

The list comes from a copied "subscriptions" page (--input), a previous export
(--json), the last saved snapshot (--snapshot) or, when an access token is
configured, straight from your YouTube account (--remote).`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var parseCmd = &cobra.Command{
	Use:   "parse <input.txt>",
	Short: "Extract subscription records from copied page text",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <export.json>",
	Short: "Write the archived-channel PDF for an export",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "plain-text subscriptions page to import")
	rootCmd.Flags().StringVar(&jsonPath, "json", "", "previous curated_subscriptions.json export to resume")
	rootCmd.Flags().BoolVar(&useSnapshot, "snapshot", false, "resume from the last exported snapshot")
	rootCmd.Flags().BoolVar(&remote, "remote", false, "sign in with the configured token and fetch subscriptions")
	rootCmd.MarkFlagsMutuallyExclusive("input", "json", "snapshot")

	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "subs.json", "where to write the extracted records")
	archiveCmd.Flags().StringVarP(&archiveOutput, "output", "o", "", "where to write the PDF (default: export dir)")

	rootCmd.AddCommand(parseCmd, archiveCmd)
}

// newLogger writes to path since the terminal UI owns stdout.
func newLogger(path string, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return l, nil
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}
