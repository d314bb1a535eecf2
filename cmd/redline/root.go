package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose   bool
	cfgFile   string
	authorTag string

	cfg *Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redline",
	Short: "Apply LLM-suggested edits to DOCX contracts and render tracked changes",
	Long: `Redline takes a Word document and a set of suggested text changes,
substitutes them into the document, and produces a redlined copy with
the edits marked as tracked changes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loaded, err := LoadConfig(cfgFile)
		if err != nil {
			fatal("Failed to load config", err)
		}
		cfg = loaded
		if authorTag != "" {
			cfg.AuthorTag = authorTag
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default redline.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&authorTag, "author", "", "Author name recorded on tracked changes")
}
