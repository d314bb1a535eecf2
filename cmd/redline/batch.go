package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/caldew/redline"
)

var (
	batchOutDir   string
	batchFallback bool
	batchNoEngine bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <glob> <changes.json>",
	Short: "Redline every document matching a glob pattern",
	Long: `Run the pipeline over every document matching the pattern, applying
the same change set to each. Patterns support ** for recursive matching,
e.g. 'contracts/**/*.docx'. Failures are reported per document and do not
stop the batch.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		pattern, changesPath := args[0], args[1]

		payload, err := os.ReadFile(changesPath)
		if err != nil {
			fatal("Failed to read changes", err)
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			fatal("Invalid pattern", err)
		}
		if len(matches) == 0 {
			fmt.Printf("No documents match %s\n", pattern)
			return
		}

		eng, err := buildEngine(batchNoEngine)
		if err != nil {
			fatal("Failed to locate redline engine", err)
		}
		opts := runOptions(eng, batchFallback)

		if batchOutDir != "" {
			if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
				fatal("Failed to create output directory", err)
			}
		}

		var failed int
		for _, docPath := range matches {
			original, err := os.ReadFile(docPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", docPath, err)
				failed++
				continue
			}

			res, err := redline.RunJSON(cmd.Context(), original, payload, opts...)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", docPath, err)
				failed++
				continue
			}

			out := outputPath(docPath, "")
			if batchOutDir != "" {
				out = filepath.Join(batchOutDir, filepath.Base(out))
			}
			if err := writeOutput(out, res.Redlined); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", docPath, err)
				failed++
				continue
			}

			fmt.Printf("%s: applied %d, unmatched %d -> %s\n", docPath, res.Applied, len(res.Unmatched), out)
		}

		fmt.Printf("Processed %d document(s), %d failed.\n", len(matches), failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Directory for redlined outputs (default alongside each input)")
	batchCmd.Flags().BoolVar(&batchFallback, "fallback", false, "Fall back to the internal highlighter if the engine fails")
	batchCmd.Flags().BoolVar(&batchNoEngine, "no-engine", false, "Skip the external engine and use the internal highlighter")
}
