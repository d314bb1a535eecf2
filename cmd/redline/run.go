package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caldew/redline"
)

var (
	runOutput   string
	runFallback bool
	runNoEngine bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <document.docx> <changes.json>",
	Short: "Apply changes and produce a redlined document",
	Long: `Run the full pipeline: substitute the suggested changes into the
document, then compare the original against the modified copy and write
a redlined output with the edits marked as tracked changes.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		docPath, changesPath := args[0], args[1]

		original, err := os.ReadFile(docPath)
		if err != nil {
			fatal("Failed to read document", err)
		}
		payload, err := os.ReadFile(changesPath)
		if err != nil {
			fatal("Failed to read changes", err)
		}

		eng, err := buildEngine(runNoEngine)
		if err != nil {
			fatal("Failed to locate redline engine", err)
		}

		res, err := redline.RunJSON(cmd.Context(), original, payload, runOptions(eng, runFallback)...)
		if err != nil {
			fatal("Redlining failed", err)
		}

		out := outputPath(docPath, runOutput)
		if err := writeOutput(out, res.Redlined); err != nil {
			fatal("Failed to write output", err)
		}

		printReport(res)
		fmt.Printf("Redlined document written to %s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Output path (default <document>.redlined.docx)")
	runCmd.Flags().BoolVar(&runFallback, "fallback", false, "Fall back to the internal highlighter if the engine fails")
	runCmd.Flags().BoolVar(&runNoEngine, "no-engine", false, "Skip the external engine and use the internal highlighter")
}
