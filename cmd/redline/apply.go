package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/caldew/redline"
	"github.com/caldew/redline/pkg/change"
)

var applyOutput string

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply <document.docx> <changes.json>",
	Short: "Apply changes without rendering a redline",
	Long: `Substitute the suggested changes into the document and write the
modified copy. No comparison is performed, so the output carries no
tracked changes.`,
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
		raw, err := change.ParseRaw(payload)
		if err != nil {
			fatal("Failed to parse changes", err)
		}

		res, err := redline.ApplyChanges(original, raw,
			redline.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Applying changes failed", err)
		}

		out := outputPath(docPath, applyOutput)
		if err := writeOutput(out, res.Modified); err != nil {
			fatal("Failed to write output", err)
		}

		printReport(res)
		fmt.Printf("Modified document written to %s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "Output path (default <document>.redlined.docx)")
}
