package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caldew/redline"
)

var previewOutput string

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview <original.docx> <modified.docx>",
	Short: "Highlight differing paragraphs between two documents",
	Long: `Compare two documents position by position and write a copy of the
modified one with differing paragraphs highlighted. This is the internal
renderer; it does not invoke the external engine and produces highlights,
not tracked changes.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		origPath, modPath := args[0], args[1]

		original, err := os.ReadFile(origPath)
		if err != nil {
			fatal("Failed to read original document", err)
		}
		modified, err := os.ReadFile(modPath)
		if err != nil {
			fatal("Failed to read modified document", err)
		}

		out := previewOutput
		if out == "" {
			out = outputPath(modPath, "")
		}

		rendered, err := redline.RenderPreview(original, modified)
		if err != nil {
			fatal("Rendering preview failed", err)
		}
		if err := writeOutput(out, rendered); err != nil {
			fatal("Failed to write output", err)
		}

		fmt.Printf("Preview written to %s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Output path (default <modified>.redlined.docx)")
}
