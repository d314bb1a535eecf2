package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caldew/redline"
	"github.com/caldew/redline/pkg/engine"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of redline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("redline version %s (engine %s)\n", strings.TrimSpace(redline.Version), engine.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
