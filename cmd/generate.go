package cmd

import (
	"github.com/spf13/cobra"
)

// generateCmd groups code generation commands
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate code",
	Long:  `generate code used by snatcher itself`,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
