package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const Version = "v0.3.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show qua version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "qua", Version)
	},
}
