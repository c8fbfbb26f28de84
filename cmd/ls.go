package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quaformat/internal/library"
)

func init() {
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:   "ls <library.db>",
	Short: "List charts in a library file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, err := library.Open(args[0])
		if err != nil {
			fail("%v", err)
		}
		defer lib.Close()
		keys, err := lib.Keys()
		if err != nil {
			fail("%v", err)
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}
