package cmd

import (
	"github.com/spf13/cobra"

	"quaformat/internal/library"
	"quaformat/internal/util"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <library.db> <key> <out.qua>",
	Short: "Write one chart from a library file",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		lib, err := library.Open(args[0])
		if err != nil {
			fail("%v", err)
		}
		c, err := lib.Get(args[1])
		lib.Close()
		if err != nil {
			fail("%v", err)
		}
		if err := c.SaveFile(args[2]); err != nil {
			fail("%v", err)
		}
		util.Success("wrote %s", args[2])
	},
}
