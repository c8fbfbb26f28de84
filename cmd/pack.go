package cmd

import (
	"github.com/spf13/cobra"

	"quaformat/internal/library"
	"quaformat/internal/util"
)

var (
	packDir string
	packOut string
)

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVar(&packDir, "dir", ".", "directory to pack")
	packCmd.Flags().StringVar(&packOut, "out", "charts.db", "library file")
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Store every chart under a directory in a library file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		lib, err := library.Open(packOut)
		if err != nil {
			fail("%v", err)
		}
		defer lib.Close()
		packed, failed, err := lib.PackDir(packDir)
		for key, ferr := range failed {
			util.Fail("%s: %v", key, ferr)
		}
		if err != nil {
			lib.Close()
			fail("%v", err)
		}
		util.Success("packed %d chart(s) into %s", len(packed), packOut)
	},
}
