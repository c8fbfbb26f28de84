package cmd

import (
	"github.com/spf13/cobra"

	"quaformat/internal/util"
	"quaformat/qua"
)

var normalizeOut string

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "write to this file instead of editing in place")
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file.qua>",
	Short: "Fold BPM changes into scroll velocities",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := qua.LoadFile(args[0])
		if err != nil {
			fail("%v", err)
		}
		if c.BPMDoesNotAffectScrollVelocity {
			util.Info("%s is already normalized", args[0])
		}
		if err := c.NormalizeSVs(); err != nil {
			fail("%s: %v", args[0], err)
		}
		out := normalizeOut
		if out == "" {
			out = args[0]
		}
		if err := c.SaveFile(out); err != nil {
			fail("%v", err)
		}
		util.Success("%s: %d scroll velocities", out, len(c.SliderVelocities))
	},
}
