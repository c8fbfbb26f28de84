package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"quaformat/qua"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.qua>",
	Short: "Print a summary of a chart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := qua.LoadFile(args[0])
		if err != nil {
			fail("%v", err)
		}
		printSummary(cmd.OutOrStdout(), c)
	},
}

func printSummary(w io.Writer, c *qua.Chart) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(k string, v interface{}) { fmt.Fprintf(tw, "%s\t%v\n", k, v) }
	row("Title", c.Title)
	row("Artist", c.Artist)
	row("Creator", c.Creator)
	row("Difficulty", c.DifficultyName)
	row("Mode", fmt.Sprintf("%s (%d keys)", c.Mode, c.KeyCount()))
	row("MapId", c.MapID)
	row("MapSetId", c.MapSetID)
	row("Audio", c.AudioFile)
	row("Length", fmt.Sprintf("%d ms", c.Length()))
	row("Common BPM", c.CommonBPM())
	row("Timing points", len(c.TimingPoints))
	row("Scroll velocities", len(c.SliderVelocities))
	row("Hit objects", len(c.HitObjects))
	row("SVs normalized", c.BPMDoesNotAffectScrollVelocity)
	tw.Flush()
}
