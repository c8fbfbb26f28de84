package cmd

import (
	"github.com/spf13/cobra"

	"quaformat/internal/export"
	"quaformat/internal/util"
	"quaformat/qua"
)

var (
	midiChannel uint8
	midiBaseKey uint8
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportXLSXCmd, exportMIDICmd)
	exportMIDICmd.Flags().Uint8Var(&midiChannel, "channel", 9, "MIDI channel, 0-15 (overrides config)")
	exportMIDICmd.Flags().Uint8Var(&midiBaseKey, "base-key", 36, "MIDI key of lane 1 (overrides config)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a chart to another format",
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx <file.qua> <out.xlsx>",
	Short: "Export a chart as a spreadsheet",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := qua.LoadFile(args[0])
		if err != nil {
			fail("%v", err)
		}
		if err := export.SaveXLSX(c, args[1]); err != nil {
			fail("%v", err)
		}
		util.Success("wrote %s", args[1])
	},
}

var exportMIDICmd = &cobra.Command{
	Use:   "midi <file.qua> <out.mid>",
	Short: "Export chart notes as a MIDI file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := qua.LoadFile(args[0])
		if err != nil {
			fail("%v", err)
		}
		opts := export.MIDIOptionsFromConfig(cfg.Export.MIDI)
		if cmd.Flags().Changed("channel") {
			opts.Channel = midiChannel
		}
		if cmd.Flags().Changed("base-key") {
			opts.BaseKey = midiBaseKey
		}
		if err := export.SaveMIDI(c, args[1], opts); err != nil {
			fail("%v", err)
		}
		util.Success("wrote %s (%d notes)", args[1], len(c.HitObjects))
	},
}
