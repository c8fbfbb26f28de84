package cmd

import (
	"github.com/spf13/cobra"

	"quaformat/internal/util"
	"quaformat/qua"
)

var (
	setOut         string
	setTitle       string
	setArtist      string
	setCreator     string
	setDifficulty  string
	setSource      string
	setTags        string
	setDescription string
	setMapID       int32
	setMapSetID    int32
	setPreview     int32
)

func init() {
	rootCmd.AddCommand(setCmd)
	f := setCmd.Flags()
	f.StringVarP(&setOut, "out", "o", "", "write to this file instead of editing in place")
	f.StringVar(&setTitle, "title", "", "song title")
	f.StringVar(&setArtist, "artist", "", "song artist")
	f.StringVar(&setCreator, "creator", "", "chart creator")
	f.StringVar(&setDifficulty, "difficulty", "", "difficulty name")
	f.StringVar(&setSource, "source", "", "song source")
	f.StringVar(&setTags, "tags", "", "search tags")
	f.StringVar(&setDescription, "description", "", "chart description")
	f.Int32Var(&setMapID, "map-id", -1, "online map id")
	f.Int32Var(&setMapSetID, "mapset-id", -1, "online mapset id")
	f.Int32Var(&setPreview, "preview", 0, "song preview time in ms")
}

var setCmd = &cobra.Command{
	Use:   "set <file.qua>",
	Short: "Change chart metadata and save",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := qua.LoadFile(args[0])
		if err != nil {
			fail("%v", err)
		}
		changed := applySetFlags(cmd, c)
		out := setOut
		if out == "" {
			out = args[0]
		}
		if err := c.SaveFile(out); err != nil {
			fail("%v", err)
		}
		util.Success("%s: %d field(s) updated", out, changed)
	},
}

// applySetFlags copies every flag the user passed onto c.
func applySetFlags(cmd *cobra.Command, c *qua.Chart) int {
	changed := 0
	str := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
			changed++
		}
	}
	i32 := func(name string, dst *int32, v int32) {
		if cmd.Flags().Changed(name) {
			*dst = v
			changed++
		}
	}
	str("title", &c.Title, setTitle)
	str("artist", &c.Artist, setArtist)
	str("creator", &c.Creator, setCreator)
	str("difficulty", &c.DifficultyName, setDifficulty)
	str("source", &c.Source, setSource)
	str("tags", &c.Tags, setTags)
	str("description", &c.Description, setDescription)
	i32("map-id", &c.MapID, setMapID)
	i32("mapset-id", &c.MapSetID, setMapSetID)
	i32("preview", &c.SongPreviewTime, setPreview)
	return changed
}
