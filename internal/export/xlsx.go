package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"quaformat/qua"
)

const (
	SheetMetadata         = "Metadata"
	SheetTimingPoints     = "TimingPoints"
	SheetSliderVelocities = "SliderVelocities"
	SheetHitObjects       = "HitObjects"
)

// WriteXLSX writes a workbook describing c to w: one sheet of metadata and
// one sheet per timed list.
func WriteXLSX(c *qua.Chart, w io.Writer) error {
	f, err := buildWorkbook(c)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

// SaveXLSX is WriteXLSX to a file.
func SaveXLSX(c *qua.Chart, path string) error {
	f, err := buildWorkbook(c)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %q: %w", path, err)
	}
	return nil
}

func buildWorkbook(c *qua.Chart) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetMetadata); err != nil {
		_ = f.Close()
		return nil, err
	}

	meta := [][2]any{
		{"Title", c.Title},
		{"Artist", c.Artist},
		{"Creator", c.Creator},
		{"DifficultyName", c.DifficultyName},
		{"Source", c.Source},
		{"Tags", c.Tags},
		{"Genre", c.Genre},
		{"MapId", c.MapID},
		{"MapSetId", c.MapSetID},
		{"Mode", c.Mode.String()},
		{"Keys", c.KeyCount()},
		{"AudioFile", c.AudioFile},
		{"BackgroundFile", c.BackgroundFile},
		{"BannerFile", c.BannerFile},
		{"SongPreviewTime", c.SongPreviewTime},
		{"BPMDoesNotAffectScrollVelocity", c.BPMDoesNotAffectScrollVelocity},
		{"InitialScrollVelocity", c.InitialScrollVelocity},
		{"CommonBPM", c.CommonBPM()},
		{"Length", c.Length()},
		{"HitObjects", len(c.HitObjects)},
		{"TimingPoints", len(c.TimingPoints)},
		{"SliderVelocities", len(c.SliderVelocities)},
	}
	for i, kv := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err == nil {
			err = f.SetSheetRow(SheetMetadata, cell, &[]any{kv[0], kv[1]})
		}
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	tp := make([][]any, 0, len(c.TimingPoints))
	for _, p := range c.TimingPoints {
		tp = append(tp, []any{p.StartTime, p.Bpm, p.Signature.String(), p.Hidden})
	}
	sv := make([][]any, 0, len(c.SliderVelocities))
	for _, v := range c.SliderVelocities {
		sv = append(sv, []any{v.StartTime, v.Multiplier})
	}
	ho := make([][]any, 0, len(c.HitObjects))
	for _, h := range c.HitObjects {
		ho = append(ho, []any{h.StartTime, h.Lane, h.EndTime, h.HitSound.String(), len(h.KeySounds), h.EditorLayer})
	}

	tables := []struct {
		sheet  string
		header []any
		rows   [][]any
	}{
		{SheetTimingPoints, []any{"StartTime", "Bpm", "Signature", "Hidden"}, tp},
		{SheetSliderVelocities, []any{"StartTime", "Multiplier"}, sv},
		{SheetHitObjects, []any{"StartTime", "Lane", "EndTime", "HitSound", "KeySounds", "EditorLayer"}, ho},
	}
	headerStyleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, tbl := range tables {
		if err := writeTable(f, tbl.sheet, tbl.header, tbl.rows, headerStyleID); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", tbl.sheet, err)
		}
	}
	return f, nil
}

func writeTable(f *excelize.File, sheet string, header []any, rows [][]any, headerStyleID int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	lastCell, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCell, headerStyleID); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	// Freeze the header row.
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
