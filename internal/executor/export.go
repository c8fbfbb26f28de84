package executor

import (
	"quaformat/internal"
	"quaformat/internal/export"
	"quaformat/qua"
)

type XLSXExecutor struct{}

func (e *XLSXExecutor) Execute(j internal.Job) (string, error) {
	c, err := qua.LoadFile(j.Input)
	if err != nil {
		return "", err
	}
	if err := ensureDir(j.Output); err != nil {
		return "", err
	}
	if err := export.SaveXLSX(c, j.Output); err != nil {
		return "", err
	}
	return j.Output, nil
}

type MIDIExecutor struct {
	Options export.MIDIOptions
}

func (e *MIDIExecutor) Execute(j internal.Job) (string, error) {
	c, err := qua.LoadFile(j.Input)
	if err != nil {
		return "", err
	}
	if err := ensureDir(j.Output); err != nil {
		return "", err
	}
	if err := export.SaveMIDI(c, j.Output, e.Options); err != nil {
		return "", err
	}
	return j.Output, nil
}

// ForActions returns one executor per supported action.
func ForActions(midi export.MIDIOptions) map[internal.Action]internal.Executor {
	return map[internal.Action]internal.Executor{
		internal.ActionRewrite:   &RewriteExecutor{},
		internal.ActionNormalize: &RewriteExecutor{Normalize: true},
		internal.ActionXLSX:      &XLSXExecutor{},
		internal.ActionMIDI:      &MIDIExecutor{Options: midi},
	}
}
