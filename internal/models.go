package internal

type Action string

const (
	ActionRewrite   Action = "rewrite"
	ActionNormalize Action = "normalize"
	ActionXLSX      Action = "xlsx"
	ActionMIDI      Action = "midi"
)

// Extension is the file extension written by the action.
func (a Action) Extension() string {
	switch a {
	case ActionXLSX:
		return ".xlsx"
	case ActionMIDI:
		return ".mid"
	}
	return ".qua"
}

func (a Action) Valid() bool {
	switch a {
	case ActionRewrite, ActionNormalize, ActionXLSX, ActionMIDI:
		return true
	}
	return false
}

type Job struct {
	Name   string `yaml:"name"`
	Action Action `yaml:"action"`
	Input  string `yaml:"input"`
	// Output defaults to Input for chart rewriting actions.
	Output string `yaml:"output,omitempty"`
	// DependsOn names jobs that must succeed before this one starts.
	DependsOn []string `yaml:"dependsOn,omitempty"`
}

type Executor interface {
	Execute(j Job) (out string, err error)
}
