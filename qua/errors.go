package qua

import "fmt"

// IOError reports that a chart file could not be opened, read, created or
// written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("qua: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports text that is not valid YAML or does not fit the chart
// schema, or a chart that could not be serialized.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "qua: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }
