// Package qua reads and writes Quaver .qua chart files.
//
// The format is YAML. Every key is optional: a missing key keeps the default
// of its field (see New), unknown keys are ignored, and list order is kept
// exactly as written.
//
//	c, err := qua.LoadFile("123.qua")
//	if err != nil {
//		return err
//	}
//	c.Title = "Never Gonna Give You Up"
//	return c.SaveFile("test.qua")
//
// Failures are reported as *IOError (file system) or *FormatError (YAML text
// or schema mismatch).
package qua
