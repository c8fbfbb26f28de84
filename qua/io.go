package qua

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const indent = 2

// LoadFile parses the chart stored at path.
func LoadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return Unmarshal(data)
}

// Load parses a chart from r. Failures reading r are reported as a
// FormatError.
func Load(r io.Reader) (*Chart, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	return Unmarshal(data)
}

// Parse parses a chart from its YAML text.
func Parse(s string) (*Chart, error) {
	return Unmarshal([]byte(s))
}

// Unmarshal parses a chart from YAML bytes. Only the first document is read;
// an empty document yields New().
func Unmarshal(data []byte) (*Chart, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Err: err}
	}
	c := New()
	if len(doc.Content) == 0 {
		return c, nil
	}
	if err := c.UnmarshalYAML(doc.Content[0]); err != nil {
		return nil, &FormatError{Err: err}
	}
	return c, nil
}

// Marshal returns the YAML text of c.
func (c *Chart) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the YAML text of c to w.
func (c *Chart) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(c); err != nil {
		return &FormatError{Err: err}
	}
	if err := enc.Close(); err != nil {
		return &FormatError{Err: err}
	}
	return nil
}

// SaveFile writes c to path, replacing any existing file. The text is staged
// in a sibling temporary file and renamed into place, so path never holds a
// partially written chart. A symlink at path is followed and the existing
// file mode is kept. If the directory does not allow new files, an existing
// file is truncated and rewritten in place.
func (c *Chart) SaveFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	mode := os.FileMode(0o644)
	fi, statErr := os.Stat(target)
	if statErr == nil {
		mode = fi.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(target), fmt.Sprintf(".%s.%s.tmp", filepath.Base(target), uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		if statErr == nil && errors.Is(err, os.ErrPermission) {
			return writeInPlace(path, target, data)
		}
		return &IOError{Op: "create", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	// the process umask applies on create
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func writeInPlace(path, target string, data []byte) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// String returns the YAML text of c, or an empty string if it cannot be
// serialized.
func (c *Chart) String() string {
	data, err := c.Marshal()
	if err != nil {
		return ""
	}
	return string(data)
}

// IsNotExist reports whether err is an IOError caused by a missing file.
func IsNotExist(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr) && errors.Is(ioErr.Err, os.ErrNotExist)
}
