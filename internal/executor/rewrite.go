package executor

import (
	"fmt"
	"os"
	"path/filepath"

	"quaformat/internal"
	"quaformat/qua"
)

// RewriteExecutor loads a chart and saves it back in canonical form,
// optionally normalizing its scroll velocities first.
type RewriteExecutor struct {
	Normalize bool
}

func (e *RewriteExecutor) Execute(j internal.Job) (string, error) {
	c, err := qua.LoadFile(j.Input)
	if err != nil {
		return "", err
	}
	if e.Normalize {
		if err := c.NormalizeSVs(); err != nil {
			return "", fmt.Errorf("%s: %w", j.Input, err)
		}
	}
	if err := ensureDir(j.Output); err != nil {
		return "", err
	}
	if err := c.SaveFile(j.Output); err != nil {
		return "", err
	}
	return j.Output, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}
