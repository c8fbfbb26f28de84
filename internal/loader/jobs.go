package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quaformat/internal"
)

type JobsFile struct {
	Jobs []internal.Job `yaml:"jobs"`
}

// LoadJobs reads a jobs file. Jobs without a name are named after their
// position, jobs without an output rewrite their input in place.
func LoadJobs(path string) ([]internal.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var jf JobsFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&jf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	seen := map[string]bool{}
	for i := range jf.Jobs {
		j := &jf.Jobs[i]
		if j.Name == "" {
			j.Name = fmt.Sprintf("job-%d", i+1)
		}
		if seen[j.Name] {
			return nil, fmt.Errorf("%s: duplicate job name %q", path, j.Name)
		}
		seen[j.Name] = true
		if !j.Action.Valid() {
			return nil, fmt.Errorf("%s: job %q: unknown action %q", path, j.Name, j.Action)
		}
		if j.Input == "" {
			return nil, fmt.Errorf("%s: job %q: input is required", path, j.Name)
		}
		if j.Output == "" {
			if j.Action.Extension() != ".qua" {
				return nil, fmt.Errorf("%s: job %q: output is required for %s", path, j.Name, j.Action)
			}
			j.Output = j.Input
		}
	}
	for _, j := range jf.Jobs {
		for _, dep := range j.DependsOn {
			if !seen[dep] {
				return nil, fmt.Errorf("%s: job %q depends on unknown job %q", path, j.Name, dep)
			}
			if dep == j.Name {
				return nil, fmt.Errorf("%s: job %q depends on itself", path, j.Name)
			}
		}
	}
	return jf.Jobs, nil
}
