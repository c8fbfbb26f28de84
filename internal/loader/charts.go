package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang-collections/collections/queue"

	"quaformat/internal"
)

const ChartExt = ".qua"

type fileTracker struct {
	dir   string
	entry os.DirEntry
}

// FindCharts returns the paths of all .qua files below dir, relative to dir
// and slash separated. Directories are walked breadth first and the result
// is sorted.
func FindCharts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	traverseQueue := queue.New()
	for _, entry := range entries {
		traverseQueue.Enqueue(fileTracker{dir: "", entry: entry})
	}

	var charts []string
	for traverseQueue.Len() > 0 {
		ft := traverseQueue.Dequeue().(fileTracker)
		rel := filepath.Join(ft.dir, ft.entry.Name())

		if ft.entry.IsDir() {
			entries, err := os.ReadDir(filepath.Join(dir, rel))
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				traverseQueue.Enqueue(fileTracker{dir: rel, entry: entry})
			}
			continue
		}
		if !strings.EqualFold(filepath.Ext(ft.entry.Name()), ChartExt) {
			continue
		}
		charts = append(charts, filepath.ToSlash(rel))
	}
	sort.Strings(charts)
	return charts, nil
}

// JobsForCharts builds one job per chart found below dir. Outputs mirror the
// directory layout under outDir. With an empty outDir the output sits next
// to its input, which rewrites charts in place.
func JobsForCharts(dir, outDir string, action internal.Action) ([]internal.Job, error) {
	charts, err := FindCharts(dir)
	if err != nil {
		return nil, err
	}
	jobs := make([]internal.Job, 0, len(charts))
	for _, rel := range charts {
		in := filepath.Join(dir, filepath.FromSlash(rel))
		out := strings.TrimSuffix(in, filepath.Ext(in)) + action.Extension()
		if outDir != "" {
			out = filepath.Join(outDir, filepath.FromSlash(strings.TrimSuffix(rel, filepath.Ext(rel))+action.Extension()))
		}
		jobs = append(jobs, internal.Job{
			Name:   rel,
			Action: action,
			Input:  in,
			Output: out,
		})
	}
	return jobs, nil
}
