package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"quaformat/internal"
	"quaformat/internal/util"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Summary is written to run.yaml when a run finishes.
type Summary struct {
	Status    string            `yaml:"status"`
	Timestamp string            `yaml:"timestamp"`
	Jobs      int               `yaml:"jobs"`
	Outputs   map[string]string `yaml:"outputs,omitempty"`
	Failures  map[string]string `yaml:"failures,omitempty"`
}

type Scheduler struct {
	ReadyCh     chan *internal.Job
	Wg          sync.WaitGroup
	MaxParallel int
}

func New(maxParallel int, numJobs int) *Scheduler {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Scheduler{
		ReadyCh:     make(chan *internal.Job, numJobs),
		MaxParallel: maxParallel,
	}
}

// Run executes jobs on MaxParallel workers. A job starts once everything in
// its edges entry has finished; if any of those failed it is skipped and
// counted as a failure. The summary is also written to runDir/run.yaml.
func (s *Scheduler) Run(jobs []*internal.Job, execMap map[internal.Action]internal.Executor, runDir string, edges map[string][]string) (*Summary, error) {
	jobMap := map[string]*internal.Job{}
	for _, j := range jobs {
		jobMap[j.Name] = j
	}
	depCount := map[string]int{}
	children := map[string][]string{}
	for _, j := range jobs {
		depCount[j.Name] = 0
		for _, dep := range edges[j.Name] {
			if _, ok := jobMap[dep]; !ok {
				continue
			}
			depCount[j.Name]++
			children[dep] = append(children[dep], j.Name)
		}
	}

	var mu sync.Mutex
	results := map[string]string{}
	failures := map[string]string{}
	blocked := map[string]string{}
	numJobs := len(jobs)
	var doneCount int32

	for i := 0; i < s.MaxParallel; i++ {
		s.Wg.Add(1)
		go func(workerIdx int) {
			defer s.Wg.Done()
			for j := range s.ReadyCh {
				mu.Lock()
				cause, skip := blocked[j.Name]
				mu.Unlock()

				var out string
				var err error
				switch {
				case skip:
					err = fmt.Errorf("skipped: dependency %s failed", cause)
				case execMap[j.Action] == nil:
					err = fmt.Errorf("no executor for action %q", j.Action)
				default:
					util.Debug("[worker %d] %s", workerIdx, j.Name)
					util.Info("[RUNNING] %s (%s %s)", j.Name, j.Action, j.Input)
					out, err = execMap[j.Action].Execute(*j)
				}

				mu.Lock()
				if err != nil {
					failures[j.Name] = err.Error()
					util.Fail("%s: %v", j.Name, err)
				} else {
					results[j.Name] = out
					util.Success("%s -> %s", j.Name, out)
				}
				for _, child := range children[j.Name] {
					if err != nil {
						if _, ok := blocked[child]; !ok {
							blocked[child] = j.Name
						}
					}
					depCount[child]--
					if depCount[child] == 0 {
						s.ReadyCh <- jobMap[child]
					}
				}
				mu.Unlock()

				if int(atomic.AddInt32(&doneCount, 1)) == numJobs {
					close(s.ReadyCh)
				}
			}
		}(i)
	}

	if numJobs == 0 {
		close(s.ReadyCh)
	}
	ready := []string{}
	for name, cnt := range depCount {
		if cnt == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)
	for _, name := range ready {
		s.ReadyCh <- jobMap[name]
	}
	s.Wg.Wait()

	summary := &Summary{
		Status:    StatusSuccess,
		Timestamp: time.Now().Format(time.RFC3339),
		Jobs:      numJobs,
		Outputs:   results,
	}
	if len(failures) > 0 {
		summary.Status = StatusFail
		summary.Failures = failures
	}
	if err := writeSummary(summary, filepath.Join(runDir, "run.yaml")); err != nil {
		return summary, err
	}
	return summary, nil
}

func writeSummary(summary *Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return enc.Close()
}
