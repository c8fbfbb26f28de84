package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quaformat/internal"
	"quaformat/internal/dag"
	"quaformat/internal/executor"
	"quaformat/internal/export"
	"quaformat/internal/loader"
	"quaformat/internal/scheduler"
	"quaformat/internal/util"
)

var (
	jobsFile    string
	applyDir    string
	applyAction string
	applyOut    string
	maxParallel int
)

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&jobsFile, "file", "f", "", "jobs YAML file")
	applyCmd.Flags().StringVar(&applyDir, "dir", "", "run one action over every chart under this directory")
	applyCmd.Flags().StringVar(&applyAction, "action", string(internal.ActionRewrite), "action for --dir: rewrite, normalize, xlsx, midi")
	applyCmd.Flags().StringVar(&applyOut, "out", "", "output directory for --dir (default: next to each input)")
	applyCmd.Flags().IntVar(&maxParallel, "max-parallel", 0, "maximum parallel jobs (overrides config)")
	applyCmd.MarkFlagsMutuallyExclusive("file", "dir")
	applyCmd.MarkFlagsOneRequired("file", "dir")
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run a batch of chart jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runApply(cmd)
		if err != nil {
			util.Fail("%v", err)
		}
		// after the failure above so it lands in the run log too
		util.CloseLogFile()
		return err
	},
}

func runApply(cmd *cobra.Command) error {
	jobs, err := collectJobs()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		util.Info("no jobs to run")
		return nil
	}
	d, err := dag.NewDAG(jobs)
	if err != nil {
		return err
	}
	order, err := dag.TopoSort(d)
	if err != nil {
		return err
	}

	runID := util.NewUUID()
	runDir := filepath.Join(cfg.Apply.RunDir, "run-"+runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	if err := util.SetLogFile(filepath.Join(runDir, "log.txt")); err != nil {
		return err
	}
	util.Info("run directory: %s", runDir)
	util.Debug("job order: %v", order)

	parallel := cfg.Apply.MaxParallel
	if cmd.Flags().Changed("max-parallel") {
		parallel = maxParallel
	}
	execMap := executor.ForActions(export.MIDIOptionsFromConfig(cfg.Export.MIDI))
	jobPtrs := make([]*internal.Job, 0, len(jobs))
	for i := range jobs {
		jobPtrs = append(jobPtrs, &jobs[i])
	}
	util.Success("initialized, %d job(s) on %d worker(s)", len(jobs), parallel)

	s := scheduler.New(parallel, len(jobs))
	summary, err := s.Run(jobPtrs, execMap, runDir, d.Edges)
	if err != nil {
		return err
	}
	if summary.Status != scheduler.StatusSuccess {
		return fmt.Errorf("%d of %d job(s) failed, see %s", len(summary.Failures), summary.Jobs, filepath.Join(runDir, "run.yaml"))
	}
	util.Success("all %d job(s) done", summary.Jobs)
	return nil
}

func collectJobs() ([]internal.Job, error) {
	if jobsFile != "" {
		return loader.LoadJobs(jobsFile)
	}
	action := internal.Action(applyAction)
	if !action.Valid() {
		return nil, fmt.Errorf("unknown action %q", applyAction)
	}
	return loader.JobsForCharts(applyDir, applyOut, action)
}
