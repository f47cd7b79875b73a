package runner

// =============================================================================
// RUNNER: ONE TOOL PROCESS PER JOB
// =============================================================================
//
// A job is one batch script from workspace.Prepare. The configured tool
// command is started once per job with {script} replaced by the script's
// base name and the work directory as its working directory. At most
// ParallelJobs processes run at a time.
//
// A failing job is logged and the others carry on: a test that breaks the
// tool leaves its reports missing and shows up as an empty row. In debug
// mode the first failure cancels the remaining jobs instead.
// =============================================================================

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/workspace"
)

// ErrJobFailed wraps the error of a tool process that did not exit cleanly.
var ErrJobFailed = errors.New("job failed")

// Runner starts tool processes for prepared jobs.
type Runner struct {
	Command []string
	Jobs    int
	Debug   bool
	// EventsPath, when set, receives one JSON event per job and run.
	EventsPath string
	Log        *logrus.Logger
}

// Summary is the outcome of a run.
type Summary struct {
	Succeeded []int
	Failed    []int
	Duration  time.Duration
}

// New builds a runner from configuration.
func New(cfg *config.Config, log *logrus.Logger) *Runner {
	return &Runner{
		Command: cfg.ToolCommand,
		Jobs:    cfg.Jobs(),
		Debug:   cfg.Debug,
		Log:     log,
	}
}

// LogFile is where the output of a job's tool process goes.
func LogFile(job workspace.Job) string {
	return strings.TrimSuffix(job.Script, filepath.Ext(job.Script)) + ".log"
}

// command expands the placeholder for one job.
func (r *Runner) command(job workspace.Job) ([]string, error) {
	if len(r.Command) == 0 {
		return nil, errors.New("empty tool command")
	}
	script := filepath.Base(job.Script)
	args := make([]string, len(r.Command))
	found := false
	for i, a := range r.Command {
		if strings.Contains(a, config.ScriptPlaceholder) {
			found = true
		}
		args[i] = strings.ReplaceAll(a, config.ScriptPlaceholder, script)
	}
	if !found {
		args = append(args, script)
	}
	return args, nil
}

// Run executes every job and waits for them. The returned error is non-nil
// only for a cancelled context, or for the first failure in debug mode.
func (r *Runner) Run(ctx context.Context, jobs []workspace.Job) (*Summary, error) {
	start := time.Now()
	events := newEventRecorder(start, r.EventsPath)
	defer events.Close()
	if err := events.Err(); err != nil {
		r.Log.WithError(err).Warn("event log disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := r.Jobs
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	ok := make([]bool, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			err := r.runJob(gctx, job, events)
			if err == nil {
				ok[i] = true
				return nil
			}
			r.Log.WithFields(logrus.Fields{"job": job.Index, "log": LogFile(job)}).WithError(err).Error("job failed")
			if r.Debug {
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	summary := &Summary{Duration: time.Since(start)}
	for i, job := range jobs {
		if ok[i] {
			summary.Succeeded = append(summary.Succeeded, job.Index)
		} else {
			summary.Failed = append(summary.Failed, job.Index)
		}
	}
	status := "ok"
	if len(summary.Failed) > 0 {
		status = "failed"
	}
	events.record(Event{Kind: "run", Job: -1, Tests: len(jobs), Status: status}, start, summary.Duration)

	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}

func (r *Runner) runJob(ctx context.Context, job workspace.Job, events *eventRecorder) (err error) {
	start := time.Now()
	defer func() {
		ev := Event{Kind: "job", Job: job.Index, Tests: len(job.Tests), Status: "ok"}
		if err != nil {
			ev.Status = "failed"
			ev.Error = err.Error()
		}
		events.record(ev, start, time.Since(start))
	}()

	args, err := r.command(job)
	if err != nil {
		return err
	}
	logPath := LogFile(job)
	out, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("create job log: %w", err)
	}
	defer out.Close()

	r.Log.WithFields(logrus.Fields{"job": job.Index, "tests": len(job.Tests)}).Info("starting " + args[0])
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = filepath.Dir(job.Script)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: job %d: %v", ErrJobFailed, job.Index, err)
	}
	return nil
}
