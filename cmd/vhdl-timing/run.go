package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, run the tool and parse the results",
	Long: `Prepare the work directory, run the configured tool command once per job,
then parse every report and write the results table.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("debug", false, "stop at the first failing job")
	runCmd.Flags().Bool("no-parse", false, "only run the tool")
	runCmd.Flags().String("events", "", "write JSONL job timing events to this file")
	addParseFlags(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}

	ws, jobs, tests, err := generate(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(cfg, log)
	r.EventsPath, _ = cmd.Flags().GetString("events")
	summary, err := r.Run(ctx, jobs)
	if summary != nil {
		status := color.New(color.FgGreen).Sprint("ok")
		if len(summary.Failed) > 0 {
			status = color.New(color.FgRed, color.Bold).Sprintf("%d failed", len(summary.Failed))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Ran %d jobs in %s: %s\n", len(jobs), summary.Duration.Round(time.Millisecond), status)
	}
	if err != nil {
		return err
	}

	if noParse, _ := cmd.Flags().GetBool("no-parse"); noParse {
		return nil
	}
	return parseWorkspace(cmd, cfg, log, ws, tests)
}
