package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/workspace"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write test directories and job scripts",
	Long: `Write one directory per test case (fixture, constraints and tool script)
and one batch script per parallel job into the work directory, without
running the tool.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	_, jobs, _, err := generate(cfg, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d job scripts to %s\n", len(jobs), cfg.WorkDir)
	return nil
}

func generate(cfg *config.Config, log *logrus.Logger) (*workspace.Workspace, []workspace.Job, []suite.TestCase, error) {
	tests, err := testMatrix(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(tests) == 0 {
		return nil, nil, nil, fmt.Errorf("configuration selects no test cases")
	}
	ws, err := workspace.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	jobs, err := ws.Prepare(tests)
	if err != nil {
		return nil, nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"tests":  len(tests),
		"jobs":   len(jobs),
		"vendor": ws.Vendor,
		"period": ws.PeriodNS + "ns",
	}).Info("workspace prepared")
	return ws, jobs, tests, nil
}
