package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/results"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/workspace"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse timing reports into a results table",
	Long: `Read the timing reports of every test in the work directory and write one
tab separated row per test. Tests whose reports are missing get an empty row.`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

func init() {
	addParseFlags(parseCmd)
}

func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "results file (default: <work_dir>/results.tsv, - for stdout)")
	cmd.Flags().Bool("no-cache", false, "parse every report even if it was parsed before")
}

func runParse(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	tests, err := testMatrix(cfg)
	if err != nil {
		return err
	}
	ws, err := workspace.New(cfg)
	if err != nil {
		return err
	}
	return parseWorkspace(cmd, cfg, log, ws, tests)
}

func parseWorkspace(cmd *cobra.Command, cfg *config.Config, log *logrus.Logger, ws *workspace.Workspace, tests []suite.TestCase) error {
	hz, err := cfg.ClockHz()
	if err != nil {
		return err
	}
	c := &results.Collector{Workspace: ws, ClockHz: hz, Log: log}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		c.Cache = results.NewCache(filepath.Join(ws.Root, ".cache"))
	}

	rows, err := c.Rows(tests)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = filepath.Join(ws.Root, "results.tsv")
	}
	var out io.Writer = cmd.OutOrStdout()
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create results file: %w", err)
		}
		defer f.Close()
		out = f
	}
	w, err := results.NewWriter(out)
	if err != nil {
		return err
	}
	if err := w.Write(rows...); err != nil {
		return err
	}

	printSummary(cmd.ErrOrStderr(), rows, c.Stats, output)
	return nil
}

func printSummary(out io.Writer, rows []results.Row, stats results.CollectStats, output string) {
	var measured, met int
	for _, r := range rows {
		if r.Phase != "" {
			measured++
		}
		if r.MetTiming {
			met++
		}
	}
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgYellow, color.Bold)

	counts := good.Sprintf("%d/%d measured", measured, len(rows))
	if measured < len(rows) {
		counts = bad.Sprintf("%d/%d measured", measured, len(rows))
	}
	fmt.Fprintf(out, "%s, %d met timing (%d parsed, %d cached, %d reports missing)\n",
		counts, met, stats.Parsed, stats.CacheHits, stats.Missing)
	if output != "-" {
		fmt.Fprintf(out, "Results written to %s\n", output)
	}
}
