package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the test matrix",
	Long: `Print one line per test case the configuration enumerates. With --operators,
print the available operator names instead.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().Bool("operators", false, "list operator names")
	listCmd.Flags().Bool("code", false, "include the VHDL expression of each test")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if ops, _ := cmd.Flags().GetBool("operators"); ops {
		for _, oc := range suite.DefaultCases(fixture.All()) {
			fmt.Fprintln(out, oc.Name)
		}
		return nil
	}

	tests, err := testMatrix(cfg)
	if err != nil {
		return err
	}
	code, _ := cmd.Flags().GetBool("code")
	dim := color.New(color.Faint)
	for _, tc := range tests {
		if code {
			fmt.Fprintf(out, "%s\t%s\n", tc.Name(), dim.Sprint(tc.Code()))
		} else {
			fmt.Fprintln(out, tc.Name())
		}
	}
	return nil
}
