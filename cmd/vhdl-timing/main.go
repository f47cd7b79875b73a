// =============================================================================
// vhdl-timing - Main Entry Point
// =============================================================================
//
// Characterises the timing of VHDL operators on an FPGA toolchain.
//
// THE PIPELINE:
//   1. The test matrix is enumerated from the operator set, widths, type
//      families and fixtures in the configuration
//   2. generate writes one directory per test (VHDL, constraints, script)
//      plus one batch script per parallel job
//   3. run starts the vendor tool once per job
//   4. parse reads each test's timing reports back and writes a TSV table
//
// `run` does 2 to 4 in one go. `parse` can be repeated on a finished work
// directory; parsed reports are cached by content.
// =============================================================================

package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "vhdl-timing",
	Short: "Characterise the timing of VHDL operators",
	Long: `vhdl-timing generates one small design per operator, width, type family and
fixture, runs them through Vivado or Quartus, and tabulates the data path
delay and maximum clock frequency of each.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "configuration file (default: search vhdl_timing.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
