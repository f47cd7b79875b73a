package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a vhdl_timing.toml configuration file",
	Long: `Write the default configuration to vhdl_timing.toml in the current directory,
or to [path]. A .yaml or .yml path writes YAML instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("vendor", "", "toolchain to configure for (vivado|quartus)")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "vhdl_timing.toml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if vendor, _ := cmd.Flags().GetString("vendor"); vendor != "" {
		cfg = config.DefaultConfigFor(vendor)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", path)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - vendor, part and clock frequency")
	fmt.Fprintln(out, "  - widths, type families, fixtures and operators")
	fmt.Fprintln(out, "  - the tool command and number of parallel jobs")
	return nil
}
