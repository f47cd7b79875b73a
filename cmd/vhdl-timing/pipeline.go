package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func useColor(mode colorMode) bool {
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

// setup reads the persistent flags: it configures color output, builds the
// logger and loads and validates the configuration.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	modeFlag, _ := cmd.Flags().GetString("color")
	mode, err := readColorMode(modeFlag)
	if err != nil {
		return nil, nil, err
	}
	colored := useColor(mode)
	color.NoColor = !colored

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !colored,
		ForceColors:   colored,
		FullTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(".")
}

// testMatrix enumerates every test case the configuration asks for.
func testMatrix(cfg *config.Config) ([]suite.TestCase, error) {
	fixtures, err := cfg.FixtureList()
	if err != nil {
		return nil, err
	}
	families, err := cfg.FamilyList()
	if err != nil {
		return nil, err
	}
	widths, err := cfg.WidthList()
	if err != nil {
		return nil, err
	}
	cases, err := suite.Select(suite.DefaultCases(fixtures), cfg.Operators)
	if err != nil {
		return nil, err
	}
	cases = suite.RestrictFamilies(cases, families)
	return suite.Collect(suite.Enumerate(cases, widths)), nil
}
