package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/apd/v3"
	"gopkg.in/yaml.v3"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/hdl"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/timing"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/validator"
)

// ScriptPlaceholder in ToolCommand is replaced by the path of the batch
// script a job should run.
const ScriptPlaceholder = "{script}"

// Config is the top-level configuration for vhdl-timing
type Config struct {
	// Vendor selects the toolchain: "vivado" or "quartus"
	Vendor string `toml:"vendor" yaml:"vendor" json:"vendor"`

	// Part is the device the operators are characterised on
	Part string `toml:"part" yaml:"part" json:"part"`

	// ClockFrequencyMHz is the clock constraint of registered fixtures, as a
	// decimal string so the period is written without rounding
	ClockFrequencyMHz string `toml:"clock_frequency_mhz" yaml:"clock_frequency_mhz" json:"clock_frequency_mhz"`

	// Widths are the input bit widths tested, in order
	Widths []int `toml:"widths" yaml:"widths" json:"widths"`

	// Families are the type families tested: unsigned, signed, std_logic_vector
	Families []string `toml:"families" yaml:"families" json:"families"`

	// Fixtures are the design skeletons tested: combinational, registered
	Fixtures []string `toml:"fixtures" yaml:"fixtures" json:"fixtures"`

	// Operators restricts the run to the named operators (empty = all)
	Operators []string `toml:"operators,omitempty" yaml:"operators,omitempty" json:"operators,omitempty"`

	// Implementation also runs place and route and times the result
	Implementation *bool `toml:"implementation,omitempty" yaml:"implementation,omitempty" json:"implementation,omitempty"`

	// ParallelJobs is the number of tool processes run side by side
	ParallelJobs int `toml:"parallel_jobs" yaml:"parallel_jobs" json:"parallel_jobs"`

	// WorkDir receives one directory per test case
	WorkDir string `toml:"work_dir" yaml:"work_dir" json:"work_dir"`

	// ToolCommand is the command line of one job; {script} is replaced by
	// the job's batch script
	ToolCommand []string `toml:"tool_command" yaml:"tool_command" json:"tool_command"`

	// Debug stops the run at the first failing job
	Debug bool `toml:"debug,omitempty" yaml:"debug,omitempty" json:"debug,omitempty"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Vendor:            string(timing.Vivado),
		Part:              "xc7a100tcsg324-1",
		ClockFrequencyMHz: "100",
		Widths:            []int{8, 16, 32, 64},
		Families:          []string{"unsigned", "signed"},
		Fixtures:          []string{fixture.Combinational.Name, fixture.Registered.Name},
		Implementation:    boolPtr(true),
		ParallelJobs:      4,
		WorkDir:           "timing_work",
		ToolCommand:       defaultToolCommand(timing.Vivado),
	}
}

// DefaultConfigFor returns the default configuration adjusted to a vendor.
// An unknown vendor is kept as given so Validate reports it.
func DefaultConfigFor(vendor string) *Config {
	cfg := DefaultConfig()
	cfg.Vendor = strings.ToLower(strings.TrimSpace(vendor))
	if timing.Vendor(cfg.Vendor) == timing.Quartus {
		cfg.Part = "10M50DAF484C7G"
		cfg.ToolCommand = defaultToolCommand(timing.Quartus)
	}
	return cfg
}

func defaultToolCommand(vendor timing.Vendor) []string {
	if vendor == timing.Quartus {
		return []string{"quartus_sh", "-t", ScriptPlaceholder}
	}
	return []string{"vivado", "-mode", "batch", "-nojournal", "-nolog", "-source", ScriptPlaceholder}
}

func boolPtr(v bool) *bool {
	return &v
}

// Load finds and loads the configuration file
// Search order:
//  1. ./vhdl_timing.toml, ./.vhdl_timing.toml, ./vhdl_timing.yaml
//  2. the same names under rootPath (if different from cwd)
//  3. ~/.config/vhdl_timing/config.toml
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	names := []string{"vhdl_timing.toml", ".vhdl_timing.toml", "vhdl_timing.yaml"}
	var searchPaths []string
	for _, n := range names {
		searchPaths = append(searchPaths, filepath.Join(cwd, n))
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			for _, n := range names {
				searchPaths = append(searchPaths, filepath.Join(rootPath, n))
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "vhdl_timing", "config.toml"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFile loads configuration from a specific file. The format follows the
// extension: .yaml/.yml is YAML, anything else TOML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Vendor == "" {
		c.Vendor = def.Vendor
	}
	c.Vendor = strings.ToLower(c.Vendor)
	if c.Part == "" {
		c.Part = def.Part
	}
	if c.ClockFrequencyMHz == "" {
		c.ClockFrequencyMHz = def.ClockFrequencyMHz
	}
	if c.Widths == nil {
		c.Widths = def.Widths
	}
	if c.Families == nil {
		c.Families = def.Families
	}
	if c.Fixtures == nil {
		c.Fixtures = def.Fixtures
	}
	if c.Implementation == nil {
		c.Implementation = boolPtr(*def.Implementation)
	}
	if c.ParallelJobs == 0 {
		c.ParallelJobs = def.ParallelJobs
	}
	if c.WorkDir == "" {
		c.WorkDir = def.WorkDir
	}
	if len(c.ToolCommand) == 0 {
		c.ToolCommand = defaultToolCommand(timing.Vendor(c.Vendor))
	}
}

// Save writes the configuration to a file, TOML or YAML by extension
func (c *Config) Save(path string) error {
	var data []byte
	if isYAML(path) {
		out, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = out
	} else {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ErrInvalidConfig is returned by Validate when the configuration breaks
// the CUE contract.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration against the CUE contract. The error
// lists every failing field, not just the first.
func (c *Config) Validate() error {
	v, err := validator.NewConfigValidator()
	if err != nil {
		return err
	}
	if errs := v.ValidationErrors(c, "#Config"); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// VendorName returns the configured vendor.
func (c *Config) VendorName() (timing.Vendor, error) {
	return timing.ParseVendor(c.Vendor)
}

// Phases returns the analysis phases to run and parse, in flow order.
// Requesting implementation timing from a vendor that cannot produce it,
// or disabling it for one that only supports it, is a configuration error.
func (c *Config) Phases() ([]timing.Phase, error) {
	vendor, err := c.VendorName()
	if err != nil {
		return nil, err
	}
	wantImpl := c.Implementation == nil || *c.Implementation
	var phases []timing.Phase
	for _, p := range vendor.Phases() {
		if p == timing.Implementation && !wantImpl {
			continue
		}
		phases = append(phases, p)
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("%w: %s with implementation disabled", timing.ErrUnsupportedPhase, vendor)
	}
	return phases, nil
}

// WidthList converts the configured widths.
func (c *Config) WidthList() ([]uint32, error) {
	out := make([]uint32, 0, len(c.Widths))
	for _, w := range c.Widths {
		if w < 1 {
			return nil, fmt.Errorf("width must be at least 1, got %d", w)
		}
		u, err := safecast.Conv[uint32](w)
		if err != nil {
			return nil, fmt.Errorf("width %d: %w", w, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// FamilyList resolves the configured type families.
func (c *Config) FamilyList() ([]hdl.Family, error) {
	out := make([]hdl.Family, 0, len(c.Families))
	for _, name := range c.Families {
		f, err := hdl.ParseFamily(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// FixtureList resolves the configured fixtures.
func (c *Config) FixtureList() ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(c.Fixtures))
	for _, name := range c.Fixtures {
		f, err := fixture.ByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ClockHz returns the configured clock frequency in Hz.
func (c *Config) ClockHz() (*apd.Decimal, error) {
	mhz, err := timing.ParseDecimal(c.ClockFrequencyMHz)
	if err != nil {
		return nil, fmt.Errorf("clock_frequency_mhz: %w", err)
	}
	if mhz.Sign() <= 0 {
		return nil, fmt.Errorf("clock_frequency_mhz must be positive, got %s", mhz)
	}
	return timing.FromMHz(mhz), nil
}

// Jobs returns the number of parallel jobs as a safe int.
func (c *Config) Jobs() int {
	if c.ParallelJobs < 1 {
		return 1
	}
	return c.ParallelJobs
}
