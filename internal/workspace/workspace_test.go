package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/timing"
)

func testConfig(t *testing.T, vendor string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Vendor = vendor
	cfg.WorkDir = filepath.Join(t.TempDir(), "work")
	cfg.ClockFrequencyMHz = "250"
	cfg.ParallelJobs = 3
	return cfg
}

func testMatrix(t *testing.T) []suite.TestCase {
	t.Helper()
	cases, err := suite.Select(suite.DefaultCases(fixture.All()), []string{"add", "not"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	return suite.Collect(suite.Enumerate(cases, []uint32{8, 16}))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestPrepareVivado(t *testing.T) {
	cfg := testConfig(t, "vivado")
	ws, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ws.PeriodNS != "4" {
		t.Fatalf("period = %q", ws.PeriodNS)
	}

	tests := testMatrix(t)
	jobs, err := ws.Prepare(tests)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	total := 0
	for _, j := range jobs {
		total += len(j.Tests)
		script := readFile(t, j.Script)
		for _, name := range j.Tests {
			if !strings.Contains(script, `"`+name+`"`) {
				t.Fatalf("job %d script missing %s", j.Index, name)
			}
		}
	}
	if total != len(tests) {
		t.Fatalf("jobs cover %d tests, want %d", total, len(tests))
	}

	for _, tc := range tests {
		dir := ws.TestDir(tc)
		vhdl := readFile(t, filepath.Join(dir, VHDLFile))
		if !strings.Contains(vhdl, tc.Code()) {
			t.Fatalf("%s: fixture lacks expression", tc.Name())
		}
		run := readFile(t, filepath.Join(dir, TestScript))
		if !strings.Contains(run, "synth_design -top tf_sample -part xc7a100tcsg324-1") {
			t.Fatalf("%s: unexpected run script:\n%s", tc.Name(), run)
		}
		if !strings.Contains(run, SynthReportFile) || !strings.Contains(run, ImplSummaryFile) {
			t.Fatalf("%s: both phases should be reported:\n%s", tc.Name(), run)
		}

		constraints := filepath.Join(dir, "Constraints.xdc")
		_, statErr := os.Stat(constraints)
		if tc.Fixture.RequiresTimingConstraint {
			if statErr != nil {
				t.Fatalf("%s: missing constraints: %v", tc.Name(), statErr)
			}
			if !strings.Contains(readFile(t, constraints), "-period 4 ") {
				t.Fatalf("%s: wrong period", tc.Name())
			}
			if !strings.Contains(run, "read_xdc Constraints.xdc") {
				t.Fatalf("%s: constraints not read", tc.Name())
			}
		} else if statErr == nil {
			t.Fatalf("%s: combinational fixture should have no constraints", tc.Name())
		}
	}
}

func TestPrepareQuartus(t *testing.T) {
	cfg := testConfig(t, "quartus")
	cfg.Part = "10M50DAF484C7G"
	ws, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tests := testMatrix(t)
	if _, err := ws.Prepare(tests); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	for _, tc := range tests {
		run := readFile(t, filepath.Join(ws.TestDir(tc), TestScript))
		if !strings.Contains(run, "set_global_assignment -name DEVICE 10M50DAF484C7G") {
			t.Fatalf("unexpected quartus script:\n%s", run)
		}
		if strings.Contains(run, SynthReportFile) {
			t.Fatalf("quartus has no synthesis timing phase")
		}
		if tc.Fixture.RequiresTimingConstraint && !strings.Contains(run, "SDC_FILE Constraints.sdc") {
			t.Fatalf("registered fixture must reference its sdc")
		}
	}
}

func TestReadReports(t *testing.T) {
	cfg := testConfig(t, "vivado")
	ws, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tests := testMatrix(t)
	if _, err := ws.Prepare(tests); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	tc := tests[0]

	if _, _, err := ws.ReadReports(tc, timing.Implementation); !errors.Is(err, ErrReportMissing) {
		t.Fatalf("expected ErrReportMissing, got %v", err)
	}

	dir := ws.TestDir(tc)
	if err := os.WriteFile(filepath.Join(dir, ImplReportFile), []byte("report"), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	report, summary, err := ws.ReadReports(tc, timing.Implementation)
	if err != nil {
		t.Fatalf("ReadReports: %v", err)
	}
	if report != "report" || summary != "" {
		t.Fatalf("unexpected reports %q %q", report, summary)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t, "vivado")
	cfg.ClockFrequencyMHz = "0"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected zero clock to be rejected")
	}
	cfg = testConfig(t, "ise")
	if _, err := New(cfg); !errors.Is(err, timing.ErrUnknownVendor) {
		t.Fatalf("expected ErrUnknownVendor, got %v", err)
	}
}
