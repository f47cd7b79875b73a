package workspace

// =============================================================================
// WORKSPACE LAYOUT
// =============================================================================
//
//   <work_dir>/
//     job_0.tcl, job_1.tcl ...       one batch script per partition slice
//     <test name>/
//       UUT.vhd                      the filled fixture
//       Constraints.xdc|.sdc         only for fixtures with a clock
//       Run.tcl                      vendor flow for this test
//       SynthTimingReport.txt ...    written by the tool
//
// Test names come from suite.TestCase.Name and are filesystem safe, so the
// directory of a test can be recomputed at parse time from the same
// configuration without any manifest.
// =============================================================================

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/timing"
)

const (
	VHDLFile        = "UUT.vhd"
	ConstraintsBase = "Constraints"
	TestScript      = "Run.tcl"

	SynthReportFile  = "SynthTimingReport.txt"
	SynthSummaryFile = "SynthTimingSummary.txt"
	ImplReportFile   = "ImplTimingReport.txt"
	ImplSummaryFile  = "ImplTimingSummary.txt"
)

// ErrReportMissing is returned when a phase's reports were never written,
// typically because the tool failed on that test.
var ErrReportMissing = errors.New("timing report missing")

// Job is one partition slice: a batch script covering a contiguous run of
// test directories.
type Job struct {
	Index  int
	Script string
	Tests  []string
}

// Workspace writes fixtures and scripts and reads reports back.
type Workspace struct {
	Root     string
	Vendor   timing.Vendor
	Phases   []timing.Phase
	Part     string
	PeriodNS string
	Jobs     int
}

// New prepares a workspace description from configuration. Nothing is
// written until Prepare.
func New(cfg *config.Config) (*Workspace, error) {
	vendor, err := cfg.VendorName()
	if err != nil {
		return nil, err
	}
	phases, err := cfg.Phases()
	if err != nil {
		return nil, err
	}
	hz, err := cfg.ClockHz()
	if err != nil {
		return nil, err
	}
	period, err := timing.PeriodNS(hz)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		Root:     cfg.WorkDir,
		Vendor:   vendor,
		Phases:   phases,
		Part:     cfg.Part,
		PeriodNS: period.Text('f'),
		Jobs:     cfg.Jobs(),
	}, nil
}

// TestDir returns the directory of a test case.
func (w *Workspace) TestDir(tc suite.TestCase) string {
	return filepath.Join(w.Root, tc.Name())
}

func (w *Workspace) constraintFormat() fixture.ConstraintFormat {
	if w.Vendor == timing.Quartus {
		return fixture.SDC
	}
	return fixture.XDC
}

func (w *Workspace) hasPhase(p timing.Phase) bool {
	for _, q := range w.Phases {
		if q == p {
			return true
		}
	}
	return false
}

// ReportFiles returns the detailed report and summary file names of a phase.
func ReportFiles(phase timing.Phase) (report, summary string) {
	if phase == timing.Synthesis {
		return SynthReportFile, SynthSummaryFile
	}
	return ImplReportFile, ImplSummaryFile
}

// Prepare writes every test directory and one batch script per partition
// slice, returning the jobs to run.
func (w *Workspace) Prepare(tests []suite.TestCase) ([]Job, error) {
	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	for _, tc := range tests {
		if err := w.writeTest(tc); err != nil {
			return nil, fmt.Errorf("%s: %w", tc.Name(), err)
		}
	}

	var jobs []Job
	for i, slice := range suite.Partition(tests, w.Jobs) {
		job := Job{Index: i, Script: filepath.Join(w.Root, "job_"+strconv.Itoa(i)+".tcl")}
		for _, tc := range slice {
			job.Tests = append(job.Tests, tc.Name())
		}
		var buf bytes.Buffer
		if err := batchTemplate.Execute(&buf, batchScriptData{Index: i, Tests: job.Tests, TestScript: TestScript}); err != nil {
			return nil, fmt.Errorf("render job %d: %w", i, err)
		}
		if err := os.WriteFile(job.Script, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write job %d: %w", i, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (w *Workspace) writeTest(tc suite.TestCase) error {
	dir := w.TestDir(tc)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create test dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, VHDLFile), []byte(tc.VHDL()), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	data := testScriptData{
		Name:           tc.Name(),
		Part:           w.Part,
		VHDLFile:       VHDLFile,
		Synthesis:      w.hasPhase(timing.Synthesis),
		Implementation: w.hasPhase(timing.Implementation),
		SynthReport:    SynthReportFile,
		SynthSummary:   SynthSummaryFile,
		ImplReport:     ImplReportFile,
		ImplSummary:    ImplSummaryFile,
	}
	format := w.constraintFormat()
	if constraints := tc.Fixture.Constraints(format, w.PeriodNS); constraints != "" {
		data.ConstraintsFile = ConstraintsBase + format.Extension()
		if err := os.WriteFile(filepath.Join(dir, data.ConstraintsFile), []byte(constraints), 0o644); err != nil {
			return fmt.Errorf("write constraints: %w", err)
		}
	}

	tmpl := vivadoTestTemplate
	if w.Vendor == timing.Quartus {
		tmpl = quartusTestTemplate
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render script: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, TestScript), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

// ReadReports returns the detailed report and summary text of a test for
// the given phase. A missing detailed report is ErrReportMissing; a missing
// summary is read as empty text so the report fields still get parsed.
func (w *Workspace) ReadReports(tc suite.TestCase, phase timing.Phase) (report, summary string, err error) {
	reportFile, summaryFile := ReportFiles(phase)
	dir := w.TestDir(tc)

	raw, err := os.ReadFile(filepath.Join(dir, reportFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s %s", ErrReportMissing, tc.Name(), phase)
		}
		return "", "", fmt.Errorf("read %s: %w", reportFile, err)
	}
	report = string(raw)

	raw, err = os.ReadFile(filepath.Join(dir, summaryFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", "", fmt.Errorf("read %s: %w", summaryFile, err)
	}
	return report, string(raw), nil
}
