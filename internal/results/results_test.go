package results

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/config"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/hdl"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/timing"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/workspace"
)

const implReport = `Slack (MET) :             1.858ns  (required time - arrival time)
  Requirement:            5.000ns  (clk rise@5.000ns - clk rise@0.000ns)
  Data Path Delay:        3.064ns  (logic 1.911ns (62.370%)  route 1.153ns (37.630%))
    Source Clock Delay      (SCD):    2.140ns
                         required time                          7.142
                         arrival time                          -5.284
`

const synthReport = `  Data Path Delay:        2.500ns  (logic 1.000ns (40.000%)  route 1.500ns (60.000%))
`

const implSummary = `| Design Timing Summary
| ---------------------
------------------------------------------------------------------------------------------------

    WNS(ns)      TNS(ns)  TNS Failing Endpoints  TNS Total Endpoints      WHS(ns)      THS(ns)  THS Failing Endpoints  THS Total Endpoints     WPWS(ns)     TPWS(ns)  TPWS Failing Endpoints  TPWS Total Endpoints
    -------      -------  ---------------------  -------------------      -------      -------  ---------------------  -------------------     --------     --------  ----------------------  --------------------
      1.858        0.000                      0                   16        0.140        0.000                      0                   16        2.000        0.000                       0                    33
`

func addCase(t *testing.T) suite.TestCase {
	t.Helper()
	cases, err := suite.Select(suite.DefaultCases([]fixture.Fixture{fixture.Registered}), []string{"add"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	return suite.TestCase{Operator: cases[0], InputWidth: 8, Family: hdl.Signed, Fixture: fixture.Registered}
}

func fullResult() *timing.Result {
	r := &timing.Result{DataPathDelayAvailable: true, ExtendedSyncParametersCount: 3, TimingSummaryAvailable: true}
	r.ClockFrequency.Set(timing.MustDecimal("200000000"))
	r.DataPathDelay.Set(timing.MustDecimal("3.064"))
	r.Requirement.Set(timing.MustDecimal("5.000"))
	r.RequirementPlusDelays.Set(timing.MustDecimal("7.142"))
	r.SourceClockDelay.Set(timing.MustDecimal("2.140"))
	r.WorstSetupSlack.Set(timing.MustDecimal("1.858"))
	r.TotalSetupSlack.Set(timing.MustDecimal("0.000"))
	r.WorstHoldSlack.Set(timing.MustDecimal("0.140"))
	r.TotalHoldSlack.Set(timing.MustDecimal("0.000"))
	r.WorstPulseWidthSlack.Set(timing.MustDecimal("2.000"))
	r.TotalPulseWidthSlack.Set(timing.MustDecimal("0.000"))
	return r
}

func TestChosenPrefersImplementation(t *testing.T) {
	synth := &timing.Result{DataPathDelayAvailable: true}
	impl := &timing.Result{DataPathDelayAvailable: true}

	tests := []struct {
		name    string
		byPhase map[timing.Phase]*timing.Result
		want    timing.Phase
		ok      bool
	}{
		{"both", map[timing.Phase]*timing.Result{timing.Synthesis: synth, timing.Implementation: impl}, timing.Implementation, true},
		{"implementation without delay", map[timing.Phase]*timing.Result{timing.Synthesis: synth, timing.Implementation: {}}, timing.Synthesis, true},
		{"synthesis only", map[timing.Phase]*timing.Result{timing.Synthesis: synth}, timing.Synthesis, true},
		{"nothing", map[timing.Phase]*timing.Result{timing.Synthesis: {}}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, _, ok := Chosen(tt.byPhase)
			if phase != tt.want || ok != tt.ok {
				t.Fatalf("Chosen = %q %v, want %q %v", phase, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBuildRow(t *testing.T) {
	tc := addCase(t)
	row := BuildRow(tc, map[timing.Phase]*timing.Result{timing.Implementation: fullResult()})

	want := Row{
		Operator:             "add",
		InputType:            tc.InputType(true),
		OutputType:           tc.OutputType(true),
		Fixture:              "registered",
		Phase:                "implementation",
		DataPathDelayNS:      "3.064",
		TimingWindowDiffNS:   "0.002",
		MaxClockFrequencyMHz: "326.584",
		MetTiming:            true,
	}
	if row != want {
		t.Fatalf("BuildRow =\n%+v\nwant\n%+v", row, want)
	}
}

func TestBuildRowWithoutDelay(t *testing.T) {
	row := BuildRow(addCase(t), map[timing.Phase]*timing.Result{timing.Implementation: {}})
	if row.Phase != "" || row.DataPathDelayNS != "" || row.MaxClockFrequencyMHz != "" || row.MetTiming {
		t.Fatalf("expected an empty measurement, got %+v", row)
	}
}

func TestWriterTSV(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	tc := addCase(t)
	row := BuildRow(tc, map[timing.Phase]*timing.Result{timing.Implementation: fullResult()})
	if err := w.Write(row); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(BuildRow(tc, nil)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", buf.String())
	}
	if lines[0] != strings.Join(Header, "\t") {
		t.Fatalf("header = %q", lines[0])
	}
	fields := strings.Split(lines[1], "\t")
	if len(fields) != len(Header) || fields[0] != "add" || fields[7] != "326.584" || fields[8] != "true" {
		t.Fatalf("row = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "\t\t\t\t\tfalse") {
		t.Fatalf("unmeasured row = %q", lines[2])
	}
}

func TestWriterRejectsInvalidRow(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	bad := BuildRow(addCase(t), map[timing.Phase]*timing.Result{timing.Implementation: fullResult()})
	bad.DataPathDelayNS = "fast"
	if err := w.Write(bad); err == nil {
		t.Fatalf("expected validation error")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written for a rejected batch, got %q", buf.String())
	}
}

func newCollector(t *testing.T, cache *Cache) (*Collector, *logtest.Hook, suite.TestCase) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WorkDir = filepath.Join(t.TempDir(), "work")
	cfg.ClockFrequencyMHz = "200"
	ws, err := workspace.New(cfg)
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	tc := addCase(t)
	if _, err := ws.Prepare([]suite.TestCase{tc}); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	hz, err := cfg.ClockHz()
	if err != nil {
		t.Fatalf("ClockHz: %v", err)
	}
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return &Collector{Workspace: ws, ClockHz: hz, Cache: cache, Log: log}, hook, tc
}

func writeReport(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCollectorRows(t *testing.T) {
	c, _, tc := newCollector(t, nil)
	dir := c.Workspace.TestDir(tc)
	writeReport(t, dir, workspace.SynthReportFile, synthReport)
	writeReport(t, dir, workspace.ImplReportFile, implReport)
	writeReport(t, dir, workspace.ImplSummaryFile, implSummary)

	rows, err := c.Rows([]suite.TestCase{tc})
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Phase != "implementation" || rows[0].MaxClockFrequencyMHz != "326.584" || !rows[0].MetTiming {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if c.Stats.Parsed != 2 {
		t.Fatalf("expected both phases parsed, got %+v", c.Stats)
	}
}

func TestCollectorFallsBackToSynthesis(t *testing.T) {
	c, hook, tc := newCollector(t, nil)
	writeReport(t, c.Workspace.TestDir(tc), workspace.SynthReportFile, synthReport)

	rows, err := c.Rows([]suite.TestCase{tc})
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if rows[0].Phase != "synthesis" || rows[0].DataPathDelayNS != "2.500" || rows[0].MaxClockFrequencyMHz != "400.000" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if c.Stats.Missing != 1 {
		t.Fatalf("expected the implementation report to be missing, got %+v", c.Stats)
	}
	found := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "no timing report" && e.Data["phase"] == timing.Implementation {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing report was not logged")
	}
}

func TestCollectorUsesCache(t *testing.T) {
	cache := NewCache(t.TempDir())
	c, _, tc := newCollector(t, cache)
	dir := c.Workspace.TestDir(tc)
	writeReport(t, dir, workspace.SynthReportFile, synthReport)
	writeReport(t, dir, workspace.ImplReportFile, implReport)

	first, err := c.Rows([]suite.TestCase{tc})
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	c.Stats = CollectStats{}
	second, err := c.Rows([]suite.TestCase{tc})
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if c.Stats.Parsed != 0 || c.Stats.CacheHits != 2 {
		t.Fatalf("expected only cache hits, got %+v", c.Stats)
	}
	if first[0] != second[0] {
		t.Fatalf("cached row differs:\n%+v\n%+v", first[0], second[0])
	}
}
