package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/timing"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/validator"
)

// Row is one line of the results table. Unavailable values are empty.
type Row struct {
	Operator             string `json:"operator"`
	InputType            string `json:"input_type"`
	OutputType           string `json:"output_type"`
	Fixture              string `json:"fixture"`
	Phase                string `json:"phase"`
	DataPathDelayNS      string `json:"data_path_delay_ns"`
	TimingWindowDiffNS   string `json:"timing_window_diff_ns"`
	MaxClockFrequencyMHz string `json:"max_clock_frequency_mhz"`
	MetTiming            bool   `json:"met_timing"`
}

// Header is the first line of the TSV output.
var Header = []string{
	"op", "inType", "outType", "template", "phase",
	"dataPathDelay", "timingWindowDiffFromRequirement", "maxClockFrequencyMHz", "metTiming",
}

func (r Row) fields() []string {
	return []string{
		r.Operator, r.InputType, r.OutputType, r.Fixture, r.Phase,
		r.DataPathDelayNS, r.TimingWindowDiffNS, r.MaxClockFrequencyMHz,
		strconv.FormatBool(r.MetTiming),
	}
}

// Chosen picks the phase whose results go into the table: implementation
// when it produced a data path delay, synthesis otherwise. ok is false if
// no phase has a data path delay.
func Chosen(byPhase map[timing.Phase]*timing.Result) (timing.Phase, *timing.Result, bool) {
	for _, p := range []timing.Phase{timing.Implementation, timing.Synthesis} {
		if r := byPhase[p]; r != nil && r.DataPathDelayAvailable {
			return p, r, true
		}
	}
	return "", nil, false
}

// BuildRow assembles the row of one test case from its per-phase results.
func BuildRow(tc suite.TestCase, byPhase map[timing.Phase]*timing.Result) Row {
	row := Row{
		Operator:   tc.Operator.Name,
		InputType:  tc.InputType(true),
		OutputType: tc.OutputType(true),
		Fixture:    tc.Fixture.Name,
	}
	phase, r, ok := Chosen(byPhase)
	if !ok {
		return row
	}
	row.Phase = string(phase)
	row.DataPathDelayNS = r.DataPathDelay.Text('f')
	if r.ExtendedSyncParametersAvailable() {
		row.TimingWindowDiffNS = r.TimingWindowDiffFromRequirement().Text('f')
	}
	if hz, ok := r.MaxClockFrequency(); ok {
		row.MaxClockFrequencyMHz = timing.Round(timing.ToMHz(hz), 3).Text('f')
	}
	row.MetTiming = r.DesignMetTimingRequirements()
	return row
}

// Writer writes result rows as tab separated values.
type Writer struct {
	w         *csv.Writer
	validator *validator.Validator
	header    bool
}

// NewWriter returns a Writer that checks every row against the result
// contract before writing it.
func NewWriter(out io.Writer) (*Writer, error) {
	v, err := validator.NewResultValidator()
	if err != nil {
		return nil, err
	}
	cw := csv.NewWriter(out)
	cw.Comma = '\t'
	return &Writer{w: cw, validator: v}, nil
}

// Write validates and writes rows, emitting the header first.
func (w *Writer) Write(rows ...Row) error {
	if len(rows) > 0 {
		if err := w.validator.ValidateRows(rows); err != nil {
			return fmt.Errorf("result rows: %w", err)
		}
	}
	if !w.header {
		if err := w.w.Write(Header); err != nil {
			return err
		}
		w.header = true
	}
	for _, r := range rows {
		if err := w.w.Write(r.fields()); err != nil {
			return err
		}
	}
	w.w.Flush()
	return w.w.Error()
}
