package timing

import (
	"errors"
	"testing"
)

func TestParseSlackRowPipeTable(t *testing.T) {
	row := "| -123.456 | 0.000 | -50.000 | 0.000 | -10.000 | 0.000 |"
	slacks, err := parseSlackRow(row, [6]int{0, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("parseSlackRow: %v", err)
	}
	var r Result
	r.setSlacks(slacks)

	if r.WorstSetupSlack.String() != "-123.456" {
		t.Fatalf("worst setup slack = %s", &r.WorstSetupSlack)
	}
	if !r.TotalSetupSlack.IsZero() {
		t.Fatalf("total setup slack = %s", &r.TotalSetupSlack)
	}
	if r.WorstHoldSlack.String() != "-50.000" || r.WorstPulseWidthSlack.String() != "-10.000" {
		t.Fatalf("unexpected worst slacks")
	}
	if !r.DesignMetTimingRequirements() {
		t.Fatalf("all totals are zero, design meets timing")
	}

	r.TotalHoldSlack.Set(MustDecimal("-0.001"))
	if r.DesignMetTimingRequirements() {
		t.Fatalf("non-zero total hold slack must fail timing")
	}
}

func TestParseSlackRowNotApplicable(t *testing.T) {
	row := "| NA | 0.000 | -50.000 | 0.000 | -10.000 | 0.000 |"
	_, err := parseSlackRow(row, [6]int{0, 1, 2, 3, 4, 5})
	if !errors.Is(err, errNotApplicable) {
		t.Fatalf("expected errNotApplicable, got %v", err)
	}

	var r Result
	if r.TimingSummaryAvailable || !r.WorstSetupSlack.IsZero() {
		t.Fatalf("fresh result must have no summary")
	}
}

func TestParseSlackRowShortRow(t *testing.T) {
	if _, err := parseSlackRow("1.0   2.0", vivadoSlackColumns); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, err := parseSlackRow("   ", vivadoSlackColumns); err == nil {
		t.Fatalf("expected error for empty row")
	}
}

func TestMaxClockFrequency(t *testing.T) {
	r := Result{DataPathDelayAvailable: true, ExtendedSyncParametersCount: 3}
	r.DataPathDelay.Set(MustDecimal("2.0"))
	// window = 5.5 - 0.0 = 5.5, diff = 5.5 - 5.0 = 0.5
	r.RequirementPlusDelays.Set(MustDecimal("5.5"))
	r.Requirement.Set(MustDecimal("5.0"))

	if got := r.TimingWindowDiffFromRequirement().String(); got != "0.5" {
		t.Fatalf("diff = %s", got)
	}
	hz, ok := r.MaxClockFrequency()
	if !ok {
		t.Fatalf("expected a frequency")
	}
	if got := Round(ToMHz(hz), 2).String(); got != "666.67" {
		t.Fatalf("max clock frequency = %s MHz, want 666.67", got)
	}
}

func TestMaxClockFrequencyNonPositiveDelay(t *testing.T) {
	r := Result{DataPathDelayAvailable: true, ExtendedSyncParametersCount: 3}
	r.DataPathDelay.Set(MustDecimal("0.4"))
	r.RequirementPlusDelays.Set(MustDecimal("5.5"))
	r.Requirement.Set(MustDecimal("5.0"))
	if _, ok := r.MaxClockFrequency(); ok {
		t.Fatalf("negative corrected delay has no frequency")
	}
}

func TestPeriodConversions(t *testing.T) {
	p, err := PeriodNS(FromMHz(MustDecimal("250")))
	if err != nil {
		t.Fatalf("PeriodNS: %v", err)
	}
	if p.Cmp(MustDecimal("4")) != 0 {
		t.Fatalf("period = %s", p)
	}
	if _, err := PeriodNS(MustDecimal("0")); err == nil {
		t.Fatalf("expected error for zero frequency")
	}
	if _, err := ParseDecimal("fast"); err == nil {
		t.Fatalf("expected error for non-number")
	}
	if _, err := ParseDecimal("NaN"); err == nil {
		t.Fatalf("expected error for NaN")
	}
}

func TestLinesIncludeTimingWindowOnlyWhenComplete(t *testing.T) {
	r := Result{DataPathDelayAvailable: true, ExtendedSyncParametersCount: 3}
	r.DataPathDelay.Set(MustDecimal("2.0"))
	r.RequirementPlusDelays.Set(MustDecimal("5.5"))
	r.Requirement.Set(MustDecimal("5.0"))

	found := false
	for _, l := range r.Lines() {
		if l == "Timing window diff from requirement: 0.5 ns" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected timing window line in %v", r.Lines())
	}
}
