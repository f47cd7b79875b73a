package timing

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// extendedSyncParameterTotal is the number of fields the timing window is
// derived from: requirement, requirement plus delays, source clock delay.
const extendedSyncParameterTotal = 3

// Result is the canonical record extracted from one pair of reports.
//
// Fields are written only while a parser runs. Derived quantities are
// methods so they can never drift from the stored fields.
type Result struct {
	// ClockFrequency is the configured clock in Hz.
	ClockFrequency apd.Decimal

	DataPathDelay          apd.Decimal
	DataPathDelayAvailable bool

	Requirement                 apd.Decimal
	RequirementPlusDelays       apd.Decimal
	SourceClockDelay            apd.Decimal
	ExtendedSyncParametersCount int

	WorstSetupSlack        apd.Decimal
	TotalSetupSlack        apd.Decimal
	WorstHoldSlack         apd.Decimal
	TotalHoldSlack         apd.Decimal
	WorstPulseWidthSlack   apd.Decimal
	TotalPulseWidthSlack   apd.Decimal
	TimingSummaryAvailable bool

	// Warnings lists recoverable extraction problems, such as a slack row
	// holding "NA" cells. The caller decides whether to log them.
	Warnings []string
}

// ExtendedSyncParametersAvailable is true only when all three extended
// parameters were found. Partial data never feeds the timing window.
func (r *Result) ExtendedSyncParametersAvailable() bool {
	return r.ExtendedSyncParametersCount == extendedSyncParameterTotal
}

// TimingWindowAvailable is requirement plus delays minus source clock delay.
func (r *Result) TimingWindowAvailable() *apd.Decimal {
	return sub(&r.RequirementPlusDelays, &r.SourceClockDelay)
}

// TimingWindowDiffFromRequirement is the timing window minus the requirement.
func (r *Result) TimingWindowDiffFromRequirement() *apd.Decimal {
	return sub(r.TimingWindowAvailable(), &r.Requirement)
}

// effectiveDelay is the data path delay corrected by the timing window
// difference when the extended parameters are complete.
func (r *Result) effectiveDelay() *apd.Decimal {
	if !r.ExtendedSyncParametersAvailable() {
		d := new(apd.Decimal)
		d.Set(&r.DataPathDelay)
		return d
	}
	return sub(&r.DataPathDelay, r.TimingWindowDiffFromRequirement())
}

// MaxClockFrequency returns 1 / ((data path delay - timing window diff) ns)
// in Hz. When fewer than three extended parameters were found the diff is
// not subtracted and the data path delay is used on its own. ok is false
// when the data path delay is missing or the corrected delay is not
// positive.
func (r *Result) MaxClockFrequency() (hz *apd.Decimal, ok bool) {
	if !r.DataPathDelayAvailable {
		return nil, false
	}
	delay := r.effectiveDelay()
	if delay.Sign() <= 0 {
		return nil, false
	}
	f, err := quo(nanosecondsPerSecond, delay)
	if err != nil {
		return nil, false
	}
	return f, true
}

// DesignMetTimingRequirements is true when the summary was read and every
// total slack is exactly zero.
func (r *Result) DesignMetTimingRequirements() bool {
	return r.TimingSummaryAvailable &&
		r.TotalSetupSlack.IsZero() &&
		r.TotalHoldSlack.IsZero() &&
		r.TotalPulseWidthSlack.IsZero()
}

// Lines renders a human readable summary. The timing window line is left
// out unless all extended parameters were found.
func (r *Result) Lines() []string {
	var lines []string
	if r.DataPathDelayAvailable {
		lines = append(lines, fmt.Sprintf("Data path delay: %s ns", &r.DataPathDelay))
	} else {
		lines = append(lines, "Data path delay: not available")
	}
	if r.ExtendedSyncParametersAvailable() {
		lines = append(lines,
			fmt.Sprintf("Requirement: %s ns", &r.Requirement),
			fmt.Sprintf("Timing window available: %s ns", r.TimingWindowAvailable()),
			fmt.Sprintf("Timing window diff from requirement: %s ns", r.TimingWindowDiffFromRequirement()),
		)
	}
	if hz, ok := r.MaxClockFrequency(); ok {
		lines = append(lines, fmt.Sprintf("Max clock frequency: %s MHz", Round(ToMHz(hz), 3)))
	}
	if r.TimingSummaryAvailable {
		lines = append(lines,
			fmt.Sprintf("Worst setup slack: %s ns, total: %s ns", &r.WorstSetupSlack, &r.TotalSetupSlack),
			fmt.Sprintf("Worst hold slack: %s ns, total: %s ns", &r.WorstHoldSlack, &r.TotalHoldSlack),
			fmt.Sprintf("Worst pulse width slack: %s ns, total: %s ns", &r.WorstPulseWidthSlack, &r.TotalPulseWidthSlack),
			fmt.Sprintf("Design met timing requirements: %t", r.DesignMetTimingRequirements()),
		)
	} else {
		lines = append(lines, "Timing summary: not available")
	}
	return lines
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
