package timing

// =============================================================================
// TIMING REPORT PARSING: EVERY FIELD ON ITS OWN
// =============================================================================
//
// Vendor reports are free text. Each field is extracted by its own pattern
// and a missing field only leaves that field's availability flag false; it
// never stops the extraction of the others. Half-parsed reports are normal:
// a combinational fixture has no clock, so its report has no requirement and
// its summary table is full of "NA".
//
// Configuration mistakes (an unknown vendor, a phase the vendor cannot
// report on) are errors returned at construction time, never parse results.
// =============================================================================

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

var (
	// ErrUnknownVendor is returned for a vendor name with no parser.
	ErrUnknownVendor = errors.New("unknown vendor")
	// ErrUnsupportedPhase is returned when a vendor cannot produce timing
	// results for the requested phase.
	ErrUnsupportedPhase = errors.New("unsupported analysis phase")
	// ErrAlreadyParsed is returned when a parser is reused.
	ErrAlreadyParsed = errors.New("parser already used")
)

// Phase is the point in the tool flow the timing analysis ran after.
type Phase string

const (
	Synthesis      Phase = "synthesis"
	Implementation Phase = "implementation"
)

// Vendor names a synthesis toolchain.
type Vendor string

const (
	Vivado  Vendor = "vivado"
	Quartus Vendor = "quartus"
)

// ParseVendor resolves a configuration name.
func ParseVendor(name string) (Vendor, error) {
	switch v := Vendor(strings.ToLower(strings.TrimSpace(name))); v {
	case Vivado, Quartus:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVendor, name)
}

// Phases returns the phases the vendor can produce timing reports for, in
// flow order.
func (v Vendor) Phases() []Phase {
	switch v {
	case Vivado:
		return []Phase{Synthesis, Implementation}
	case Quartus:
		return []Phase{Implementation}
	}
	return nil
}

// Supports reports whether the vendor can analyse timing after phase.
func (v Vendor) Supports(phase Phase) bool {
	for _, p := range v.Phases() {
		if p == phase {
			return true
		}
	}
	return false
}

// Parser turns one detailed timing report and one summary report into a
// Result. A Parser is used for exactly one report pair and must not be
// shared between goroutines.
type Parser interface {
	Vendor() Vendor
	Phase() Phase
	Parse(report, summary string) (*Result, error)
}

// NewParser returns the parser for vendor and phase. clockHz is the
// configured clock frequency recorded in every result.
func NewParser(vendor Vendor, phase Phase, clockHz *apd.Decimal) (Parser, error) {
	var patterns *vendorPatterns
	switch vendor {
	case Vivado:
		patterns = vivadoPatterns
	case Quartus:
		patterns = quartusPatterns
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, vendor)
	}
	if !vendor.Supports(phase) {
		return nil, fmt.Errorf("%w: %s cannot analyse timing after %s", ErrUnsupportedPhase, vendor, phase)
	}
	p := &reportParser{vendor: vendor, phase: phase, patterns: patterns}
	if clockHz != nil {
		p.clockHz.Set(clockHz)
	}
	return p, nil
}

// vendorPatterns is everything that differs between vendors.
type vendorPatterns struct {
	dataPathDelay         *regexp.Regexp
	requirement           *regexp.Regexp
	requirementPlusDelays *regexp.Regexp
	sourceClockDelay      *regexp.Regexp
	summary               func(summary string, r *Result)
}

type reportParser struct {
	vendor   Vendor
	phase    Phase
	patterns *vendorPatterns
	clockHz  apd.Decimal
	parsed   bool
}

func (p *reportParser) Vendor() Vendor { return p.vendor }
func (p *reportParser) Phase() Phase   { return p.phase }

// Parse implements Parser.
func (p *reportParser) Parse(report, summary string) (*Result, error) {
	if p.parsed {
		return nil, ErrAlreadyParsed
	}
	p.parsed = true

	r := &Result{}
	r.ClockFrequency.Set(&p.clockHz)

	if d, ok := extractDecimal(p.patterns.dataPathDelay, report, "data path delay", r); ok {
		r.DataPathDelay.Set(d)
		r.DataPathDelayAvailable = true
	}

	extended := []struct {
		re    *regexp.Regexp
		label string
		dst   *apd.Decimal
	}{
		{p.patterns.requirement, "requirement", &r.Requirement},
		{p.patterns.requirementPlusDelays, "requirement plus delays", &r.RequirementPlusDelays},
		{p.patterns.sourceClockDelay, "source clock delay", &r.SourceClockDelay},
	}
	for _, f := range extended {
		if d, ok := extractDecimal(f.re, report, f.label, r); ok {
			f.dst.Set(d)
			r.ExtendedSyncParametersCount++
		}
	}

	p.patterns.summary(summary, r)
	return r, nil
}

// extractDecimal returns the first capture group of the first match of re.
// A match holding a malformed number is recorded as a warning.
func extractDecimal(re *regexp.Regexp, text, label string, r *Result) (*apd.Decimal, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	d, err := ParseDecimal(m[1])
	if err != nil {
		r.warnf("%s: %v", label, err)
		return nil, false
	}
	return d, true
}
