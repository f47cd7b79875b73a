package fixture

import (
	"fmt"
	"strings"
)

// ConstraintFormat selects the vendor flavour of the clock constraint file.
type ConstraintFormat int

const (
	// XDC is the Vivado constraint format.
	XDC ConstraintFormat = iota
	// SDC is the Quartus (Synopsys design constraints) format.
	SDC
)

// Extension returns the file extension for the format, including the dot.
func (c ConstraintFormat) Extension() string {
	if c == SDC {
		return ".sdc"
	}
	return ".xdc"
}

// Constraints returns the clock constraint text for the fixture. Fixtures
// that do not require a constraint yield an empty string.
//
// periodNS is the clock period in nanoseconds as a decimal string, it is
// written out verbatim so the report echoes the exact configured value.
func (f Fixture) Constraints(format ConstraintFormat, periodNS string) string {
	if !f.RequiresTimingConstraint {
		return ""
	}
	var b strings.Builder
	switch format {
	case SDC:
		fmt.Fprintf(&b, "create_clock -name clk -period %s [get_ports {clk}]\n", periodNS)
		b.WriteString("derive_clock_uncertainty\n")
	default:
		fmt.Fprintf(&b, "create_clock -period %s -name clk [get_ports clk]\n", periodNS)
	}
	return b.String()
}
