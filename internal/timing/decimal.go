package timing

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Reports print a handful of decimals and we echo them back into logs and
// result rows, so every quantity stays an apd.Decimal end to end.
var decimalContext = apd.BaseContext.WithPrecision(34)

var (
	nanosecondsPerSecond = MustDecimal("1e9")
	hertzPerMegahertz    = MustDecimal("1e6")
)

// ParseDecimal parses a report or configuration number.
func ParseDecimal(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("invalid decimal %q: not finite", s)
	}
	return d, nil
}

// MustDecimal is ParseDecimal for constants known to be valid.
func MustDecimal(s string) *apd.Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sub(a, b *apd.Decimal) *apd.Decimal {
	var out apd.Decimal
	if _, err := decimalContext.Sub(&out, a, b); err != nil {
		panic(fmt.Sprintf("timing: decimal subtraction: %v", err))
	}
	return &out
}

func quo(a, b *apd.Decimal) (*apd.Decimal, error) {
	var out apd.Decimal
	if _, err := decimalContext.Quo(&out, a, b); err != nil {
		return nil, err
	}
	return &out, nil
}

// PeriodNS converts a clock frequency in Hz to a period in nanoseconds.
func PeriodNS(frequencyHz *apd.Decimal) (*apd.Decimal, error) {
	if frequencyHz.Sign() <= 0 {
		return nil, fmt.Errorf("clock frequency must be positive, got %s", frequencyHz)
	}
	p, err := quo(nanosecondsPerSecond, frequencyHz)
	if err != nil {
		return nil, fmt.Errorf("computing clock period: %w", err)
	}
	return reduce(p), nil
}

// ToMHz converts a frequency in Hz to MHz.
func ToMHz(hz *apd.Decimal) *apd.Decimal {
	out, err := quo(hz, hertzPerMegahertz)
	if err != nil {
		panic(fmt.Sprintf("timing: decimal division: %v", err))
	}
	return out
}

// FromMHz converts a frequency in MHz to Hz.
func FromMHz(mhz *apd.Decimal) *apd.Decimal {
	var out apd.Decimal
	if _, err := decimalContext.Mul(&out, mhz, hertzPerMegahertz); err != nil {
		panic(fmt.Sprintf("timing: decimal multiplication: %v", err))
	}
	return reduce(&out)
}

// Round returns d rounded to the given number of fractional digits.
func Round(d *apd.Decimal, places int32) *apd.Decimal {
	var out apd.Decimal
	if _, err := decimalContext.Quantize(&out, d, -places); err != nil {
		panic(fmt.Sprintf("timing: decimal rounding: %v", err))
	}
	return &out
}

func reduce(d *apd.Decimal) *apd.Decimal {
	var out apd.Decimal
	out.Reduce(d)
	return &out
}
