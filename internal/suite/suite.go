package suite

import (
	"iter"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/hdl"
)

// OperatorCase is one named operator under test across the families and
// fixtures it supports. Cases are built once from configuration and never
// mutated afterwards.
type OperatorCase struct {
	Expression hdl.Expression
	Name       string
	Families   []hdl.Family
	Output     hdl.OutputRule
	Fixtures   []fixture.Fixture
}

// TestCase is one accepted point of the test matrix.
type TestCase struct {
	Operator   *OperatorCase
	InputWidth uint32
	Family     hdl.Family
	Fixture    fixture.Fixture
}

// Code renders the operator expression over the fixture's input signals.
func (tc TestCase) Code() string {
	inputs := tc.Fixture.Inputs[:tc.Operator.Expression.Arity()]
	return tc.Operator.Expression.Render(inputs, tc.InputWidth)
}

// InputType returns the input type, code or friendly form.
func (tc TestCase) InputType(friendly bool) string {
	return tc.Family.Describe(tc.InputWidth, friendly)
}

// OutputType returns the output type, code or friendly form.
func (tc TestCase) OutputType(friendly bool) string {
	return tc.Operator.Output.Describe(tc.InputWidth, tc.Family, friendly)
}

// Name is the filesystem-safe identifier of the test case, e.g.
// "add_unsigned32_to_unsigned32_registered".
func (tc TestCase) Name() string {
	return tc.Operator.Name + "_" + tc.InputType(true) + "_to_" + tc.OutputType(true) + "_" + tc.Fixture.Name
}

// VHDL returns the complete fixture text for the test case.
func (tc TestCase) VHDL() string {
	return tc.Fixture.Fill(tc.Code(), tc.InputType(false), tc.OutputType(false))
}

// Enumerate walks the declared cross product of every case's families and
// fixtures with the given widths, yielding only valid combinations.
//
// Order: operator case, then width, then family, then fixture. The sequence
// can be ranged over any number of times and from several goroutines; it
// holds no state of its own.
func Enumerate(cases []*OperatorCase, widths []uint32) iter.Seq[TestCase] {
	return func(yield func(TestCase) bool) {
		for _, oc := range cases {
			for _, w := range widths {
				for _, fam := range oc.Families {
					for _, fx := range oc.Fixtures {
						if !oc.Expression.IsValid(w, fam, fx) {
							continue
						}
						tc := TestCase{Operator: oc, InputWidth: w, Family: fam, Fixture: fx}
						if !yield(tc) {
							return
						}
					}
				}
			}
		}
	}
}

// Collect drains a test sequence into a slice.
func Collect(seq iter.Seq[TestCase]) []TestCase {
	var out []TestCase
	for tc := range seq {
		out = append(out, tc)
	}
	return out
}

// Partition splits tests into n contiguous slices of len(tests)/n items,
// the last slice taking the remainder. n is clamped to [1, len(tests)] so no
// slice is ever empty unless tests is.
func Partition(tests []TestCase, n int) [][]TestCase {
	if len(tests) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > len(tests) {
		n = len(tests)
	}
	size := len(tests) / n
	out := make([][]TestCase, 0, n)
	for i := 0; i < n; i++ {
		start := i * size
		end := start + size
		if i == n-1 {
			end = len(tests)
		}
		out = append(out, tests[start:end])
	}
	return out
}
