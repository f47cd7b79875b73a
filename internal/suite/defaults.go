package suite

import (
	"fmt"
	"strconv"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/hdl"
)

// Constants used by the *_by_const operators. Powers of two are the ones
// worth characterising: synthesis turns them into wiring, everything else
// turns into a real multiplier.
var powerOfTwoConstants = []int64{2, 4, 8, 16, 32, 64, 128, 256}

// Fixed shift domains emulated by the dotnet_shift operators.
var shiftDomains = []uint32{32, 64}

// DefaultCases returns the standard operator set tested against the given
// fixtures.
func DefaultCases(fixtures []fixture.Fixture) []*OperatorCase {
	all := hdl.AllFamilies()
	numeric := hdl.NumericFamilies()
	signed := []hdl.Family{hdl.Signed}

	binary := func(op, name string, families []hdl.Family, out hdl.OutputRule) *OperatorCase {
		return &OperatorCase{
			Expression: hdl.BinaryOperator{Op: op},
			Name:       name,
			Families:   families,
			Output:     out,
			Fixtures:   fixtures,
		}
	}

	cases := []*OperatorCase{
		binary("and", "and", all, hdl.SameAsInput),
		binary("nand", "nand", all, hdl.SameAsInput),
		binary("or", "or", all, hdl.SameAsInput),
		binary("nor", "nor", all, hdl.SameAsInput),
		binary("xor", "xor", all, hdl.SameAsInput),
		binary("xnor", "xnor", all, hdl.SameAsInput),
		binary("=", "eq", all, hdl.BooleanOutput),
		binary("/=", "neq", all, hdl.BooleanOutput),
		binary("<", "lt", numeric, hdl.BooleanOutput),
		binary("<=", "le", numeric, hdl.BooleanOutput),
		binary(">", "gt", numeric, hdl.BooleanOutput),
		binary(">=", "ge", numeric, hdl.BooleanOutput),
		binary("+", "add", numeric, hdl.SameAsInput),
		binary("-", "sub", numeric, hdl.SameAsInput),
		binary("*", "mul", numeric, hdl.DoubleWidth),
		binary("/", "div", numeric, hdl.SameAsInput),
		binary("mod", "mod", numeric, hdl.SameAsInput),
		binary("rem", "rem", numeric, hdl.SameAsInput),
		{
			Expression: hdl.Resize{Inner: hdl.BinaryOperator{Op: "*"}},
			Name:       "mul_resized",
			Families:   numeric,
			Output:     hdl.SameAsInput,
			Fixtures:   fixtures,
		},
		{
			Expression: hdl.UnaryOperator{Op: "not"},
			Name:       "not",
			Families:   all,
			Output:     hdl.SameAsInput,
			Fixtures:   fixtures,
		},
		{
			Expression: hdl.UnaryOperator{Op: "-"},
			Name:       "neg",
			Families:   signed,
			Output:     hdl.SameAsInput,
			Fixtures:   fixtures,
		},
		{
			Expression: hdl.UnaryOperator{Op: "abs"},
			Name:       "abs",
			Families:   signed,
			Output:     hdl.SameAsInput,
			Fixtures:   fixtures,
		},
	}

	for _, domain := range shiftDomains {
		d := strconv.FormatUint(uint64(domain), 10)
		cases = append(cases,
			&OperatorCase{
				Expression: hdl.Shift{Direction: hdl.ShiftLeft, OutputWidth: domain},
				Name:       "dotnet_shift_left_" + d,
				Families:   numeric,
				Output:     hdl.SameAsInput,
				Fixtures:   fixtures,
			},
			&OperatorCase{
				Expression: hdl.Shift{Direction: hdl.ShiftRight, OutputWidth: domain},
				Name:       "dotnet_shift_right_" + d,
				Families:   numeric,
				Output:     hdl.SameAsInput,
				Fixtures:   fixtures,
			},
		)
	}

	for _, amount := range []uint32{1, 4, 16} {
		a := strconv.FormatUint(uint64(amount), 10)
		cases = append(cases,
			&OperatorCase{
				Expression: hdl.Shift{Direction: hdl.ShiftLeft, ConstantAmount: true, Amount: amount},
				Name:       "shift_left_by_" + a,
				Families:   numeric,
				Output:     hdl.SameAsInput,
				Fixtures:   fixtures,
			},
			&OperatorCase{
				Expression: hdl.Shift{Direction: hdl.ShiftRight, ConstantAmount: true, Amount: amount},
				Name:       "shift_right_by_" + a,
				Families:   numeric,
				Output:     hdl.SameAsInput,
				Fixtures:   fixtures,
			},
		)
	}

	for _, c := range powerOfTwoConstants {
		n := strconv.FormatInt(c, 10)
		cases = append(cases,
			&OperatorCase{
				Expression: hdl.ConstantMultiplyDivide{Constant: c},
				Name:       "mul_by_" + n,
				Families:   numeric,
				Output:     hdl.SameAsInput,
				Fixtures:   fixtures,
			},
			&OperatorCase{
				Expression: hdl.ConstantMultiplyDivide{Constant: c, Divide: true},
				Name:       "div_by_" + n,
				Families:   numeric,
				Output:     hdl.SameAsInput,
				Fixtures:   fixtures,
			},
			&OperatorCase{
				Expression: hdl.ConstantMultiplyDivide{Constant: -c, Mode: hdl.SignedOnly},
				Name:       "mul_by_minus_" + n,
				Families:   signed,
				Output:     hdl.SameAsInput,
				Fixtures:   fixtures,
			},
		)
	}

	return cases
}

// Select keeps the cases whose names are listed, in their original order.
// An empty name list keeps every case. Unknown names are an error.
func Select(cases []*OperatorCase, names []string) ([]*OperatorCase, error) {
	if len(names) == 0 {
		return cases, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	found := make(map[string]bool, len(names))
	var out []*OperatorCase
	for _, oc := range cases {
		if wanted[oc.Name] {
			out = append(out, oc)
			found[oc.Name] = true
		}
	}
	for _, n := range names {
		if !found[n] {
			return nil, fmt.Errorf("unknown operator %q", n)
		}
	}
	return out, nil
}

// RestrictFamilies narrows every case to the given families, keeping the
// case's own family order. Cases left without a family are dropped.
func RestrictFamilies(cases []*OperatorCase, families []hdl.Family) []*OperatorCase {
	if len(families) == 0 {
		return cases
	}
	allowed := make(map[hdl.Family]bool, len(families))
	for _, f := range families {
		allowed[f] = true
	}
	var out []*OperatorCase
	for _, oc := range cases {
		var kept []hdl.Family
		for _, f := range oc.Families {
			if allowed[f] {
				kept = append(kept, f)
			}
		}
		if len(kept) == 0 {
			continue
		}
		narrowed := *oc
		narrowed.Families = kept
		out = append(out, &narrowed)
	}
	return out
}
