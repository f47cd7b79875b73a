package fixture

// =============================================================================
// FIXTURES: THE DESIGN AROUND THE OPERATOR
// =============================================================================
//
// A fixture is the VHDL skeleton an operator expression is spliced into.
// The combinational fixture connects ports straight to the expression, so the
// tool times a pad-to-pad path. The registered fixture puts flip-flops on
// both sides of the expression, so the tool times a register-to-register path
// against a real clock constraint.
//
// The expression only ever sees the signal names listed in Inputs. Keep
// those names in sync with the template text below.
// =============================================================================

import (
	"fmt"
	"strings"
)

// Placeholders substituted by Fill.
const (
	InputTypePlaceholder  = "%INPUT_TYPE%"
	OutputTypePlaceholder = "%OUTPUT_TYPE%"
	ExpressionPlaceholder = "%EXPRESSION%"
)

// Fixture is a named design skeleton. Values are immutable and shared by
// every test case that uses them.
type Fixture struct {
	Name string

	// Inputs are the ordered signal names an expression may read.
	Inputs []string

	// RequiresTimingConstraint is true when the design has a clock that must
	// be constrained for the timing report to contain a requirement.
	RequiresTimingConstraint bool

	template string
}

// Combinational times the operator between input and output ports.
var Combinational = Fixture{
	Name:   "combinational",
	Inputs: []string{"a", "b"},
	template: `library ieee;
use ieee.std_logic_1164.all;
use ieee.numeric_std.all;

entity tf_sample is
    port (
        a : in %INPUT_TYPE%;
        b : in %INPUT_TYPE%;
        o : out %OUTPUT_TYPE%
    );
end tf_sample;

architecture imp of tf_sample is
begin
    o <= %EXPRESSION%;
end imp;
`,
}

// Registered times the operator between two register stages.
var Registered = Fixture{
	Name:                     "registered",
	Inputs:                   []string{"a_reg", "b_reg"},
	RequiresTimingConstraint: true,
	template: `library ieee;
use ieee.std_logic_1164.all;
use ieee.numeric_std.all;

entity tf_sample is
    port (
        clk : in std_logic;
        a : in %INPUT_TYPE%;
        b : in %INPUT_TYPE%;
        o : out %OUTPUT_TYPE%
    );
end tf_sample;

architecture imp of tf_sample is
    signal a_reg : %INPUT_TYPE%;
    signal b_reg : %INPUT_TYPE%;
    signal o_reg : %OUTPUT_TYPE%;
begin
    process (clk)
    begin
        if rising_edge(clk) then
            a_reg <= a;
            b_reg <= b;
            o_reg <= %EXPRESSION%;
        end if;
    end process;
    o <= o_reg;
end imp;
`,
}

// All returns the built-in fixtures in their canonical order.
func All() []Fixture {
	return []Fixture{Combinational, Registered}
}

// ByName looks up a built-in fixture.
func ByName(name string) (Fixture, error) {
	for _, f := range All() {
		if f.Name == name {
			return f, nil
		}
	}
	return Fixture{}, fmt.Errorf("unknown fixture %q", name)
}

// Fill splices the rendered expression and the code-form types into the
// fixture's VHDL skeleton.
func (f Fixture) Fill(expression, inputType, outputType string) string {
	r := strings.NewReplacer(
		InputTypePlaceholder, inputType,
		OutputTypePlaceholder, outputType,
		ExpressionPlaceholder, expression,
	)
	return r.Replace(f.template)
}
