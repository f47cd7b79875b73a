package hdl

import (
	"fmt"
	"strconv"
	"strings"
)

// Family is a named VHDL data type family parameterised by bit width.
// The set is closed: Unsigned, Signed and StdLogicVector.
type Family struct {
	name string
	code string
}

var (
	// Unsigned is ieee.numeric_std.unsigned.
	Unsigned = Family{name: "unsigned", code: "unsigned"}
	// Signed is ieee.numeric_std.signed.
	Signed = Family{name: "signed", code: "signed"}
	// StdLogicVector is the raw bit vector, no arithmetic.
	StdLogicVector = Family{name: "std_logic_vector", code: "std_logic_vector"}
)

// AllFamilies returns every family in canonical order.
func AllFamilies() []Family {
	return []Family{Unsigned, Signed, StdLogicVector}
}

// NumericFamilies returns the families numeric_std defines arithmetic for.
func NumericFamilies() []Family {
	return []Family{Unsigned, Signed}
}

// ParseFamily resolves a configuration name to a family.
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unsigned":
		return Unsigned, nil
	case "signed":
		return Signed, nil
	case "std_logic_vector", "slv":
		return StdLogicVector, nil
	}
	return Family{}, fmt.Errorf("unknown type family %q", name)
}

// Name returns the configuration name of the family.
func (f Family) Name() string { return f.name }

// String implements fmt.Stringer.
func (f Family) String() string { return f.name }

// Describe returns the type for the given width. The code form is a VHDL
// subtype indication such as "signed(31 downto 0)". The friendly form, such
// as "signed32", only contains [a-z0-9_] and is safe as a path component.
//
// The friendly form is total. The code form panics for width 0, which has no
// VHDL range.
func (f Family) Describe(width uint32, friendly bool) string {
	if friendly {
		return f.name + strconv.FormatUint(uint64(width), 10)
	}
	if width == 0 {
		panic(fmt.Sprintf("hdl: %s has no zero-width code form", f.name))
	}
	return f.code + "(" + strconv.FormatUint(uint64(width)-1, 10) + " downto 0)"
}

// The family probe: validity predicates read the friendly prefix at width 0
// and nothing else.
func isSigned(f Family) bool {
	return strings.HasPrefix(f.Describe(0, true), "signed")
}

func isUnsigned(f Family) bool {
	return strings.HasPrefix(f.Describe(0, true), "unsigned")
}

func isNumeric(f Family) bool {
	return isSigned(f) || isUnsigned(f)
}

// Boolean type descriptor used by comparison outputs.
const (
	BooleanCode     = "boolean"
	BooleanFriendly = "boolean"
)
