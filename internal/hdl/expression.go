package hdl

// =============================================================================
// OPERATOR EXPRESSIONS
// =============================================================================
//
// Every operator under test is one of a closed set of expression variants.
// Each variant knows two things:
//   - Render: the VHDL text of the operator applied to its input signals
//   - IsValid: whether a (width, family, fixture) combination makes sense
//
// Render must only be called for combinations IsValid accepted. An arity
// mismatch is a configuration bug and panics instead of emitting VHDL that
// the synthesis tool would reject hours later.
//
// IsValid only looks at the family through its friendly name prefix at
// width 0 (see isSigned/isUnsigned), so validity is a property of the
// family's shape, never of a concrete width's text.
// =============================================================================

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/fixture"
)

// Expression is an operator applied to one or two inputs.
type Expression interface {
	// Render returns the VHDL expression text for the given input signal
	// names. len(inputs) must equal Arity.
	Render(inputs []string, inputWidth uint32) string

	// IsValid reports whether the expression can be generated for inputs of
	// the given width and family inside the given fixture.
	IsValid(inputWidth uint32, family Family, fx fixture.Fixture) bool

	// Arity is the number of input signals Render consumes.
	Arity() int

	sealed()
}

func checkArity(e Expression, inputs []string) {
	if len(inputs) != e.Arity() {
		panic(fmt.Sprintf("hdl: %T rendered with %d inputs, want %d", e, len(inputs), e.Arity()))
	}
}

func fits(e Expression, fx fixture.Fixture) bool {
	return e.Arity() <= len(fx.Inputs)
}

// -----------------------------------------------------------------------------
// Binary infix
// -----------------------------------------------------------------------------

// BinaryOperator renders "a <op> b".
type BinaryOperator struct {
	Op string
}

// Operators numeric_std only defines for signed and unsigned.
var numericBinaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "mod": true, "rem": true,
	"<": true, "<=": true, ">": true, ">=": true,
}

func (BinaryOperator) sealed() {}

// Arity implements Expression.
func (BinaryOperator) Arity() int { return 2 }

// Render implements Expression.
func (o BinaryOperator) Render(inputs []string, _ uint32) string {
	checkArity(o, inputs)
	return inputs[0] + " " + o.Op + " " + inputs[1]
}

// IsValid implements Expression.
func (o BinaryOperator) IsValid(_ uint32, family Family, fx fixture.Fixture) bool {
	if !fits(o, fx) {
		return false
	}
	if numericBinaryOps[strings.ToLower(o.Op)] {
		return isNumeric(family)
	}
	return true
}

// -----------------------------------------------------------------------------
// Unary prefix
// -----------------------------------------------------------------------------

// UnaryOperator renders "<op> a".
type UnaryOperator struct {
	Op string
}

func (UnaryOperator) sealed() {}

// Arity implements Expression.
func (UnaryOperator) Arity() int { return 1 }

// Render implements Expression.
func (o UnaryOperator) Render(inputs []string, _ uint32) string {
	checkArity(o, inputs)
	if o.Op == "-" {
		return "-" + inputs[0]
	}
	return o.Op + " " + inputs[0]
}

// IsValid implements Expression. Negation and abs need a signed operand.
func (o UnaryOperator) IsValid(_ uint32, family Family, fx fixture.Fixture) bool {
	if !fits(o, fx) {
		return false
	}
	switch strings.ToLower(o.Op) {
	case "-", "abs":
		return isSigned(family)
	}
	return true
}

// -----------------------------------------------------------------------------
// Truncating shift
// -----------------------------------------------------------------------------

// ShiftDirection selects shift_left or shift_right.
type ShiftDirection int

const (
	ShiftLeft ShiftDirection = iota
	ShiftRight
)

func (d ShiftDirection) function() string {
	if d == ShiftRight {
		return "shift_right"
	}
	return "shift_left"
}

// Shift emulates a fixed-width shift whose count wraps: a 32-bit domain
// shift uses the count mod 32, a 64-bit domain shift the count mod 64. The
// amount is masked with floor(log2(s)) one bits, s being OutputWidth when
// set, the input width otherwise.
//
// With ConstantAmount the shift count is the literal Amount and the
// expression takes a single input.
type Shift struct {
	Direction      ShiftDirection
	OutputWidth    uint32
	ConstantAmount bool
	Amount         uint32
}

func (Shift) sealed() {}

// Arity implements Expression.
func (s Shift) Arity() int {
	if s.ConstantAmount {
		return 1
	}
	return 2
}

// MaskWidth returns the number of low shift-count bits kept for an input of
// the given width.
func (s Shift) MaskWidth(inputWidth uint32) int {
	effective := inputWidth
	if s.OutputWidth != 0 {
		effective = s.OutputWidth
	}
	if effective == 0 {
		return 0
	}
	return bits.Len32(effective) - 1
}

// Render implements Expression.
func (s Shift) Render(inputs []string, inputWidth uint32) string {
	checkArity(s, inputs)
	maskWidth := s.MaskWidth(inputWidth)
	if maskWidth > int(inputWidth) {
		panic(fmt.Sprintf("hdl: shift mask of %d bits wider than %d-bit amount", maskWidth, inputWidth))
	}

	var amount string
	if s.ConstantAmount {
		amount = "to_unsigned(" + strconv.FormatUint(uint64(s.Amount), 10) + ", " +
			strconv.FormatUint(uint64(inputWidth), 10) + ")"
	} else {
		amount = inputs[1]
	}
	mask := strings.Repeat("0", int(inputWidth)-maskWidth) + strings.Repeat("1", maskWidth)

	return fmt.Sprintf("%s(%s, to_integer(unsigned(std_logic_vector(%s) and \"%s\")))",
		s.Direction.function(), inputs[0], amount, mask)
}

// IsValid implements Expression.
func (s Shift) IsValid(inputWidth uint32, family Family, fx fixture.Fixture) bool {
	if !fits(s, fx) || !isNumeric(family) {
		return false
	}
	if s.OutputWidth != 0 && inputWidth != s.OutputWidth {
		return false
	}
	if s.ConstantAmount && inputWidth <= s.Amount {
		return false
	}
	return true
}

// -----------------------------------------------------------------------------
// Constant multiply / divide
// -----------------------------------------------------------------------------

// FamilyMode restricts an expression to signed or unsigned operands.
type FamilyMode int

const (
	AnyFamily FamilyMode = iota
	SignedOnly
	UnsignedOnly
)

// ConstantMultiplyDivide renders "resize(a * c, W)" or "resize(a / c, W)".
// numeric_std multiplication by an integer doubles the width, the resize
// brings the result back to the input width.
//
// A negative constant skips the width check but is only valid for the
// signed family.
type ConstantMultiplyDivide struct {
	Constant int64
	Divide   bool
	Mode     FamilyMode
}

func (ConstantMultiplyDivide) sealed() {}

// Arity implements Expression.
func (ConstantMultiplyDivide) Arity() int { return 1 }

// Render implements Expression.
func (c ConstantMultiplyDivide) Render(inputs []string, inputWidth uint32) string {
	checkArity(c, inputs)
	op := "*"
	if c.Divide {
		op = "/"
	}
	constant := strconv.FormatInt(c.Constant, 10)
	if c.Constant < 0 {
		constant = "(" + constant + ")"
	}
	return "resize(" + inputs[0] + " " + op + " " + constant + ", " +
		strconv.FormatUint(uint64(inputWidth), 10) + ")"
}

// ConstantBits returns the number of bits the constant needs in the given
// family: floor(log2(|c|)) + 1, plus a sign bit for signed families.
func (c ConstantMultiplyDivide) ConstantBits(family Family) int {
	magnitude := c.Constant
	if magnitude < 0 {
		magnitude = -magnitude
	}
	n := bits.Len64(uint64(magnitude))
	if n == 0 {
		n = 1
	}
	if isSigned(family) {
		n++
	}
	return n
}

// IsValid implements Expression.
//
// Negative constants skip the width check; they still need a signed operand.
func (c ConstantMultiplyDivide) IsValid(inputWidth uint32, family Family, fx fixture.Fixture) bool {
	if !fits(c, fx) || !isNumeric(family) {
		return false
	}
	switch c.Mode {
	case SignedOnly:
		if !isSigned(family) {
			return false
		}
	case UnsignedOnly:
		if !isUnsigned(family) {
			return false
		}
	}
	if c.Divide && c.Constant == 0 {
		return false
	}
	if c.Constant < 0 {
		return isSigned(family)
	}
	return c.ConstantBits(family) <= int(inputWidth)
}

// -----------------------------------------------------------------------------
// Resize wrapper
// -----------------------------------------------------------------------------

// Resize wraps an inner expression in "resize(<inner>, W)". Validity is
// entirely the inner expression's.
type Resize struct {
	Inner Expression
}

func (Resize) sealed() {}

// Arity implements Expression.
func (r Resize) Arity() int { return r.Inner.Arity() }

// Render implements Expression.
func (r Resize) Render(inputs []string, inputWidth uint32) string {
	return "resize(" + r.Inner.Render(inputs, inputWidth) + ", " +
		strconv.FormatUint(uint64(inputWidth), 10) + ")"
}

// IsValid implements Expression.
func (r Resize) IsValid(inputWidth uint32, family Family, fx fixture.Fixture) bool {
	return r.Inner.IsValid(inputWidth, family, fx)
}
