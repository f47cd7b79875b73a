package hdl

import "fmt"

// OutputRule derives an operator's output type from its input type.
type OutputRule int

const (
	// SameAsInput keeps the input family and width.
	SameAsInput OutputRule = iota
	// BooleanOutput is used by comparisons.
	BooleanOutput
	// DoubleWidth keeps the family and doubles the width, e.g. full multiply.
	DoubleWidth
)

func (r OutputRule) String() string {
	switch r {
	case SameAsInput:
		return "same"
	case BooleanOutput:
		return "boolean"
	case DoubleWidth:
		return "double"
	}
	return fmt.Sprintf("OutputRule(%d)", int(r))
}

// Describe returns the output type for an input of the given width and family.
func (r OutputRule) Describe(inputWidth uint32, family Family, friendly bool) string {
	switch r {
	case BooleanOutput:
		if friendly {
			return BooleanFriendly
		}
		return BooleanCode
	case DoubleWidth:
		return family.Describe(inputWidth*2, friendly)
	default:
		return family.Describe(inputWidth, friendly)
	}
}
