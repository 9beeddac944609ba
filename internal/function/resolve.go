package function

import (
	"fmt"

	"github.com/roach88/weekfn/internal/types"
)

// Family selects how a function's result type follows its input.
type Family uint8

const (
	// IdentityShape functions return a day value whose width follows the
	// input encoding and the date32 results flag.
	IdentityShape Family = iota

	// ScalarShape functions return a fixed numeric type regardless of the
	// input encoding or the flag.
	ScalarShape
)

func (f Family) String() string {
	switch f {
	case IdentityShape:
		return "identity"
	case ScalarShape:
		return "scalar"
	default:
		return fmt.Sprintf("Family(%d)", f)
	}
}

// ResultEncoding maps an input encoding to the day encoding produced by an
// identity-shape function. Type resolution and execution both call it, so
// they cannot disagree.
//
// Only WideDay and SubSecondTZ inputs produce WideDay results, and only
// when wide results are enabled. Every other case produces NarrowDay.
func ResultEncoding(in types.Encoding, wide bool) types.Encoding {
	if wide && (in == types.WideDay || in == types.SubSecondTZ) {
		return types.WideDay
	}
	return types.NarrowDay
}

// resultFor is the result type for an input encoding.
func (f *WeekFunction) resultFor(enc types.Encoding) types.DataType {
	if f.family == ScalarShape {
		return f.fixed
	}
	return types.DayType(ResultEncoding(enc, f.wide))
}

// ReturnType validates the declared argument types and returns the result
// type. Both families run the full contract.
func (f *WeekFunction) ReturnType(args []types.DataType) (types.DataType, error) {
	req, err := Validate(f.name, args)
	if err != nil {
		return nil, err
	}
	return f.resultFor(req.Encoding), nil
}
