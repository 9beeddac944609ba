package function

import (
	"fmt"

	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/types"
)

// Argument is one call argument: its declared type and, at execution
// time, its column.
type Argument struct {
	Type   types.DataType
	Column column.Column
}

// Request is the validated view of a call's arguments.
// It is created fresh per type resolution and never mutated.
type Request struct {
	Function    string
	Arity       int
	Input       types.DataType
	Encoding    types.Encoding
	Scale       uint32 // only meaningful for SubSecondTZ
	HasMode     bool
	HasTimezone bool
}

const (
	minArity = 1
	maxArity = 3

	expectedArity    = "1, 2, or 3"
	expectedTemporal = "expected Date, Date32, DateTime or DateTime64"
	usageHint        = "function takes 1 required value argument, optional mode and timezone: " +
		"the 1st argument must be Date, Date32, DateTime or DateTime64, " +
		"the 2nd (optional) a constant UInt8 week mode, " +
		"the 3rd (optional) a constant String timezone name"
	timezoneNotAllowed = "timezone argument not allowed for a date-only input"
)

// argumentRule checks one argument position once the call has at least
// Position arguments.
type argumentRule struct {
	Position int
	Accepts  func(types.DataType) bool
	Expected string
}

// argumentRules is the positional contract, evaluated in order.
var argumentRules = []argumentRule{
	{Position: 1, Accepts: isTemporal, Expected: expectedTemporal},
	{Position: 2, Accepts: types.IsUInt8, Expected: usageHint},
	{Position: 3, Accepts: types.IsString, Expected: usageHint},
}

func isTemporal(t types.DataType) bool {
	return types.EncodingOf(t).IsTemporal()
}

// temporalExpectation describes why t is not an acceptable argument 1.
func temporalExpectation(t types.DataType) string {
	if scale, ok := types.ScaleOf(t); ok && scale > types.MaxScale {
		return fmt.Sprintf("DateTime64 scale %d is out of range [0, %d]", scale, types.MaxScale)
	}
	return expectedTemporal
}

// Validate checks a call's declared argument types against the week
// function contract and returns the request descriptor.
//
// Rules, first failure wins:
//  1. arity is 1, 2 or 3
//  2. argument 1 is temporal
//  3. argument 2, if present, is UInt8
//  4. argument 3, if present, is String
//  5. a timezone argument is not combined with a day-only argument 1
//
// Validate is a pure function of declared types.
func Validate(name string, args []types.DataType) (Request, error) {
	n := len(args)
	if n < minArity || n > maxArity {
		return Request{}, &ArityError{Function: name, Got: n, Expected: expectedArity}
	}

	for _, rule := range argumentRules {
		if rule.Position > n {
			break
		}
		arg := args[rule.Position-1]
		if arg == nil || !rule.Accepts(arg) {
			expected := rule.Expected
			if rule.Position == 1 {
				expected = temporalExpectation(arg)
			}
			return Request{}, &TypeError{
				Function: name,
				Position: rule.Position,
				Actual:   typeName(arg),
				Expected: expected,
			}
		}
	}

	enc := types.EncodingOf(args[0])
	if n == 3 && enc.IsDayOnly() {
		return Request{}, &TypeError{
			Function: name,
			Position: 3,
			Actual:   typeName(args[2]),
			Expected: timezoneNotAllowed,
		}
	}

	scale, _ := types.ScaleOf(args[0])
	return Request{
		Function:    name,
		Arity:       n,
		Input:       args[0],
		Encoding:    enc,
		Scale:       scale,
		HasMode:     n >= 2,
		HasTimezone: n == 3,
	}, nil
}

// TypesOf returns the declared types of args.
func TypesOf(args []Argument) []types.DataType {
	out := make([]types.DataType, len(args))
	for i, a := range args {
		out[i] = a.Type
	}
	return out
}

func typeName(t types.DataType) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
