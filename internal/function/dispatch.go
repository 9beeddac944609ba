package function

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/transform"
	"github.com/roach88/weekfn/internal/types"
)

// Path is the kernel instantiation selected for one batch.
type Path struct {
	From  types.Encoding
	To    types.DataType
	Scale uint32 // runtime scale of a SubSecondTZ input

	// Narrowing is set when a wide input (Date32 or DateTime64) produces a
	// narrow Date result. Out-of-range results saturate.
	Narrowing bool
}

func (p Path) String() string {
	from := p.From.String()
	if p.From == types.SubSecondTZ {
		from = fmt.Sprintf("%s(%d)", from, p.Scale)
	}
	s := from + "->" + typeName(p.To)
	if p.Narrowing {
		s += " (narrowing)"
	}
	return s
}

// Plan selects the kernel for a column of the given runtime type.
// The scale is read from the type itself.
func (f *WeekFunction) Plan(input types.DataType) (Path, error) {
	enc := types.EncodingOf(input)
	if !enc.IsTemporal() {
		return Path{}, &TypeError{
			Function: f.name,
			Position: 1,
			Actual:   typeName(input),
			Expected: temporalExpectation(input),
		}
	}

	scale, _ := types.ScaleOf(input)
	to := f.resultFor(enc)
	_, narrow := to.(types.Date)
	return Path{
		From:      enc,
		To:        to,
		Scale:     scale,
		Narrowing: narrow && f.family == IdentityShape && (enc == types.WideDay || enc == types.SubSecondTZ),
	}, nil
}

// Execute runs the function over one batch.
//
// The kernel is chosen from the value column's runtime type, not from the
// declared type; resultType must match what that choice produces. A
// constant value column yields a constant result of rows rows. Mode and
// timezone are read from row 0 of their columns.
func (f *WeekFunction) Execute(args []Argument, resultType types.DataType, rows int) (column.Column, error) {
	if len(args) < minArity || len(args) > maxArity {
		return nil, &ArityError{Function: f.name, Got: len(args), Expected: expectedArity}
	}
	value := args[0].Column
	if value == nil {
		return nil, &TypeError{Function: f.name, Position: 1, Actual: typeName(args[0].Type), Expected: "missing column"}
	}

	path, err := f.Plan(value.Type())
	if err != nil {
		return nil, err
	}
	if !types.Equal(path.To, resultType) {
		return nil, &TypeError{
			Function: f.name,
			Position: 1,
			Actual:   typeName(value.Type()),
			Expected: fmt.Sprintf("execution produces %s but the call was resolved to %s", typeName(path.To), typeName(resultType)),
		}
	}

	mode, err := f.modeArgument(args)
	if err != nil {
		return nil, err
	}
	var loc *time.Location
	if !path.From.IsDayOnly() {
		if loc, err = f.location(args); err != nil {
			return nil, err
		}
	}

	input, isConst := column.Unwrap(value)
	out, err := f.run(path, input, mode, loc)
	if err != nil {
		return nil, err
	}
	if isConst {
		c, err := column.NewConst(out, rows)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", f.name, err)
		}
		return c, nil
	}
	return out, nil
}

// run invokes the kernel for path. Each case instantiates the generic
// kernel for one storage type; no per-row dispatch happens.
func (f *WeekFunction) run(path Path, input column.Column, mode uint8, loc *time.Location) (column.Column, error) {
	tr := f.transform
	var (
		out column.Column
		ok  bool
	)
	switch path.From {
	case types.NarrowDay:
		src, isVec := column.As[uint16](input)
		if !isVec {
			return nil, f.storageError(input)
		}
		out, ok = kernel(src, path.To, func(v uint16) int64 { return tr.Day(int64(v), mode) })
	case types.WideDay:
		src, isVec := column.As[int32](input)
		if !isVec {
			return nil, f.storageError(input)
		}
		out, ok = kernel(src, path.To, func(v int32) int64 { return tr.Day(int64(v), mode) })
	case types.SecondsTZ:
		src, isVec := column.As[uint32](input)
		if !isVec {
			return nil, f.storageError(input)
		}
		out, ok = kernel(src, path.To, func(v uint32) int64 { return tr.Seconds(int64(v), mode, loc) })
	case types.SubSecondTZ:
		src, isVec := column.As[int64](input)
		if !isVec {
			return nil, f.storageError(input)
		}
		scaled := transform.WithScale(tr, path.Scale)
		out, ok = kernel(src, path.To, func(v int64) int64 { return scaled.Ticks(v, mode, loc) })
	}
	if !ok {
		return nil, &TypeError{
			Function: f.name,
			Position: 1,
			Actual:   typeName(input.Type()),
			Expected: "no kernel for path " + path.String(),
		}
	}
	return out, nil
}

// kernel applies compute to every row of src and narrows the result into
// the storage type of to.
func kernel[F column.Native](src *column.Vector[F], to types.DataType, compute func(F) int64) (column.Column, bool) {
	switch to.(type) {
	case types.Date:
		return column.Apply(src, to, func(v F) uint16 { return saturateDate(compute(v)) }), true
	case types.Date32:
		return column.Apply(src, to, func(v F) int32 { return saturateDate32(compute(v)) }), true
	case types.UInt8:
		return column.Apply(src, to, func(v F) uint8 { return saturateUnsigned[uint8](compute(v), math.MaxUint8) }), true
	case types.UInt16:
		return column.Apply(src, to, func(v F) uint16 { return saturateUnsigned[uint16](compute(v), math.MaxUint16) }), true
	case types.UInt32:
		return column.Apply(src, to, func(v F) uint32 { return saturateUnsigned[uint32](compute(v), math.MaxUint32) }), true
	default:
		return nil, false
	}
}

func saturateDate(day int64) uint16 {
	switch {
	case day < types.MinDate:
		return types.MinDate
	case day > types.MaxDate:
		return types.MaxDate
	default:
		return uint16(day)
	}
}

// saturateUnsigned clamps a scalar result into [0, hi].
func saturateUnsigned[T ~uint8 | ~uint16 | ~uint32](v, hi int64) T {
	switch {
	case v < 0:
		return 0
	case v > hi:
		return T(hi)
	default:
		return T(v)
	}
}

func saturateDate32(day int64) int32 {
	switch {
	case day < types.MinDate32:
		return types.MinDate32
	case day > types.MaxDate32:
		return types.MaxDate32
	default:
		return int32(day)
	}
}

func (f *WeekFunction) storageError(c column.Column) error {
	return &TypeError{
		Function: f.name,
		Position: 1,
		Actual:   typeName(c.Type()),
		Expected: fmt.Sprintf("column storage %T does not match its declared type", c),
	}
}

// modeArgument returns the week mode from row 0 of argument 2, or 0.
func (f *WeekFunction) modeArgument(args []Argument) (uint8, error) {
	if len(args) < 2 || args[1].Column == nil {
		return 0, nil
	}
	inner, _ := column.Unwrap(args[1].Column)
	v, ok := column.As[uint8](inner)
	if !ok {
		return 0, &TypeError{Function: f.name, Position: 2, Actual: typeName(inner.Type()), Expected: usageHint}
	}
	if v.Len() == 0 || v.IsNull(0) {
		return 0, nil
	}
	return v.At(0), nil
}

// location resolves the timezone for instant inputs: the timezone argument,
// then the value type's timezone, then the session timezone, then UTC.
func (f *WeekFunction) location(args []Argument) (*time.Location, error) {
	name := ""
	if len(args) == 3 && args[2].Column != nil {
		inner, _ := column.Unwrap(args[2].Column)
		v, ok := column.As[string](inner)
		if !ok {
			return nil, &TypeError{Function: f.name, Position: 3, Actual: typeName(inner.Type()), Expected: usageHint}
		}
		if v.Len() > 0 && !v.IsNull(0) {
			name = v.At(0)
		}
	}
	if name == "" {
		name = types.TimezoneOf(args[0].Column.Type())
	}
	if name == "" {
		name = f.sessionTZ
	}
	loc, err := types.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", f.name, err)
	}
	return loc, nil
}
