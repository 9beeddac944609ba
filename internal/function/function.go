package function

import (
	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/transform"
	"github.com/roach88/weekfn/internal/types"
)

// Function is a registered week function instance.
//
// Instances are immutable after construction and safe for concurrent use.
type Function interface {
	Name() string
	Spec() Spec

	// ReturnType validates declared argument types and resolves the result type.
	ReturnType(args []types.DataType) (types.DataType, error)

	// Execute runs the function over one batch. resultType must be the type
	// returned by ReturnType for the same declared argument types; rows is
	// the batch length used for constant results.
	Execute(args []Argument, resultType types.DataType, rows int) (column.Column, error)

	// Monotonicity reports whether the function preserves order on a
	// single-argument range of stored values.
	Monotonicity(arg types.DataType, left, right *int64) Monotonicity
}

// Settings are the query settings a function instance captures when it is
// built. Later changes do not affect an existing instance.
type Settings struct {
	EnableDate32Results bool
	SessionTimezone     string
}

// Spec describes a function's calling convention.
type Spec struct {
	Name    string
	Family  Family
	MinArgs int
	MaxArgs int

	// AlwaysConstant lists the 0-based argument positions whose value is
	// read from row 0 only.
	AlwaysConstant []int

	// Result is the fixed result type for scalar-shape functions, nil otherwise.
	Result types.DataType
}

// WeekFunction binds a custom-week transform to the argument contract,
// the result type resolver and the execution dispatcher.
type WeekFunction struct {
	name      string
	family    Family
	fixed     types.DataType
	transform transform.Transform
	wide      bool
	sessionTZ string
}

// NewIdentityShape creates a function whose result is a day value
// (Date or Date32).
func NewIdentityShape(tr transform.Transform, settings Settings) *WeekFunction {
	return &WeekFunction{
		name:      tr.Name(),
		family:    IdentityShape,
		transform: tr,
		wide:      settings.EnableDate32Results,
		sessionTZ: settings.SessionTimezone,
	}
}

// NewScalarShape creates a function with a fixed numeric result type.
// The date32 results flag is captured but has no effect on the result.
func NewScalarShape(tr transform.Transform, result types.DataType, settings Settings) *WeekFunction {
	return &WeekFunction{
		name:      tr.Name(),
		family:    ScalarShape,
		fixed:     result,
		transform: tr,
		wide:      settings.EnableDate32Results,
		sessionTZ: settings.SessionTimezone,
	}
}

// Name returns the canonical function name.
func (f *WeekFunction) Name() string { return f.name }

// Spec returns the calling convention.
func (f *WeekFunction) Spec() Spec {
	return Spec{
		Name:           f.name,
		Family:         f.family,
		MinArgs:        minArity,
		MaxArgs:        maxArity,
		AlwaysConstant: []int{1, 2},
		Result:         f.fixed,
	}
}

// Date32Results reports the flag value captured at construction.
func (f *WeekFunction) Date32Results() bool { return f.wide }

var _ Function = (*WeekFunction)(nil)
