package column

import (
	"fmt"

	"github.com/roach88/weekfn/internal/types"
)

// Native lists the Go storage types a Vector may hold.
type Native interface {
	~uint8 | ~uint16 | ~uint32 | ~int32 | ~int64 | ~string
}

// Column is an immutable batch of rows of a single declared type.
//
// This is a sealed interface - only Vector and Const implement it.
type Column interface {
	Type() types.DataType
	Len() int
	IsNull(i int) bool
	column() // Marker method - seals interface to this package
}

// Vector holds one native value per row.
// Nulls is nil when the column carries no null markers.
type Vector[T Native] struct {
	typ   types.DataType
	Data  []T
	Nulls []bool
}

// NewVector creates a vector without null markers.
func NewVector[T Native](typ types.DataType, data []T) *Vector[T] {
	return &Vector[T]{typ: typ, Data: data}
}

// NewNullableVector creates a vector with a null map.
// The null map must have the same length as data.
func NewNullableVector[T Native](typ types.DataType, data []T, nulls []bool) (*Vector[T], error) {
	if nulls != nil && len(nulls) != len(data) {
		return nil, fmt.Errorf("null map has %d rows, data has %d", len(nulls), len(data))
	}
	return &Vector[T]{typ: typ, Data: data, Nulls: nulls}, nil
}

func (v *Vector[T]) Type() types.DataType { return v.typ }
func (v *Vector[T]) Len() int             { return len(v.Data) }
func (v *Vector[T]) column()              {}

// IsNull reports whether row i is marked null.
func (v *Vector[T]) IsNull(i int) bool {
	return v.Nulls != nil && v.Nulls[i]
}

// At returns the stored value of row i. Null rows return the zero value.
func (v *Vector[T]) At(i int) T {
	return v.Data[i]
}

// Const is a single value repeated for Rows rows.
type Const struct {
	Value Column // exactly one row
	Rows  int
}

// NewConst wraps a one-row column as a constant of the given length.
func NewConst(value Column, rows int) (*Const, error) {
	if value == nil || value.Len() != 1 {
		return nil, fmt.Errorf("constant column requires exactly one row")
	}
	if c, ok := value.(*Const); ok {
		value = c.Value
	}
	return &Const{Value: value, Rows: rows}, nil
}

func (c *Const) Type() types.DataType { return c.Value.Type() }
func (c *Const) Len() int             { return c.Rows }
func (c *Const) IsNull(int) bool      { return c.Value.IsNull(0) }
func (c *Const) column()              {}

// As returns the column as a Vector of the requested native type.
// Constants are not unwrapped.
func As[T Native](c Column) (*Vector[T], bool) {
	v, ok := c.(*Vector[T])
	return v, ok
}

// Unwrap returns the underlying vector of a constant column, or the column
// itself. The boolean reports whether c was constant.
func Unwrap(c Column) (Column, bool) {
	if k, ok := c.(*Const); ok {
		return k.Value, true
	}
	return c, false
}

// Apply maps fn over every non-null row of src and returns a newly
// allocated vector of type to. Row count, row order and null markers are
// preserved.
func Apply[F, T Native](src *Vector[F], to types.DataType, fn func(F) T) *Vector[T] {
	out := make([]T, len(src.Data))
	if src.Nulls == nil {
		for i, v := range src.Data {
			out[i] = fn(v)
		}
		return &Vector[T]{typ: to, Data: out}
	}

	nulls := make([]bool, len(src.Nulls))
	copy(nulls, src.Nulls)
	for i, v := range src.Data {
		if nulls[i] {
			continue
		}
		out[i] = fn(v)
	}
	return &Vector[T]{typ: to, Data: out, Nulls: nulls}
}

// Empty returns a zero-row vector of the storage type for t.
func Empty(t types.DataType) (Column, error) {
	switch t.(type) {
	case types.Date, types.UInt16:
		return NewVector(t, []uint16{}), nil
	case types.Date32, types.Int32:
		return NewVector(t, []int32{}), nil
	case types.DateTime, types.UInt32:
		return NewVector(t, []uint32{}), nil
	case types.DateTime64, types.Int64:
		return NewVector(t, []int64{}), nil
	case types.UInt8:
		return NewVector(t, []uint8{}), nil
	case types.String:
		return NewVector(t, []string{}), nil
	default:
		return nil, fmt.Errorf("no storage for type %v", t)
	}
}
