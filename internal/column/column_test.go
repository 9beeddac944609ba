package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/weekfn/internal/types"
)

func TestApply_PreservesRowsAndOrder(t *testing.T) {
	src := NewVector(types.Date32{}, []int32{10, -5, 300, 0, 7})

	out := Apply(src, types.UInt32{}, func(v int32) uint32 { return uint32(v + 100) })

	assert.Equal(t, 5, out.Len())
	assert.Equal(t, []uint32{110, 95, 400, 100, 107}, out.Data)
	assert.Equal(t, types.UInt32{}, out.Type())
	assert.Nil(t, out.Nulls, "no null map in, no null map out")
}

func TestApply_PreservesNulls(t *testing.T) {
	src, err := NewNullableVector(types.Date{}, []uint16{1, 0, 3}, []bool{false, true, false})
	require.NoError(t, err)

	calls := 0
	out := Apply(src, types.Date{}, func(v uint16) uint16 {
		calls++
		return v * 2
	})

	assert.Equal(t, 2, calls, "null rows are skipped")
	assert.Equal(t, []uint16{2, 0, 6}, out.Data)
	assert.Equal(t, []bool{false, true, false}, out.Nulls)
	assert.True(t, out.IsNull(1))

	// Output null map is a copy.
	out.Nulls[0] = true
	assert.False(t, src.IsNull(0))
}

func TestNewNullableVector_LengthMismatch(t *testing.T) {
	_, err := NewNullableVector(types.Date{}, []uint16{1, 2}, []bool{true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null map has 1 rows")
}

func TestConst(t *testing.T) {
	one := NewVector(types.UInt8{}, []uint8{3})
	c, err := NewConst(one, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, types.UInt8{}, c.Type())
	assert.False(t, c.IsNull(2))

	inner, isConst := Unwrap(c)
	assert.True(t, isConst)
	assert.Same(t, one, inner)

	nested, err := NewConst(c, 2)
	require.NoError(t, err)
	assert.Same(t, one, nested.Value, "constants do not nest")

	_, err = NewConst(NewVector(types.UInt8{}, []uint8{1, 2}), 2)
	require.Error(t, err)
}

func TestAs(t *testing.T) {
	var c Column = NewVector(types.DateTime{}, []uint32{1})

	v, ok := As[uint32](c)
	require.True(t, ok)
	assert.Equal(t, uint32(1), v.At(0))

	_, ok = As[int64](c)
	assert.False(t, ok)
}

func TestEmpty(t *testing.T) {
	c, err := Empty(types.DateTime64{Scale: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	_, ok := As[int64](c)
	assert.True(t, ok)

	_, err = Empty(nil)
	require.Error(t, err)
}
