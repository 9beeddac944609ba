package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/weekfn/internal/transform"
	"github.com/roach88/weekfn/internal/types"
)

func TestResultEncoding(t *testing.T) {
	tests := []struct {
		in   types.Encoding
		wide bool
		want types.Encoding
	}{
		{types.NarrowDay, false, types.NarrowDay},
		{types.NarrowDay, true, types.NarrowDay},
		{types.WideDay, false, types.NarrowDay},
		{types.WideDay, true, types.WideDay},
		{types.SecondsTZ, false, types.NarrowDay},
		{types.SecondsTZ, true, types.NarrowDay},
		{types.SubSecondTZ, false, types.NarrowDay},
		{types.SubSecondTZ, true, types.WideDay},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResultEncoding(tt.in, tt.wide), "%s wide=%v", tt.in, tt.wide)
	}
}

func TestReturnType_IdentityShape(t *testing.T) {
	tests := []struct {
		input types.DataType
		off   types.DataType
		on    types.DataType
	}{
		{tDate, types.Date{}, types.Date{}},
		{tDate32, types.Date{}, types.Date32{}},
		{tDateTime, types.Date{}, types.Date{}},
		{tDateTimeTZ, types.Date{}, types.Date{}},
		{tDT64, types.Date{}, types.Date32{}},
		{tDT64TZ, types.Date{}, types.Date32{}},
	}

	for _, tt := range tests {
		t.Run(tt.input.Name(), func(t *testing.T) {
			off := NewIdentityShape(transform.ToStartOfWeek{}, Settings{})
			on := NewIdentityShape(transform.ToStartOfWeek{}, Settings{EnableDate32Results: true})

			got, err := off.ReturnType([]types.DataType{tt.input})
			require.NoError(t, err)
			assert.Equal(t, tt.off, got)

			got, err = on.ReturnType([]types.DataType{tt.input})
			require.NoError(t, err)
			assert.Equal(t, tt.on, got)
		})
	}
}

func TestReturnType_ScalarShapeIgnoresFlag(t *testing.T) {
	for _, wide := range []bool{false, true} {
		week := NewScalarShape(transform.ToWeek{}, types.UInt8{}, Settings{EnableDate32Results: wide})
		yearWeek := NewScalarShape(transform.ToYearWeek{}, types.UInt32{}, Settings{EnableDate32Results: wide})

		for _, typ := range temporalTypes() {
			got, err := week.ReturnType([]types.DataType{typ})
			require.NoError(t, err)
			assert.Equal(t, types.UInt8{}, got)

			got, err = yearWeek.ReturnType([]types.DataType{typ, tUInt8})
			require.NoError(t, err)
			assert.Equal(t, types.UInt32{}, got)
		}
	}
}

func TestReturnType_ScalarShapeStillValidates(t *testing.T) {
	week := NewScalarShape(transform.ToWeek{}, types.UInt8{}, Settings{})

	_, err := week.ReturnType([]types.DataType{tDate, tUInt8, tString})
	assert.True(t, IsTypeError(err))

	_, err = week.ReturnType(nil)
	assert.True(t, IsArityError(err))
}

func TestReturnType_Idempotent(t *testing.T) {
	f := NewIdentityShape(transform.ToLastDayOfWeek{}, Settings{EnableDate32Results: true})
	args := []types.DataType{tDT64TZ, tUInt8, tString}

	first, err := f.ReturnType(args)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := f.ReturnType(args)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestReturnType_FlagCapturedAtConstruction(t *testing.T) {
	settings := Settings{EnableDate32Results: true}
	f := NewIdentityShape(transform.ToStartOfWeek{}, settings)
	settings.EnableDate32Results = false

	got, err := f.ReturnType([]types.DataType{tDate32})
	require.NoError(t, err)
	assert.Equal(t, types.Date32{}, got)
	assert.True(t, f.Date32Results())
}
