package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  DataType
	}{
		{"Date", Date{}},
		{"Date32", Date32{}},
		{"DateTime", DateTime{}},
		{"DateTime('Europe/Berlin')", DateTime{Timezone: "Europe/Berlin"}},
		{"DateTime64(3)", DateTime64{Scale: 3}},
		{"DateTime64(6, 'Asia/Tokyo')", DateTime64{Scale: 6, Timezone: "Asia/Tokyo"}},
		{"UInt8", UInt8{}},
		{"UInt32", UInt32{}},
		{"String", String{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.Name(), "Name must print the parsed form back")
		})
	}
}

func TestParse_Whitespace(t *testing.T) {
	got, err := Parse("  DateTime64( 3 ,  'UTC' ) ")
	require.NoError(t, err)
	assert.Equal(t, DateTime64{Scale: 3, Timezone: "UTC"}, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"Float64", "unknown type"},
		{"DateTime64", "requires a scale"},
		{"DateTime64(10)", "out of range"},
		{"DateTime64(x)", "not an integer"},
		{"DateTime(UTC)", "quoted string"},
		{"DateTime('UTC'", "closing parenthesis"},
		{"DateTime('UTC)", "unterminated quote"},
		{"DateTime('UTC', 'UTC')", "at most one"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEncodingOf(t *testing.T) {
	assert.Equal(t, NarrowDay, EncodingOf(Date{}))
	assert.Equal(t, WideDay, EncodingOf(Date32{}))
	assert.Equal(t, SecondsTZ, EncodingOf(DateTime{Timezone: "UTC"}))
	assert.Equal(t, SubSecondTZ, EncodingOf(DateTime64{Scale: 3}))
	assert.Equal(t, SubSecondTZ, EncodingOf(DateTime64{Scale: MaxScale}))
	assert.Equal(t, NotTemporal, EncodingOf(DateTime64{Scale: MaxScale + 1}))
	assert.Equal(t, NotTemporal, EncodingOf(UInt8{}))
	assert.Equal(t, NotTemporal, EncodingOf(String{}))
	assert.Equal(t, NotTemporal, EncodingOf(nil))
}

func TestEncoding_DayOnly(t *testing.T) {
	assert.True(t, NarrowDay.IsDayOnly())
	assert.True(t, WideDay.IsDayOnly())
	assert.False(t, SecondsTZ.IsDayOnly())
	assert.False(t, SubSecondTZ.IsDayOnly())
	assert.False(t, NotTemporal.IsTemporal())
	for _, e := range Encodings {
		assert.True(t, e.IsTemporal(), e.String())
	}
}

func TestTypeQueries(t *testing.T) {
	assert.True(t, IsUInt8(UInt8{}))
	assert.False(t, IsUInt8(UInt16{}))
	assert.True(t, IsString(String{}))
	assert.False(t, IsString(UInt8{}))

	scale, ok := ScaleOf(DateTime64{Scale: 3})
	assert.True(t, ok)
	assert.Equal(t, uint32(3), scale)
	_, ok = ScaleOf(DateTime{})
	assert.False(t, ok)

	assert.Equal(t, "Asia/Tokyo", TimezoneOf(DateTime64{Scale: 1, Timezone: "Asia/Tokyo"}))
	assert.Equal(t, "", TimezoneOf(Date32{}))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(DateTime64{Scale: 3, Timezone: "UTC"}, DateTime64{Scale: 3, Timezone: "UTC"}))
	assert.False(t, Equal(DateTime64{Scale: 3}, DateTime64{Scale: 6}))
	assert.False(t, Equal(Date{}, Date32{}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Date{}, nil))
}

func TestScaleMultiplier(t *testing.T) {
	assert.Equal(t, int64(1), ScaleMultiplier(0))
	assert.Equal(t, int64(1000), ScaleMultiplier(3))
	assert.Equal(t, int64(1_000_000_000), ScaleMultiplier(9))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	again, err := LoadLocation("UTC")
	require.NoError(t, err)
	assert.Same(t, loc, again, "locations are cached")

	_, err = LoadLocation("Mars/Olympus_Mons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown timezone")
}
