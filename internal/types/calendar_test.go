package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayNumber(t *testing.T) {
	assert.Equal(t, int64(0), DayNumber(1970, time.January, 1))
	assert.Equal(t, int64(19725), DayNumber(2024, time.January, 3))
	assert.Equal(t, int64(MinDate32), DayNumber(1900, time.January, 1))
	assert.Equal(t, int64(MaxDate32), DayNumber(2299, time.December, 31))
	assert.Equal(t, int64(MaxDate), DayNumber(2149, time.June, 6))
}

func TestCivilDate(t *testing.T) {
	y, m, d := CivilDate(19725)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.January, m)
	assert.Equal(t, 3, d)

	y, m, d = CivilDate(-1)
	assert.Equal(t, 1969, y)
	assert.Equal(t, time.December, m)
	assert.Equal(t, 31, d)
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, 4, DayOfWeek(0), "1970-01-01 was a Thursday")
	assert.Equal(t, 3, DayOfWeek(19725), "2024-01-03 was a Wednesday")
	assert.Equal(t, 7, DayOfWeek(19722), "2023-12-31 was a Sunday")
	assert.Equal(t, 3, DayOfWeek(-1), "1969-12-31 was a Wednesday")
	assert.Equal(t, 1, DayOfWeek(MinDate32), "1900-01-01 was a Monday")
}

func TestDayOfInstant(t *testing.T) {
	tokyo, err := LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-01-06 20:00:00 UTC is already Sunday 2024-01-07 in Tokyo.
	sec := time.Date(2024, time.January, 6, 20, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, int64(19728), DayOfInstant(sec, time.UTC))
	assert.Equal(t, int64(19729), DayOfInstant(sec, tokyo))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(1), FloorDiv(1500, 1000))
	assert.Equal(t, int64(-2), FloorDiv(-1500, 1000))
	assert.Equal(t, int64(-1), FloorDiv(-1000, 1000))
	assert.Equal(t, int64(0), FloorDiv(999, 1000))
}
