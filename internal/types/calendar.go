package types

import "time"

const secondsPerDay = 86400

// DayNumber returns the number of days between 1970-01-01 and the given
// proleptic Gregorian date. Dates before the epoch are negative.
func DayNumber(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// CivilDate returns the calendar date of a day number.
func CivilDate(day int64) (int, time.Month, int) {
	return time.Unix(day*secondsPerDay, 0).UTC().Date()
}

// DayOfWeek returns the ISO weekday of a day number: 1 = Monday .. 7 = Sunday.
// 1970-01-01 was a Thursday.
func DayOfWeek(day int64) int {
	return int(((day+3)%7+7)%7) + 1
}

// DayOfInstant returns the local day number of a Unix timestamp in loc.
func DayOfInstant(sec int64, loc *time.Location) int64 {
	y, m, d := time.Unix(sec, 0).In(loc).Date()
	return DayNumber(y, m, d)
}

// FloorDiv divides rounding towards negative infinity.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
