package transform

import (
	"time"

	"github.com/roach88/weekfn/internal/types"
)

// Week mode flags, as in MySQL WEEK().
//
//	Mode  First day  Range  Week 1 is the first week ...
//	0     Sunday     0-53   with a Sunday in this year
//	1     Monday     0-53   with 4 or more days this year
//	2     Sunday     1-53   with a Sunday in this year
//	3     Monday     1-53   with 4 or more days this year
//	4     Sunday     0-53   with 4 or more days this year
//	5     Monday     0-53   with a Monday in this year
//	6     Sunday     1-53   with 4 or more days this year
//	7     Monday     1-53   with a Monday in this year
//	8     Sunday     1-53   contains January 1
//	9     Monday     1-53   contains January 1
const (
	ModeMondayFirst  uint8 = 1
	ModeYear         uint8 = 2
	ModeFirstWeekday uint8 = 4
	ModeNewYearDay   uint8 = 8
)

// normalizeMode keeps the low three bits and flips FirstWeekday for
// Sunday-first modes, so the flag reads "week 1 starts on the first
// weekday" uniformly.
func normalizeMode(mode uint8) uint8 {
	m := mode & 7
	if m&ModeMondayFirst == 0 {
		m ^= ModeFirstWeekday
	}
	return m
}

// YearWeek returns the week-numbering year and the week number of a day.
func YearWeek(day int64, mode uint8) (int, int) {
	newYearDay := mode&ModeNewYearDay != 0
	mode = normalizeMode(mode)
	mondayFirst := mode&ModeMondayFirst != 0
	yearMode := mode&ModeYear != 0
	firstWeekday := mode&ModeFirstWeekday != 0

	if newYearDay {
		return yearWeekNewYear(day, mondayFirst)
	}

	year, month, dom := types.CivilDate(day)
	firstDay := types.DayNumber(year, time.January, 1)
	weekday := weekdayIndex(firstDay, !mondayFirst)

	if month == time.January && dom <= 7-weekday {
		if !yearMode && ((firstWeekday && weekday != 0) || (!firstWeekday && weekday >= 4)) {
			return year, 0
		}
		yearMode = true
		year--
		days := daysInYear(year)
		firstDay -= int64(days)
		weekday = (weekday + 53*7 - days) % 7
	}

	var days int64
	if (firstWeekday && weekday != 0) || (!firstWeekday && weekday >= 4) {
		days = day - (firstDay + int64(7-weekday))
	} else {
		days = day - (firstDay - int64(weekday))
	}

	if yearMode && days >= 52*7 {
		weekday = (weekday + daysInYear(year)) % 7
		if (!firstWeekday && weekday < 4) || (firstWeekday && weekday == 0) {
			return year + 1, 1
		}
	}
	return year, int(days/7) + 1
}

// yearWeekNewYear numbers weeks so that week 1 contains January 1.
func yearWeekNewYear(day int64, mondayFirst bool) (int, int) {
	offset := int64(1)
	if mondayFirst {
		offset = 0
	}
	year, _, _ := types.CivilDate(day + 7 - int64(types.DayOfWeek(day+offset)))

	first := types.DayNumber(year, time.January, 1)
	first = FirstDayOfWeek(first, mondayFirst)
	this := FirstDayOfWeek(day, mondayFirst)
	return year, int((this-first)/7) + 1
}

// FirstDayOfWeek rounds a day down to the preceding Monday or Sunday.
func FirstDayOfWeek(day int64, mondayFirst bool) int64 {
	dow := int64(types.DayOfWeek(day))
	if mondayFirst {
		return day - (dow - 1)
	}
	if dow == 7 {
		return day
	}
	return day - dow
}

// weekdayIndex returns 0 for the first day of the week: Monday, or
// Sunday when sundayFirst is set.
func weekdayIndex(day int64, sundayFirst bool) int {
	if sundayFirst {
		return types.DayOfWeek(day+1) - 1
	}
	return types.DayOfWeek(day) - 1
}

func daysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}
