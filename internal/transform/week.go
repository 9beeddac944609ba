package transform

import (
	"time"

	"github.com/roach88/weekfn/internal/types"
)

// ToWeek returns the week number for a week mode.
type ToWeek struct{}

func (ToWeek) Name() string { return "toWeek" }

func (ToWeek) Day(day int64, mode uint8) int64 {
	_, week := YearWeek(day, mode)
	return int64(week)
}

func (t ToWeek) Seconds(sec int64, mode uint8, loc *time.Location) int64 {
	return t.Day(types.DayOfInstant(sec, loc), mode)
}

// FactorDay groups days by calendar year: the week number resets every
// January, so it only grows within one year.
func (ToWeek) FactorDay(day int64) int64 {
	year, _, _ := types.CivilDate(day)
	return types.DayNumber(year, time.January, 1)
}

// ToYearWeek returns year*100 + week, always numbering weeks within the
// week-numbering year.
type ToYearWeek struct{}

func (ToYearWeek) Name() string { return "toYearWeek" }

func (ToYearWeek) Day(day int64, mode uint8) int64 {
	year, week := YearWeek(day, mode|ModeYear)
	return int64(year)*100 + int64(week)
}

func (t ToYearWeek) Seconds(sec int64, mode uint8, loc *time.Location) int64 {
	return t.Day(types.DayOfInstant(sec, loc), mode)
}

// ToStartOfWeek rounds down to the first day of the week. Only the
// Monday-first bit of the mode is significant.
type ToStartOfWeek struct{}

func (ToStartOfWeek) Name() string { return "toStartOfWeek" }

func (ToStartOfWeek) Day(day int64, mode uint8) int64 {
	return FirstDayOfWeek(day, mode&ModeMondayFirst != 0)
}

func (t ToStartOfWeek) Seconds(sec int64, mode uint8, loc *time.Location) int64 {
	return t.Day(types.DayOfInstant(sec, loc), mode)
}

// ToLastDayOfWeek rounds up to the last day of the week.
type ToLastDayOfWeek struct{}

func (ToLastDayOfWeek) Name() string { return "toLastDayOfWeek" }

func (ToLastDayOfWeek) Day(day int64, mode uint8) int64 {
	return FirstDayOfWeek(day, mode&ModeMondayFirst != 0) + 6
}

func (t ToLastDayOfWeek) Seconds(sec int64, mode uint8, loc *time.Location) int64 {
	return t.Day(types.DayOfInstant(sec, loc), mode)
}
