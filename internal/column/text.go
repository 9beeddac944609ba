package column

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/weekfn/internal/types"
)

// NullText is the textual form of a null row.
const NullText = "NULL"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	// Fractional seconds are optional when parsing with this layout.
	dateTime64Layout = "2006-01-02 15:04:05.999999999"
)

// FromStrings builds a column of type t from textual values.
//
// Temporal values accept either their calendar form ("2024-01-03",
// "2024-01-03 10:00:00", "2024-01-03 10:00:00.250") or their raw stored
// integer. Calendar instants are read in the type's timezone, falling back
// to sessionTZ. "NULL" and `\N` produce null rows.
func FromStrings(t types.DataType, values []string, sessionTZ string) (Column, error) {
	nulls := make([]bool, len(values))
	hasNull := false
	for i, s := range values {
		if s == NullText || s == `\N` {
			nulls[i] = true
			hasNull = true
		}
	}
	if !hasNull {
		nulls = nil
	}

	switch dt := t.(type) {
	case types.Date:
		return parseEach(t, values, nulls, func(s string) (uint16, error) {
			day, err := parseDay(s)
			if err != nil {
				return 0, err
			}
			if day < types.MinDate || day > types.MaxDate {
				return 0, fmt.Errorf("date %s is outside Date range", s)
			}
			return uint16(day), nil
		})

	case types.Date32:
		return parseEach(t, values, nulls, func(s string) (int32, error) {
			day, err := parseDay(s)
			if err != nil {
				return 0, err
			}
			if day < types.MinDate32 || day > types.MaxDate32 {
				return 0, fmt.Errorf("date %s is outside Date32 range", s)
			}
			return int32(day), nil
		})

	case types.DateTime:
		loc, err := types.LoadLocation(pickTimezone(dt.Timezone, sessionTZ))
		if err != nil {
			return nil, err
		}
		return parseEach(t, values, nulls, func(s string) (uint32, error) {
			sec, err := parseInstant(s, dateTimeLayout, loc)
			if err != nil {
				return 0, err
			}
			if sec < 0 || sec > math.MaxUint32 {
				return 0, fmt.Errorf("instant %s is outside DateTime range", s)
			}
			return uint32(sec), nil
		})

	case types.DateTime64:
		loc, err := types.LoadLocation(pickTimezone(dt.Timezone, sessionTZ))
		if err != nil {
			return nil, err
		}
		return parseEach(t, values, nulls, func(s string) (int64, error) {
			return parseTicks(s, dt.Scale, loc)
		})

	case types.UInt8:
		return parseEach(t, values, nulls, func(s string) (uint8, error) {
			n, err := strconv.ParseUint(s, 10, 8)
			return uint8(n), err
		})
	case types.UInt16:
		return parseEach(t, values, nulls, func(s string) (uint16, error) {
			n, err := strconv.ParseUint(s, 10, 16)
			return uint16(n), err
		})
	case types.UInt32:
		return parseEach(t, values, nulls, func(s string) (uint32, error) {
			n, err := strconv.ParseUint(s, 10, 32)
			return uint32(n), err
		})
	case types.Int32:
		return parseEach(t, values, nulls, func(s string) (int32, error) {
			n, err := strconv.ParseInt(s, 10, 32)
			return int32(n), err
		})
	case types.Int64:
		return parseEach(t, values, nulls, func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		})
	case types.String:
		return parseEach(t, values, nulls, func(s string) (string, error) {
			return s, nil
		})
	}

	return nil, fmt.Errorf("cannot read values of type %v", t)
}

// Format renders every row of c in its textual form. Instants are shown
// in the type's timezone, falling back to sessionTZ.
func Format(c Column, sessionTZ string) ([]string, error) {
	if k, ok := c.(*Const); ok {
		one, err := Format(k.Value, sessionTZ)
		if err != nil {
			return nil, err
		}
		out := make([]string, k.Rows)
		for i := range out {
			out[i] = one[0]
		}
		return out, nil
	}

	switch dt := c.Type().(type) {
	case types.Date:
		return formatEach[uint16](c, func(v uint16) string { return formatDay(int64(v)) })
	case types.Date32:
		return formatEach[int32](c, func(v int32) string { return formatDay(int64(v)) })
	case types.DateTime:
		loc, err := types.LoadLocation(pickTimezone(dt.Timezone, sessionTZ))
		if err != nil {
			return nil, err
		}
		return formatEach[uint32](c, func(v uint32) string {
			return time.Unix(int64(v), 0).In(loc).Format(dateTimeLayout)
		})
	case types.DateTime64:
		loc, err := types.LoadLocation(pickTimezone(dt.Timezone, sessionTZ))
		if err != nil {
			return nil, err
		}
		return formatEach[int64](c, func(v int64) string { return formatTicks(v, dt.Scale, loc) })
	case types.UInt8:
		return formatEach[uint8](c, func(v uint8) string { return strconv.FormatUint(uint64(v), 10) })
	case types.UInt16:
		return formatEach[uint16](c, func(v uint16) string { return strconv.FormatUint(uint64(v), 10) })
	case types.UInt32:
		return formatEach[uint32](c, func(v uint32) string { return strconv.FormatUint(uint64(v), 10) })
	case types.Int32:
		return formatEach[int32](c, func(v int32) string { return strconv.FormatInt(int64(v), 10) })
	case types.Int64:
		return formatEach[int64](c, func(v int64) string { return strconv.FormatInt(v, 10) })
	case types.String:
		return formatEach[string](c, func(v string) string { return v })
	}

	return nil, fmt.Errorf("cannot format values of type %v", c.Type())
}

func parseEach[T Native](t types.DataType, values []string, nulls []bool, parse func(string) (T, error)) (Column, error) {
	data := make([]T, len(values))
	for i, s := range values {
		if nulls != nil && nulls[i] {
			continue
		}
		v, err := parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		data[i] = v
	}
	vec, err := NewNullableVector(t, data, nulls)
	if err != nil {
		return nil, err
	}
	return vec, nil
}

func formatEach[T Native](c Column, format func(T) string) ([]string, error) {
	v, ok := As[T](c)
	if !ok {
		return nil, fmt.Errorf("column of type %s has unexpected storage %T", c.Type().Name(), c)
	}
	out := make([]string, v.Len())
	for i := range v.Data {
		if v.IsNull(i) {
			out[i] = NullText
			continue
		}
		out[i] = format(v.Data[i])
	}
	return out, nil
}

func pickTimezone(typeTZ, sessionTZ string) string {
	if typeTZ != "" {
		return typeTZ
	}
	return sessionTZ
}

func parseDay(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q", s)
	}
	return types.DayNumber(d.Date()), nil
}

func formatDay(day int64) string {
	y, m, d := types.CivilDate(day)
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

func parseInstant(s, layout string, loc *time.Location) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if len(s) == len(dateLayout) {
		layout = dateLayout
	}
	ts, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid instant %q", s)
	}
	return ts.Unix(), nil
}

func parseTicks(s string, scale uint32, loc *time.Location) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	layout := dateTime64Layout
	if len(s) == len(dateLayout) {
		layout = dateLayout
	}
	ts, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid instant %q", s)
	}
	mul := types.ScaleMultiplier(scale)
	return ts.Unix()*mul + int64(ts.Nanosecond())/(1_000_000_000/mul), nil
}

func formatTicks(ticks int64, scale uint32, loc *time.Location) string {
	mul := types.ScaleMultiplier(scale)
	whole := types.FloorDiv(ticks, mul)
	text := time.Unix(whole, 0).In(loc).Format(dateTimeLayout)
	if scale == 0 {
		return text
	}
	frac := ticks - whole*mul
	return fmt.Sprintf("%s.%0*d", text, int(scale), frac)
}
