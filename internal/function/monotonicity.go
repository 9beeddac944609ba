package function

import (
	"github.com/roach88/weekfn/internal/transform"
	"github.com/roach88/weekfn/internal/types"
)

// Monotonicity describes how a function orders a range of inputs.
type Monotonicity struct {
	IsMonotonic       bool
	IsPositive        bool
	IsAlwaysMonotonic bool
}

// Monotonicity reports whether f is monotonic on [left, right], given as
// stored values of arg (days, seconds or ticks). Nil bounds mean the range
// is unknown.
//
// A transform without a factor is monotonic everywhere. A factored
// transform is monotonic only when both bounds share a factor.
func (f *WeekFunction) Monotonicity(arg types.DataType, left, right *int64) Monotonicity {
	factored, ok := f.transform.(transform.Factored)
	if !ok {
		return Monotonicity{IsMonotonic: true, IsPositive: true, IsAlwaysMonotonic: true}
	}
	if left == nil || right == nil {
		return Monotonicity{}
	}

	enc := types.EncodingOf(arg)
	if !enc.IsTemporal() {
		return Monotonicity{}
	}
	loc, err := types.LoadLocation(firstNonEmpty(types.TimezoneOf(arg), f.sessionTZ))
	if err != nil {
		return Monotonicity{}
	}
	scale, _ := types.ScaleOf(arg)

	toDay := func(v int64) int64 {
		switch enc {
		case types.SecondsTZ:
			return types.DayOfInstant(v, loc)
		case types.SubSecondTZ:
			return types.DayOfInstant(types.FloorDiv(v, types.ScaleMultiplier(scale)), loc)
		default:
			return v
		}
	}

	if factored.FactorDay(toDay(*left)) != factored.FactorDay(toDay(*right)) {
		return Monotonicity{}
	}
	return Monotonicity{IsMonotonic: true, IsPositive: true}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
