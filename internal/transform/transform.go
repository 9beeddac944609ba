package transform

import (
	"time"

	"github.com/roach88/weekfn/internal/types"
)

// Transform is a stateless per-row week computation.
//
// Day receives a day number (days since 1970-01-01) from a day-only
// encoding; timezones do not apply. Seconds receives a Unix timestamp and
// the timezone in which the local calendar day is taken.
//
// Results are plain int64; the caller narrows them into the output
// encoding.
type Transform interface {
	Name() string
	Day(day int64, mode uint8) int64
	Seconds(sec int64, mode uint8, loc *time.Location) int64
}

// Factored is implemented by transforms that are monotonic only within
// ranges where FactorDay is constant. Transforms without it are monotonic
// everywhere.
type Factored interface {
	FactorDay(day int64) int64
}

// Scaled adapts a Transform to sub-second ticks of a fixed scale.
type Scaled struct {
	base       Transform
	scale      uint32
	multiplier int64
}

// WithScale wraps base so it accepts DateTime64 ticks of the given scale.
// Ticks are floored to whole seconds before base sees them.
func WithScale(base Transform, scale uint32) Scaled {
	return Scaled{
		base:       base,
		scale:      scale,
		multiplier: types.ScaleMultiplier(scale),
	}
}

// Scale returns the scale the adapter was built with.
func (s Scaled) Scale() uint32 { return s.scale }

// Base returns the wrapped transform.
func (s Scaled) Base() Transform { return s.base }

// Ticks applies the wrapped transform to a sub-second value.
func (s Scaled) Ticks(ticks int64, mode uint8, loc *time.Location) int64 {
	return s.base.Seconds(types.FloorDiv(ticks, s.multiplier), mode, loc)
}
