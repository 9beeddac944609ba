package types

import (
	"fmt"
	"strings"
)

// DataType represents a declared column or argument type.
//
// This is a sealed interface - only types in this package implement it.
// Name returns the canonical textual form accepted by Parse.
type DataType interface {
	Name() string
	dataType() // Marker method - seals interface to this package
}

// MaxScale is the largest sub-second scale a DateTime64 may carry.
const MaxScale = 9

// Date range limits, in days since 1970-01-01.
const (
	MinDate   = 0
	MaxDate   = 65535
	MinDate32 = -25567 // 1900-01-01
	MaxDate32 = 120529 // 2299-12-31
)

// Date is a narrow day count stored as uint16.
type Date struct{}

func (Date) Name() string { return "Date" }
func (Date) dataType()    {}

// Date32 is a wide day count stored as int32.
type Date32 struct{}

func (Date32) Name() string { return "Date32" }
func (Date32) dataType()    {}

// DateTime is a second-resolution instant stored as uint32.
// An empty Timezone means the session timezone applies.
type DateTime struct {
	Timezone string
}

func (t DateTime) Name() string {
	if t.Timezone == "" {
		return "DateTime"
	}
	return fmt.Sprintf("DateTime(%s)", quote(t.Timezone))
}
func (DateTime) dataType() {}

// DateTime64 is a sub-second instant stored as int64 ticks of 10^-Scale
// seconds. Scale is fixed when the type is declared and never inferred.
type DateTime64 struct {
	Scale    uint32
	Timezone string
}

func (t DateTime64) Name() string {
	if t.Timezone == "" {
		return fmt.Sprintf("DateTime64(%d)", t.Scale)
	}
	return fmt.Sprintf("DateTime64(%d, %s)", t.Scale, quote(t.Timezone))
}
func (DateTime64) dataType() {}

// UInt8 is an unsigned 8-bit integer.
type UInt8 struct{}

func (UInt8) Name() string { return "UInt8" }
func (UInt8) dataType()    {}

// UInt16 is an unsigned 16-bit integer.
type UInt16 struct{}

func (UInt16) Name() string { return "UInt16" }
func (UInt16) dataType()    {}

// UInt32 is an unsigned 32-bit integer.
type UInt32 struct{}

func (UInt32) Name() string { return "UInt32" }
func (UInt32) dataType()    {}

// Int32 is a signed 32-bit integer.
type Int32 struct{}

func (Int32) Name() string { return "Int32" }
func (Int32) dataType()    {}

// Int64 is a signed 64-bit integer.
type Int64 struct{}

func (Int64) Name() string { return "Int64" }
func (Int64) dataType()    {}

// String is a variable-length byte string.
type String struct{}

func (String) Name() string { return "String" }
func (String) dataType()    {}

// Equal reports whether two declared types are identical, including
// timezone and scale parameters.
func Equal(a, b DataType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// IsUInt8 reports whether t is an unsigned 8-bit integer type.
func IsUInt8(t DataType) bool {
	_, ok := t.(UInt8)
	return ok
}

// IsString reports whether t is a string type.
func IsString(t DataType) bool {
	_, ok := t.(String)
	return ok
}

// ScaleOf returns the declared scale of a DateTime64 type.
// The second return value is false for every other type.
func ScaleOf(t DataType) (uint32, bool) {
	dt, ok := t.(DateTime64)
	if !ok {
		return 0, false
	}
	return dt.Scale, true
}

// TimezoneOf returns the timezone attached to a DateTime or DateTime64
// type. Day-only and non-temporal types carry no timezone.
func TimezoneOf(t DataType) string {
	switch dt := t.(type) {
	case DateTime:
		return dt.Timezone
	case DateTime64:
		return dt.Timezone
	default:
		return ""
	}
}

// ScaleMultiplier returns 10^scale.
func ScaleMultiplier(scale uint32) int64 {
	m := int64(1)
	for i := uint32(0); i < scale; i++ {
		m *= 10
	}
	return m
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
